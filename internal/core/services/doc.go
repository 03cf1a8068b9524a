// Package services implements the driving port interfaces.
// Services contain the core retrieval logic (indexing, reranking and
// snippet extraction) and orchestrate calls to driven ports.
//
// Services are pure Go with no CGO or external dependencies.
package services
