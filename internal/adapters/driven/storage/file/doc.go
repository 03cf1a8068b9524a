// Package file persists the index as generation directories on disk.
//
// Each Save writes a new generation holding two artifacts:
//
//	gen-000042/index.bin      binary vector blob
//	gen-000042/metadata.json  chunk records keyed by ID, plus the ordered ID list
//
// and then atomically replaces the CURRENT pointer file. A crash at any point
// leaves CURRENT naming a complete generation, so the vectors and metadata
// are only ever observed as a pair.
package file
