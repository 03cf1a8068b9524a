// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorIndex: append-only dense vector storage with exact search
//   - MetadataStore: insertion-ordered chunk records, resolved by slot
//   - IndexRepository: joint, crash-safe persistence of both stores
//   - EmbeddingService: turns text into vectors
//   - Normaliser / NormaliserRegistry: page content to clean text
//   - PostProcessor: document text to chunks
//   - ConfigStore, PromptStore: configuration and prompt templates
//
// # Optional Interfaces
//
//   - LLMService: without it, chat answers are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
