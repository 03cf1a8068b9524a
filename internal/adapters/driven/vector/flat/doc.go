// Package flat provides an exact, in-memory vector index.
//
// Every search scans all stored vectors and ranks them by squared
// Euclidean distance, matching the semantics of a FAISS IndexFlatL2.
// At personal-history scale (tens of thousands of chunks) a full scan
// is fast enough that no approximation is needed.
package flat
