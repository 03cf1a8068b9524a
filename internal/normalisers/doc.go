// Package normalisers provides implementations of the Normaliser interface
// for the page formats the indexer accepts. Each normaliser knows how to
// extract clean text from a specific MIME type.
//
// Normalisers are registered with a Registry at startup.
package normalisers
