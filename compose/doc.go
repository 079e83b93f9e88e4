// Package compose builds the canonical text representation of an asset
// for embedding.
//
// Composition is deterministic: the same asset and platform snapshot always
// produce byte-identical content, which keeps stored embeddings stable and
// makes resynchronization idempotent.
package compose
