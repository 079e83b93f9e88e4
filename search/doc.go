// Package search implements hybrid retrieval over the asset catalog:
// the query is embedded and ranked against stored asset vectors, with a
// lexical term-overlap boost folded into the combined score. It also
// provides the transport-level result projection.
package search
