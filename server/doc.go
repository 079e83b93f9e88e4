// Package server exposes the catalog's sync and retrieval operations
// over a small JSON HTTP API.
package server
