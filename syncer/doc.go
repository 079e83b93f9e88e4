// Package syncer keeps stored asset embeddings consistent with asset
// content. It provides single-asset synchronization with transient
// retry, and a bulk job that fans the same operation out over a bounded
// worker pool while collecting per-asset outcomes into a ledger.
package syncer
