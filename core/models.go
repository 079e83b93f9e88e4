package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Asset represents a creative asset in the media-planning catalog.
// Its embedding vector is populated by the sync pipeline and may be
// empty until the asset has been synced at least once.
type Asset struct {
	Id          ID
	Name        string
	Description string
	Type        string
	Category    string
	PlatformId  ID // 0 means no linked platform
	Vector      []float32
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Platform represents a media platform an asset can be linked to.
// Audience and DeviceSplit hold free-form attributes; the pipeline treats
// them opaquely and only folds them into composed content.
type Platform struct {
	Id          ID
	Name        string
	Industry    string
	Audience    map[string]string
	DeviceSplit map[string]string
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// SyncResult records the outcome of syncing a single asset.
// Err is nil on success.
type SyncResult struct {
	AssetId ID
	Err     error
}

// Succeeded reports whether the sync succeeded.
func (r SyncResult) Succeeded() bool {
	return r.Err == nil
}

// SyncLedger is the ordered collection of per-asset outcomes from one
// bulk sync run. Order matches enumeration order, not completion order.
type SyncLedger struct {
	Results []SyncResult
}

// Succeeded returns the number of successful entries.
func (l *SyncLedger) Succeeded() int {
	n := 0
	for _, r := range l.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of failed entries.
func (l *SyncLedger) Failed() int {
	return len(l.Results) - l.Succeeded()
}

// RetrievalMatch is a single ranked row from a hybrid retrieval.
// Platform is nil when the asset has no linked platform.
type RetrievalMatch struct {
	Asset      *Asset
	Platform   *Platform
	Similarity float32
	LexScore   float32
	Combined   float32
}
