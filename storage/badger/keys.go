package badger

import (
	"encoding/binary"

	"github.com/planora/catalog/core"
)

// Key prefixes for different data types. Record ids are appended big
// endian, so keys iterate in ascending id order and cursor pagination is
// a seek instead of a full scan. The sequence keys sort outside the
// record prefixes.
const (
	assetRecordPrefix    = "astrec:"
	assetIDSeq           = "astrecseq"
	platformRecordPrefix = "pltrec:"
	platformIDSeq        = "pltrecseq"
)

// makeAssetKey generates a key for an asset record by ID.
func makeAssetKey(id core.ID) []byte {
	return makeRecordKey(assetRecordPrefix, id)
}

// makePlatformKey generates a key for a platform record by ID.
func makePlatformKey(id core.ID) []byte {
	return makeRecordKey(platformRecordPrefix, id)
}

func makeRecordKey(prefix string, id core.ID) []byte {
	return binary.BigEndian.AppendUint64([]byte(prefix), uint64(id))
}
