package disk

import (
	"bytes"
	"time"
)

// Header field offsets within an encoded record.
const (
	CompressionOffset      = len(recordMagic) + 2
	UncompressedSizeOffset = checksumOffset - 16
	CompressedSizeOffset   = checksumOffset - 8
	ChecksumOffset         = checksumOffset
	WrittenAtOffset        = checksumOffset + checksumLen
)

// SetNow overrides the clock used to stamp records and age temp files.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
}

// Reseal recomputes the checksum of an encoded record in place.
func Reseal(data []byte) error {
	r := bytes.NewReader(data)
	if _, err := decodeHeader(r); err != nil {
		return err
	}
	n := len(data) - r.Len()
	sealHeader(data[:n], data[n:])
	return nil
}
