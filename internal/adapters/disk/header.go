package disk

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordMagic prefixes every record file.
var recordMagic = [4]byte{'M', 'C', 'R', '1'}

const (
	maxFormatLen = 255
	maxPathLen   = 1 << 16

	// maxPayloadSize bounds both payload sizes a header may claim.
	maxPayloadSize int64 = 1 << 40

	// checksumOffset is where the checksum field starts: the magic, the
	// version, compression and length fields, then four int64 fields.
	checksumOffset = len(recordMagic) + 2 + 1 + 1 + 4 + 4*8
	checksumLen    = 8
)

// fixedHeader is the fixed-width part of the header, written after the magic.
type fixedHeader struct {
	Version          uint16
	Compression      uint8
	FormatLen        uint8
	PathLen          uint32
	Size             int64
	ModTime          int64
	UncompressedSize int64
	CompressedSize   int64
	Checksum         uint64
	WrittenAt        int64
}

// encodeHeader returns the encoded header. The checksum field is copied from
// h as is; sealHeader replaces it once the payload is known.
func encodeHeader(h domain.RecordHeader) ([]byte, error) {
	if len(h.Format) > maxFormatLen {
		return nil, zerr.With(zerr.New("format tag too long"), "format", h.Format)
	}
	if len(h.Key.Path) > maxPathLen {
		return nil, zerr.With(zerr.New("source path too long"), "path", h.Key.Path)
	}

	fixed := fixedHeader{
		Version:          domain.RecordFormatVersion,
		Compression:      uint8(h.Compression),
		FormatLen:        uint8(len(h.Format)),
		PathLen:          uint32(len(h.Key.Path)),
		Size:             h.Key.Size,
		ModTime:          h.Key.ModTime,
		UncompressedSize: h.UncompressedSize,
		CompressedSize:   h.CompressedSize,
		Checksum:         h.Checksum,
		WrittenAt:        h.WrittenAt.UnixNano(),
	}

	var buf bytes.Buffer
	buf.Grow(checksumOffset + checksumLen + 8 + len(h.Format) + len(h.Key.Path))
	buf.Write(recordMagic[:])
	if err := binary.Write(&buf, binary.LittleEndian, fixed); err != nil {
		return nil, zerr.Wrap(err, "failed to encode record header")
	}
	buf.WriteString(h.Format)
	buf.WriteString(h.Key.Path)
	return buf.Bytes(), nil
}

// recordChecksum hashes the encoded header, with its checksum field read as
// zero, followed by the compressed payload.
func recordChecksum(header, payload []byte) uint64 {
	var zero [checksumLen]byte
	d := xxhash.New()
	_, _ = d.Write(header[:checksumOffset])
	_, _ = d.Write(zero[:])
	_, _ = d.Write(header[checksumOffset+checksumLen:])
	_, _ = d.Write(payload)
	return d.Sum64()
}

// sealHeader stores the record checksum in the encoded header and returns it.
func sealHeader(header, payload []byte) uint64 {
	sum := recordChecksum(header, payload)
	binary.LittleEndian.PutUint64(header[checksumOffset:], sum)
	return sum
}

// decodeHeader reads a header from r, leaving r positioned at the payload.
func decodeHeader(r io.Reader) (domain.RecordHeader, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return domain.RecordHeader{}, zerr.Wrap(err, "truncated record header")
	}
	if magic != recordMagic {
		return domain.RecordHeader{}, zerr.With(domain.ErrFormatMismatch, "reason", "bad magic")
	}

	var fixed fixedHeader
	if err := binary.Read(r, binary.LittleEndian, &fixed); err != nil {
		return domain.RecordHeader{}, zerr.Wrap(err, "truncated record header")
	}
	if fixed.Version != domain.RecordFormatVersion {
		return domain.RecordHeader{}, zerr.With(domain.ErrFormatMismatch, "version", fixed.Version)
	}
	if fixed.PathLen > maxPathLen {
		return domain.RecordHeader{}, zerr.With(domain.ErrFormatMismatch, "path_len", fixed.PathLen)
	}
	if !validPayloadSize(fixed.UncompressedSize) || !validPayloadSize(fixed.CompressedSize) {
		return domain.RecordHeader{}, zerr.With(zerr.With(domain.ErrCorruptRecord,
			"uncompressed_size", fixed.UncompressedSize), "compressed_size", fixed.CompressedSize)
	}
	switch compression := domain.Compression(fixed.Compression); compression {
	case domain.CompressionNone, domain.CompressionZstd:
	default:
		return domain.RecordHeader{}, zerr.With(domain.ErrFormatMismatch, "compression", compression.String())
	}

	strs := make([]byte, int(fixed.FormatLen)+int(fixed.PathLen))
	if _, err := io.ReadFull(r, strs); err != nil {
		return domain.RecordHeader{}, zerr.Wrap(err, "truncated record header")
	}

	return domain.RecordHeader{
		Key: domain.CacheKey{
			Path:    string(strs[fixed.FormatLen:]),
			Size:    fixed.Size,
			ModTime: fixed.ModTime,
		},
		Format:           string(strs[:fixed.FormatLen]),
		Compression:      domain.Compression(fixed.Compression),
		UncompressedSize: fixed.UncompressedSize,
		CompressedSize:   fixed.CompressedSize,
		Checksum:         fixed.Checksum,
		WrittenAt:        time.Unix(0, fixed.WrittenAt),
	}, nil
}

func validPayloadSize(n int64) bool {
	return n >= 0 && n <= maxPayloadSize
}
