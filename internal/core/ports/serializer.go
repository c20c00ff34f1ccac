package ports

import "context"

// Serializer converts cached objects to and from bytes for the disk tier.
//
//go:generate mockgen -source=serializer.go -destination=mocks/mock_serializer.go -package=mocks
type Serializer interface {
	// Format returns a tag naming the encoding and its version, e.g. "json/1".
	// Records written under a different tag are treated as corrupt.
	Format() string
	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into a new object.
	Unmarshal(data []byte) (any, error)
}

// Loader is the expensive source parser the cache sits in front of.
// Its error is returned verbatim to every caller waiting on the same key.
type Loader func(ctx context.Context, path string) (any, error)

// Sizer is implemented by objects that know their approximate in-memory size.
type Sizer interface {
	ApproxSize() int64
}
