package modelcache

import (
	"go.trai.ch/modelcache/internal/adapters/codec"
	"google.golang.org/protobuf/proto"
)

// CodecOption configures a serializer.
type CodecOption = codec.Option

// WithSchemaVersion sets the schema version recorded with every object.
// Bump it after changing the cached type so old records are reloaded.
func WithSchemaVersion(v int) CodecOption {
	return codec.WithVersion(v)
}

// JSON stores T as JSON.
func JSON[T any](opts ...CodecOption) Serializer {
	return codec.JSON[T](opts...)
}

// YAML stores T as YAML.
func YAML[T any](opts ...CodecOption) Serializer {
	return codec.YAML[T](opts...)
}

// Proto stores protobuf messages in their binary wire format.
func Proto[T proto.Message](opts ...CodecOption) Serializer {
	return codec.Proto[T](opts...)
}
