package codec

import (
	"encoding/json"

	"go.trai.ch/modelcache/internal/core/ports"
)

type jsonCodec[T any] struct {
	format string
}

// JSON returns a serializer that stores T as JSON.
func JSON[T any](opts ...Option) ports.Serializer {
	return jsonCodec[T]{format: formatTag("json", newOptions(opts))}
}

func (c jsonCodec[T]) Format() string {
	return c.format
}

func (c jsonCodec[T]) Marshal(v any) ([]byte, error) {
	typed, err := assertType[T](v)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(typed)
	if err != nil {
		return nil, serializeFailed(err, c.format)
	}
	return data, nil
}

func (c jsonCodec[T]) Unmarshal(data []byte) (any, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, deserializeFailed(err, c.format)
	}
	return out, nil
}
