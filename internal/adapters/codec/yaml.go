package codec

import (
	"go.trai.ch/modelcache/internal/core/ports"
	"gopkg.in/yaml.v3"
)

type yamlCodec[T any] struct {
	format string
}

// YAML returns a serializer that stores T as YAML.
func YAML[T any](opts ...Option) ports.Serializer {
	return yamlCodec[T]{format: formatTag("yaml", newOptions(opts))}
}

func (c yamlCodec[T]) Format() string {
	return c.format
}

func (c yamlCodec[T]) Marshal(v any) ([]byte, error) {
	typed, err := assertType[T](v)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(typed)
	if err != nil {
		return nil, serializeFailed(err, c.format)
	}
	return data, nil
}

func (c yamlCodec[T]) Unmarshal(data []byte) (any, error) {
	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, deserializeFailed(err, c.format)
	}
	return out, nil
}
