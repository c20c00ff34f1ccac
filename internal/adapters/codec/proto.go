package codec

import (
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/proto"
)

type protoCodec[T proto.Message] struct {
	format string
}

// Proto returns a serializer for protobuf messages.
// The format tag includes the message's full name.
func Proto[T proto.Message](opts ...Option) ports.Serializer {
	var zero T
	name := string(zero.ProtoReflect().Descriptor().FullName())
	return protoCodec[T]{format: formatTag("proto:"+name, newOptions(opts))}
}

func (c protoCodec[T]) Format() string {
	return c.format
}

func (c protoCodec[T]) Marshal(v any) ([]byte, error) {
	msg, ok := v.(T)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnexpectedType, "cannot serialize"), "type", typeName(v))
	}
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, serializeFailed(err, c.format)
	}
	return data, nil
}

func (c protoCodec[T]) Unmarshal(data []byte) (any, error) {
	var zero T
	msg, _ := zero.ProtoReflect().New().Interface().(T)
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, deserializeFailed(err, c.format)
	}
	return msg, nil
}
