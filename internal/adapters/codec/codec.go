// Package codec provides serializers for objects kept in the disk tier.
//
// Every serializer reports a format tag made of its encoding name and a
// caller-supplied schema version. Records written under another tag are
// treated as corrupt and reloaded, so bumping the version after changing
// the cached type invalidates old records without touching the disk.
package codec

import (
	"errors"
	"reflect"
	"strconv"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Option configures a serializer.
type Option func(*options)

type options struct {
	version int
}

// WithVersion sets the schema version embedded in the format tag. The default is 1.
func WithVersion(v int) Option {
	return func(o *options) {
		o.version = v
	}
}

func newOptions(opts []Option) options {
	o := options{version: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func formatTag(name string, o options) string {
	return name + "/" + strconv.Itoa(o.version)
}

// assertType converts v to T, accepting both T and *T.
func assertType[T any](v any) (T, error) {
	switch typed := v.(type) {
	case T:
		return typed, nil
	case *T:
		if typed != nil {
			return *typed, nil
		}
	}
	var zero T
	return zero, zerr.With(zerr.Wrap(domain.ErrUnexpectedType, "cannot serialize"), "type", typeName(v))
}

func serializeFailed(err error, format string) error {
	return zerr.With(errors.Join(domain.ErrSerializeFailed, err), "format", format)
}

func deserializeFailed(err error, format string) error {
	return zerr.With(errors.Join(domain.ErrDeserializeFailed, err), "format", format)
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
