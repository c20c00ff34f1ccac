package modelcache

import (
	"reflect"

	"go.trai.ch/modelcache/internal/core/domain"
)

var (
	// ErrSourceNotFound is returned when the source file is missing or unreadable.
	ErrSourceNotFound = domain.ErrSourceNotFound
	// ErrSourceIsDirectory is returned when the source path is a directory.
	ErrSourceIsDirectory = domain.ErrSourceIsDirectory
	// ErrUnexpectedType is returned when a cached object is not of the cache's type.
	ErrUnexpectedType = domain.ErrUnexpectedType
	// ErrInvalidConfig is returned by Open for out-of-range configuration.
	ErrInvalidConfig = domain.ErrInvalidConfig
	// ErrCacheDirCreateFailed is returned by Open when the cache directory cannot be created.
	ErrCacheDirCreateFailed = domain.ErrCacheDirCreateFailed
	// ErrCacheClosed is returned by operations on a closed cache.
	ErrCacheClosed = domain.ErrCacheClosed
)

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
