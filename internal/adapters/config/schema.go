package config

import (
	"time"

	"github.com/dustin/go-humanize"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Configfile represents the structure of the modelcache.yaml configuration file.
type Configfile struct {
	CacheDir         string      `yaml:"cache_dir"`
	MemoryBudget     *ByteSize   `yaml:"memory_budget"`
	CompressionLevel string      `yaml:"compression_level"`
	LoadTimeout      Duration    `yaml:"load_timeout"`
	Cleanup          *CleanupDTO `yaml:"cleanup"`
}

// CleanupDTO represents the cleanup section of the configuration.
type CleanupDTO struct {
	MaxAge        Duration `yaml:"max_age"`
	MaxTotalBytes ByteSize `yaml:"max_total_bytes"`
	Interval      Duration `yaml:"interval"`
}

// ByteSize is a byte count written either as an integer or a human-readable size such as "512MiB".
type ByteSize int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*b = ByteSize(n)
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return zerr.With(zerr.Wrap(err, "invalid byte size"), "line", node.Line)
	}
	parsed, err := humanize.ParseBytes(s)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "invalid byte size"), "value", s), "line", node.Line)
	}
	*b = ByteSize(parsed) //nolint:gosec // Sizes beyond int64 are not meaningful
	return nil
}

// Duration is a time.Duration written as a Go duration string such as "30s" or "168h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return zerr.With(zerr.Wrap(err, "invalid duration"), "line", node.Line)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "invalid duration"), "value", s), "line", node.Line)
	}
	*d = Duration(parsed)
	return nil
}
