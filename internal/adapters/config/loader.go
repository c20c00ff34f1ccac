// Package config provides the configuration loader for modelcache.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at path and applies it over the defaults.
//
// An empty path falls back to the MODELCACHE_CONFIG environment variable and
// then to modelcache.yaml in the working directory. Only an explicitly named
// file is required to exist.
func (l *Loader) Load(path string) (domain.Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(domain.ConfigEnvVar)
	}
	if path == "" {
		path = domain.ConfigFileName
		explicit = false
	}

	cfg := domain.DefaultConfig()

	var file Configfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			l.Logger.Debug("no config file found, using defaults", "path", path)
			return cfg, nil
		}
		return domain.Config{}, err
	}

	if err := apply(&cfg, &file, filepath.Dir(path)); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	l.Logger.Debug("config loaded", "path", path, "cache_dir", cfg.CacheDir)
	return cfg, nil
}

func apply(cfg *domain.Config, file *Configfile, baseDir string) error {
	if file.CacheDir != "" {
		dir, err := expandDir(file.CacheDir, baseDir)
		if err != nil {
			return err
		}
		cfg.CacheDir = dir
	}
	if file.MemoryBudget != nil {
		cfg.MemoryBudget = int64(*file.MemoryBudget)
	}
	if file.CompressionLevel != "" {
		cfg.CompressionLevel = domain.CompressionLevel(strings.ToLower(file.CompressionLevel))
	}
	cfg.LoadTimeout = time.Duration(file.LoadTimeout)

	if file.Cleanup != nil {
		cfg.Cleanup = domain.CleanupConfig{
			MaxAge:        time.Duration(file.Cleanup.MaxAge),
			MaxTotalBytes: int64(file.Cleanup.MaxTotalBytes),
			Interval:      time.Duration(file.Cleanup.Interval),
		}
	}
	return nil
}

// expandDir resolves "~" and paths relative to the config file's directory.
func expandDir(dir, baseDir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve home directory")
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve cache directory")
	}
	return abs, nil
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the operator
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, parseErr), "path", configPath)
	}

	return nil
}
