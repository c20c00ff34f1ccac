// Package app implements the administrative operations behind the modelcache CLI.
package app

import (
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.trai.ch/modelcache/internal/adapters/detector"
	"go.trai.ch/modelcache/internal/adapters/telemetry"
	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
	"go.trai.ch/modelcache/internal/engine/janitor"
	"go.trai.ch/zerr"
)

// Options holds the settings shared by every command.
type Options struct {
	ConfigPath string
	LogFormat  string
	Verbose    bool
	Trace      bool
}

// CleanOptions overrides the configured retention thresholds for one cleanup.
// Nil fields fall back to the configuration file.
type CleanOptions struct {
	MaxAge   *time.Duration
	MaxBytes *int64
}

// configurableLogger is implemented by the slog adapter.
type configurableLogger interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	stores       ports.DiskStoreFactory
	deriver      ports.KeyDeriver
	tracer       ports.Tracer
	out          io.Writer
	now          func() time.Time
	opts         Options
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	stores ports.DiskStoreFactory,
	deriver ports.KeyDeriver,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		stores:       stores,
		deriver:      deriver,
		tracer:       tracer,
		out:          os.Stdout,
		now:          time.Now,
	}
}

// WithOutput redirects command reports. Logs keep going to the logger.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Configure applies the global flags. It must run before any command.
func (a *App) Configure(opts Options) {
	a.opts = opts

	if l, ok := a.logger.(configurableLogger); ok {
		format := detector.ResolveFormat(detector.DetectEnvironment(), opts.LogFormat)
		l.SetJSON(format == detector.FormatJSON)
		l.SetVerbose(opts.Verbose || opts.Trace)
	}

	if opts.Trace {
		// The tracer node resolves through the global provider, so spans
		// started after this point are exported to the debug log.
		otel.SetTracerProvider(telemetry.NewLoggingProvider(a.logger))
	}
}

// Stats prints a summary of the disk tier.
func (a *App) Stats(ctx context.Context) error {
	cfg, jan, err := a.open()
	if err != nil {
		return err
	}

	usage, err := jan.Usage(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to scan cache directory")
	}

	newReport(a.out).usage(cfg, usage, a.now())
	return nil
}

// Clean removes disk records selected by the configured retention policy,
// optionally overridden by opts.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	cfg, jan, err := a.open()
	if err != nil {
		return err
	}

	policy := cfg.CleanupPolicy()
	if opts.MaxAge != nil {
		policy.MaxAge = *opts.MaxAge
	}
	if opts.MaxBytes != nil {
		policy.MaxTotalBytes = opts.MaxBytes
	}
	if policy.MaxAge == 0 && policy.MaxTotalBytes == nil {
		a.logger.Warn("no retention threshold configured; only unreadable records and stale temp files are removed")
	}

	report, err := jan.Cleanup(ctx, policy)
	if err != nil {
		return zerr.Wrap(err, "cleanup failed")
	}

	newReport(a.out).cleanup("Cleaned", report)
	return nil
}

// Purge removes every record from the disk tier.
func (a *App) Purge(ctx context.Context) error {
	_, jan, err := a.open()
	if err != nil {
		return err
	}

	report, err := jan.Purge(ctx)
	if err != nil {
		return zerr.Wrap(err, "purge failed")
	}

	newReport(a.out).cleanup("Purged", report)
	return nil
}

// Inspect prints the key of the source file at path and the state of its disk record.
func (a *App) Inspect(ctx context.Context, path string) error {
	_, span := a.tracer.Start(ctx, "modelcache.inspect", ports.WithAttribute("cache.path", path))
	defer span.End()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	store, err := a.stores.Open(cfg.CacheDir, cfg.CompressionLevel)
	if err != nil {
		return err
	}

	key, err := a.deriver.Derive(path)
	if err != nil {
		span.RecordError(err)
		return err
	}

	res := store.Read(key)
	span.SetAttribute("cache.status", res.Status.String())
	newReport(a.out).record(store.Dir(), key, res, a.now())
	return nil
}

func (a *App) loadConfig() (domain.Config, error) {
	cfg, err := a.configLoader.Load(a.opts.ConfigPath)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func (a *App) open() (domain.Config, *janitor.Janitor, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return domain.Config{}, nil, err
	}

	store, err := a.stores.Open(cfg.CacheDir, cfg.CompressionLevel)
	if err != nil {
		return domain.Config{}, nil, err
	}

	a.logger.Debug("opened cache", "dir", store.Dir())
	return cfg, janitor.New(store, a.logger, a.tracer), nil
}
