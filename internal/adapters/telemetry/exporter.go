package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/modelcache/internal/core/ports"
)

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// LogExporter writes finished spans to the logger at debug level.
type LogExporter struct {
	logger ports.Logger
}

// NewLogExporter creates an exporter that reports spans through logger.
func NewLogExporter(logger ports.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		args := make([]any, 0, 4+2*len(span.Attributes()))
		args = append(args,
			"duration", span.EndTime().Sub(span.StartTime()).String(),
			"status", span.Status().Code.String(),
		)
		for _, attr := range span.Attributes() {
			args = append(args, string(attr.Key), attr.Value.Emit())
		}
		e.logger.Debug("span "+span.Name(), args...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

// NewLoggingProvider returns a tracer provider that exports spans synchronously to logger.
// Callers must Shutdown the provider when done.
func NewLoggingProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewLogExporter(logger)),
	)
}
