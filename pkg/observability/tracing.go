package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every algotrace span.
const TracerName = "github.com/aretw0/algotrace"

// Tracer returns the algotrace tracer from tp, or from the global provider
// when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(TracerName)
}

// NewLogTracerProvider returns a provider that writes every finished span to
// logger at debug level. Callers must Shutdown it.
func NewLogTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}))
}

type logSpanProcessor struct {
	logger *slog.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", span.Name(),
		"trace_id", span.SpanContext().TraceID().String(),
		"duration", span.EndTime().Sub(span.StartTime()),
	}
	for _, kv := range span.Attributes() {
		attrs = append(attrs, string(kv.Key), kv.Value.Emit())
	}
	if status := span.Status(); status.Description != "" {
		attrs = append(attrs, "status", status.Description)
	}
	p.logger.Debug("span finished", attrs...)
}

func (p *logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }
