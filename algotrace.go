package algotrace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/algotrace/internal/logging"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/aretw0/algotrace/pkg/ports"
)

// DefaultCacheTTL is how long cached runs live when a cache is configured.
const DefaultCacheTTL = time.Hour

// Engine is the high-level entry point for the algotrace library.
// It produces runs from the catalog, optionally through a cache, and hands
// them to players.
type Engine struct {
	cache    ports.RunCache
	cacheTTL time.Duration
	metrics  *observability.Collector
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCache stores produced runs in c and serves later builds from it.
func WithCache(c ports.RunCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithCacheTTL overrides DefaultCacheTTL. Zero keeps entries forever.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl >= 0 {
			e.cacheTTL = ttl
		}
	}
}

// WithMetrics records builds and cache lookups on c.
func WithMetrics(c *observability.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// WithTracerProvider sets the provider for build spans (default: global).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = observability.Tracer(tp)
	}
}

// New creates an Engine. Without options it builds every run from scratch
// and logs nothing.
func New(opts ...Option) *Engine {
	e := &Engine{
		cacheTTL: DefaultCacheTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = observability.Tracer(nil)
	}
	return e
}

// Algorithms returns the catalog in display order.
func (e *Engine) Algorithms() []algorithms.Definition {
	return algorithms.All()
}

// Build produces the run of algorithmID over in.
// Unknown IDs return domain.ErrAlgorithmNotFound. Cache failures are logged
// and never fail the build.
func (e *Engine) Build(ctx context.Context, algorithmID string, in domain.Input) (*domain.Run, error) {
	ctx, span := e.tracer.Start(ctx, "algotrace.build",
		trace.WithAttributes(attribute.String("algotrace.algorithm", algorithmID)))
	defer span.End()

	def, ok := algorithms.Lookup(algorithmID)
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAlgorithmNotFound, algorithmID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown algorithm")
		return nil, err
	}

	key, err := CacheKey(algorithmID, in.WithDefaults(def.Defaults))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	if run, hit := e.lookup(ctx, key); hit {
		span.SetAttributes(
			attribute.Bool("algotrace.cache_hit", true),
			attribute.Int("algotrace.steps", run.Len()),
		)
		return run, nil
	}

	run := def.Produce(in)
	e.metrics.RunBuilt(algorithmID, run.Len())
	e.logger.Debug("Run built", "algorithm", algorithmID, "steps", run.Len())
	span.SetAttributes(
		attribute.Bool("algotrace.cache_hit", false),
		attribute.Int("algotrace.steps", run.Len()),
	)

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, run, e.cacheTTL); err != nil {
			e.logger.Warn("Failed to store run", "algorithm", algorithmID, "error", err)
		}
	}
	return run, nil
}

func (e *Engine) lookup(ctx context.Context, key string) (*domain.Run, bool) {
	if e.cache == nil {
		return nil, false
	}
	run, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		e.metrics.CacheLookup(observability.CacheHit)
		return run, true
	case errors.Is(err, domain.ErrRunNotFound):
		e.metrics.CacheLookup(observability.CacheMiss)
	default:
		e.metrics.CacheLookup(observability.CacheError)
		e.logger.Warn("Run cache lookup failed", "key", key, "error", err)
	}
	return nil, false
}

// NewPlayer builds the run of algorithmID and loads it into a new player.
// The engine logger is passed down unless opts override it.
func (e *Engine) NewPlayer(ctx context.Context, algorithmID string, in domain.Input, hooks *playback.Hooks, opts ...playback.Option) (*playback.Player, error) {
	run, err := e.Build(ctx, algorithmID, in)
	if err != nil {
		return nil, err
	}
	p := playback.New(append([]playback.Option{playback.WithLogger(e.logger)}, opts...)...)
	p.Load(run, hooks)
	return p, nil
}

// CacheKey derives the cache key of a build: the algorithm ID plus the
// SHA-256 of the input's JSON form. Build resolves defaults first, so a nil
// field and an explicitly empty one never share a key.
func CacheKey(algorithmID string, in domain.Input) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	sum := sha256.Sum256(raw)
	return algorithmID + ":" + hex.EncodeToString(sum[:]), nil
}
