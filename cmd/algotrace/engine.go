package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/internal/config"
	"github.com/aretw0/algotrace/pkg/adapters/file"
	"github.com/aretw0/algotrace/pkg/adapters/memory"
	"github.com/aretw0/algotrace/pkg/adapters/redis"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/permalink"
	"github.com/aretw0/algotrace/pkg/ports"
)

const redisPingTimeout = 2 * time.Second

// newEngine builds the engine with the configured run cache. An unreachable
// Redis falls back to memory. The returned func releases it.
func newEngine(ctx context.Context, cfg config.Config, opts ...algotrace.Option) (*algotrace.Engine, func()) {
	cache, closeCache := newCache(ctx, cfg.Cache)
	engineOpts := []algotrace.Option{
		algotrace.WithLogger(logger),
		algotrace.WithCache(cache),
		algotrace.WithCacheTTL(time.Duration(cfg.Cache.TTL)),
	}
	return algotrace.New(append(engineOpts, opts...)...), closeCache
}

func newCache(ctx context.Context, cfg config.CacheConfig) (ports.RunCache, func()) {
	if cfg.RedisAddr == "" {
		if cfg.Dir != "" {
			logger.Debug("Run cache on disk", "dir", cfg.Dir)
			return file.NewCache(cfg.Dir), func() {}
		}
		return memory.NewCache(), func() {}
	}

	rc := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithPrefix(cfg.Prefix))
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		_ = rc.Close()
		return memory.NewCache(), func() {}
	}
	logger.Info("Run cache connected", "backend", "redis", "addr", cfg.RedisAddr)
	return rc, func() { _ = rc.Close() }
}

// inputFlags is the shared way commands take an algorithm input.
type inputFlags struct {
	input     string
	permalink string
	random    int
	seed      uint64
}

// resolve picks the algorithm and input from args and flags. A permalink
// overrides both; --random replaces the sequence field of the input.
func (f inputFlags) resolve(args []string) (algorithms.Definition, domain.Input, error) {
	var id string
	var in domain.Input

	if f.permalink != "" {
		p, err := permalink.Decode(permalinkState(f.permalink))
		if err != nil {
			return algorithms.Definition{}, domain.Input{}, err
		}
		id, in = p.AlgorithmID, p.Input
	} else {
		if len(args) == 0 {
			return algorithms.Definition{}, domain.Input{}, fmt.Errorf("%w: algorithm ID required (see 'algotrace list')", domain.ErrInvalidInput)
		}
		id = args[0]
		parsed, err := parseInputJSON(f.input)
		if err != nil {
			return algorithms.Definition{}, domain.Input{}, err
		}
		in = parsed
	}

	def, ok := algorithms.Lookup(id)
	if !ok {
		return algorithms.Definition{}, domain.Input{}, fmt.Errorf("%w: %q", domain.ErrAlgorithmNotFound, id)
	}
	if f.random > 0 {
		seed := f.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, seed))
		random := algorithms.RandomInput(rng, def.InputKind, f.random, 99)
		in = random.WithDefaults(in)
	}
	return def, in, nil
}

// permalinkState accepts either the bare blob or a URL carrying it.
func permalinkState(s string) string {
	if !strings.Contains(s, permalink.QueryParam+"=") {
		return s
	}
	if u, err := url.Parse(s); err == nil {
		if state := u.Query().Get(permalink.QueryParam); state != "" {
			return state
		}
	}
	return s
}

// parseInputJSON decodes a JSON object into an Input, rejecting unknown fields.
func parseInputJSON(s string) (domain.Input, error) {
	if strings.TrimSpace(s) == "" {
		return domain.Input{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return domain.Input{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return domain.DecodeInput(raw)
}
