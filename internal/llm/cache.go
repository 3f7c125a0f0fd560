package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

const (
	defaultCachePrefix = "cityvoice:llm:"
	defaultCacheTTL    = 24 * time.Hour
)

// CacheOptions configures the response cache.
type CacheOptions struct {
	TTL    time.Duration
	Prefix string
	// Accept filters responses before they are stored. Nil stores all.
	Accept AcceptFunc
	Logger infralogger.Logger
}

// Cache stores remote responses in Redis keyed by model, aspect and prompt.
// Offline responses are never stored. Redis errors degrade to a direct call.
type Cache struct {
	next   Completer
	client *redis.Client
	opts   CacheOptions
}

type cachedResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// WithCache wraps next with a Redis cache. A nil client disables caching.
func WithCache(next Completer, client *redis.Client, opts CacheOptions) Completer {
	if client == nil {
		return next
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultCacheTTL
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultCachePrefix
	}
	if opts.Logger == nil {
		opts.Logger = infralogger.NewNop()
	}
	return &Cache{next: next, client: client, opts: opts}
}

// Name returns the wrapped completer name.
func (c *Cache) Name() string { return c.next.Name() }

// Complete serves from cache when possible.
func (c *Cache) Complete(ctx context.Context, req Request) (*Response, error) {
	key := c.key(req)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedResponse
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &Response{Text: cached.Text, Model: cached.Model}, nil
		}
	case !errors.Is(err, redis.Nil):
		c.opts.Logger.Warn("LLM cache read failed",
			infralogger.Aspect(string(req.Aspect)),
			infralogger.Error(err),
		)
	}

	resp, err := c.next.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Offline || (c.opts.Accept != nil && !c.opts.Accept(req, resp)) {
		return resp, nil
	}

	payload, err := json.Marshal(cachedResponse{Text: resp.Text, Model: resp.Model})
	if err == nil {
		if setErr := c.client.Set(ctx, key, payload, c.opts.TTL).Err(); setErr != nil {
			c.opts.Logger.Warn("LLM cache write failed",
				infralogger.Aspect(string(req.Aspect)),
				infralogger.Error(setErr),
			)
		}
	}
	return resp, nil
}

func (c *Cache) key(req Request) string {
	h := sha256.New()
	for _, part := range []string{c.next.Name(), string(req.Aspect), req.System, req.Prompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return c.opts.Prefix + hex.EncodeToString(h.Sum(nil))
}
