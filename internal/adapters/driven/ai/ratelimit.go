package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// DefaultRateLimitBackoff is the pause after a provider reports a rate limit.
const DefaultRateLimitBackoff = 10 * time.Second

// Ensure the wrappers implement the interfaces.
var (
	_ driven.LLMService       = (*rateLimitedLLM)(nil)
	_ driven.EmbeddingService = (*rateLimitedEmbedding)(nil)
)

// RateLimiter throttles provider calls with a token bucket and pauses all
// callers after a provider reports a rate limit. A nil limiter never waits.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
}

// NewRateLimiter creates a limiter from settings.
// Returns nil when RequestsPerSecond is zero or negative.
func NewRateLimiter(cfg domain.RateLimitSettings) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		backoff: DefaultRateLimitBackoff,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError pauses callers for d, or the default backoff when d
// is not positive.
func (r *RateLimiter) RecordRateLimitError(d time.Duration) {
	if r == nil {
		return
	}
	if d <= 0 {
		d = r.backoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// observe records a backoff when err is a provider rate limit.
func (r *RateLimiter) observe(err error) {
	if err != nil && errors.Is(err, domain.ErrRateLimited) {
		r.RecordRateLimitError(0)
	}
}

type rateLimitedLLM struct {
	driven.LLMService
	limiter *RateLimiter
}

// WrapLLM throttles Chat calls through limiter. A nil limiter returns svc unchanged.
func WrapLLM(svc driven.LLMService, limiter *RateLimiter) driven.LLMService {
	if svc == nil || limiter == nil {
		return svc
	}
	return &rateLimitedLLM{LLMService: svc, limiter: limiter}
}

func (l *rateLimitedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := l.LLMService.Chat(ctx, messages, opts)
	l.limiter.observe(err)
	return out, err
}

type rateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *RateLimiter
}

// WrapEmbedding throttles embedding calls through limiter. A nil limiter
// returns svc unchanged.
func WrapEmbedding(svc driven.EmbeddingService, limiter *RateLimiter) driven.EmbeddingService {
	if svc == nil || limiter == nil {
		return svc
	}
	return &rateLimitedEmbedding{EmbeddingService: svc, limiter: limiter}
}

func (e *rateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := e.EmbeddingService.Embed(ctx, text)
	e.limiter.observe(err)
	return out, err
}

func (e *rateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := e.EmbeddingService.EmbedBatch(ctx, texts)
	e.limiter.observe(err)
	return out, err
}
