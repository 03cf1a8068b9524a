// Package retrying wraps an embedding service with a per-call timeout, bounded
// retries with Fibonacci backoff and a client-side rate limit.
package retrying

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBackoff is the first retry delay.
const DefaultBackoff = 500 * time.Millisecond

// Config controls the decorator.
type Config struct {
	// Timeout bounds a single attempt. Zero disables it.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Backoff is the base Fibonacci delay (default: 500ms).
	Backoff time.Duration

	// RequestsPerSecond limits attempts. Zero means unlimited.
	RequestsPerSecond float64
}

// EmbeddingService decorates another embedding service.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	cfg     Config
	limiter *rate.Limiter
}

// Wrap decorates inner according to cfg.
func Wrap(inner driven.EmbeddingService, cfg Config) *EmbeddingService {
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &EmbeddingService{inner: inner, cfg: cfg, limiter: limiter}
}

// Embed embeds one text with retries.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.do(ctx, "embed", func(ctx context.Context) error {
		v, err := s.inner.Embed(ctx, text)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// EmbedBatch embeds texts with retries. A retry repeats the whole batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	var out [][]float32
	err := s.do(ctx, "embed batch", func(ctx context.Context) error {
		v, err := s.inner.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// do runs fn until it succeeds, fails permanently or retries run out.
// Every failure is reported as domain.ErrEmbeddingUnavailable.
func (s *EmbeddingService) do(ctx context.Context, op string, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxRetries), retry.NewFibonacci(s.cfg.Backoff))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		callCtx := ctx
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}

		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if !retryable(ctx, err) {
			return err
		}
		logger.Warn("%s with %s failed (attempt %d of %d): %v",
			op, s.inner.ModelName(), attempt, s.cfg.MaxRetries+1, err)
		return retry.RetryableError(err)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingUnavailable, op, err)
}

// retryable reports whether err may succeed on another attempt.
// Cancellation of the caller's context and shape errors are final.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, domain.ErrShapeMismatch) && !errors.Is(err, domain.ErrInvalidInput)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service once, without retries.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
