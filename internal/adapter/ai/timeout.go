package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// TimeoutProvider bounds every call to the wrapped provider. A call that
// runs past its deadline fails with port.ErrUpstreamTimeout.
type TimeoutProvider struct {
	next            port.AIProvider
	embedTimeout    time.Duration
	generateTimeout time.Duration
}

// WithTimeouts wraps p. A zero duration leaves that call unbounded.
func WithTimeouts(p port.AIProvider, embedTimeout, generateTimeout time.Duration) *TimeoutProvider {
	return &TimeoutProvider{next: p, embedTimeout: embedTimeout, generateTimeout: generateTimeout}
}

// ModelName returns the wrapped provider's model.
func (t *TimeoutProvider) ModelName() string {
	return t.next.ModelName()
}

// Embed calls the wrapped Embed under the embed deadline.
func (t *TimeoutProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := bound(ctx, t.embedTimeout)
	defer cancel()

	v, err := t.next.Embed(ctx, text)
	if err != nil {
		return nil, asTimeout(ctx, "embed", err)
	}
	return v, nil
}

// EmbedDocument calls the wrapped EmbedDocument under the embed deadline.
func (t *TimeoutProvider) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := bound(ctx, t.embedTimeout)
	defer cancel()

	v, err := t.next.EmbedDocument(ctx, text)
	if err != nil {
		return nil, asTimeout(ctx, "embed document", err)
	}
	return v, nil
}

// Generate calls the wrapped Generate under the generation deadline.
func (t *TimeoutProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := bound(ctx, t.generateTimeout)
	defer cancel()

	out, err := t.next.Generate(ctx, prompt)
	if err != nil {
		return "", asTimeout(ctx, "generate", err)
	}
	return out, nil
}

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func asTimeout(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, port.ErrUpstreamTimeout)
	}
	return err
}
