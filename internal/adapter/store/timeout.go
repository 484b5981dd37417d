package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// wrap annotates err with op. A call cut off by its deadline becomes
// port.ErrUpstreamTimeout.
func wrap(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, port.ErrUpstreamTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
