// Package alert delivers alert events to an outbound transport. Delivery is
// best-effort: failures are returned to the caller for logging and never
// affect the tick that produced the alert.
package alert

import (
	"context"

	"github.com/pulsemon/pulsemon/internal/model"
)

// Dispatcher accepts one alert event and attempts to deliver it.
type Dispatcher interface {
	Send(ctx context.Context, event model.AlertEvent) error
}

// NopDispatcher discards alerts. Used when no transport credentials are
// configured; every alert still reaches the process log via the scheduler.
type NopDispatcher struct{}

func (NopDispatcher) Send(context.Context, model.AlertEvent) error { return nil }
