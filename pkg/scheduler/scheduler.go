package scheduler

import (
	"context"
	"time"

	"github.com/casafix/home-services-backend/pkg/api"
)

// Scheduler defines the interface for a component that schedules a deferred
// check on an order. The API enqueues one when an order is created so a
// worker can cancel orders no provider accepted within the window.
type Scheduler interface {
	// ScheduleOrderExpiry enqueues an expiry check for the order after the given delay.
	ScheduleOrderExpiry(ctx context.Context, order *api.Order, delay time.Duration) error
}
