package command

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// publishActivity ships an event; failures are logged and never reach the caller
func publishActivity(ctx context.Context, publisher domain.ActivityPublisher, event domain.ActivityEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to publish activity event")
	}
}
