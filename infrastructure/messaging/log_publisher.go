package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/events"
)

// LogPublisher writes events to the log instead of a bus. It is used when no
// event bus is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish logs a single event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Event",
		zap.String("eventType", event.GetEventType()),
		zap.String("eventID", event.GetEventID()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

// PublishBatch logs each event
func (p *LogPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, e := range domainEvents {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
