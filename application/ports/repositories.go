package ports

import (
	"context"
	"time"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	"github.com/kimtaewoo9/mansereok/domain/events"
)

// AlmanacRepository is the read side of the perpetual calendar. Every method
// returns a DATA_NOT_FOUND error when no record matches; callers must not
// retry on it.
type AlmanacRepository interface {
	// FindBySolarDate returns the record of a Gregorian civil date.
	FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error)

	// FindByLunarDate returns the record of a lunar date. When a leap month
	// and its regular month share the date, the regular month wins.
	FindByLunarDate(ctx context.Context, date vo.LunarDate) (*entities.AlmanacRecord, error)

	// FindEarliestCutoverAtOrAfter returns the first cutover day whose
	// instant is >= instant.
	FindEarliestCutoverAtOrAfter(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error)

	// FindLatestCutoverAtOrBefore returns the last cutover day whose instant
	// is <= instant.
	FindLatestCutoverAtOrBefore(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error)
}

// AlmanacWriter loads reference data into a store. It is used by the import
// tooling only; the chart engine never writes.
type AlmanacWriter interface {
	// SaveBatch upserts records keyed by solar date.
	SaveBatch(ctx context.Context, records []*entities.AlmanacRecord) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// AlmanacStore is a store that can be both read and loaded.
type AlmanacStore interface {
	AlmanacRepository
	AlmanacWriter
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
