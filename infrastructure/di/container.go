package di

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/application/ports"
	querybus "github.com/kimtaewoo9/mansereok/application/queries/bus"
	"github.com/kimtaewoo9/mansereok/application/services"
	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/observability"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/decorators"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
	pkgobs "github.com/kimtaewoo9/mansereok/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     ports.AlmanacStore
	Almanac   *decorators.ResilientAlmanacRepository
	Engine    *services.ManseEngine
	Publisher ports.EventPublisher
	Cache     *InMemoryCache
	Metrics   *observability.Collector
	Tracer    *pkgobs.Tracer
	QueryBus  *querybus.QueryBus
}

type pinger interface {
	Ping(ctx context.Context) error
}

type loadStamped interface {
	LoadedAt() time.Time
}

// AlmanacLoadedAt reports when an in-memory almanac installed its data. Stores
// backed by a database have no load time.
func (c *Container) AlmanacLoadedAt() (time.Time, bool) {
	if l, ok := c.Store.(loadStamped); ok {
		return l.LoadedAt(), true
	}
	return time.Time{}, false
}

// Ready reports whether the almanac can serve lookups.
func (c *Container) Ready(ctx context.Context) error {
	if c.Almanac.State() == gobreaker.StateOpen {
		return pkgerrors.NewUnavailableError("almanac")
	}
	if p, ok := c.Store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return pkgerrors.NewUnavailableError("almanac").WithCause(err)
		}
	}
	return nil
}
