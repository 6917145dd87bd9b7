//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/decorators"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideAlmanacStore,
	ProvideAlmanacRepository,
	wire.Bind(new(ports.AlmanacRepository), new(*decorators.ResilientAlmanacRepository)),
	ProvideManseEngine,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideInMemoryCache,
	ProvideComputeChartHandler,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup
// releases the almanac backend and stops background goroutines.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
