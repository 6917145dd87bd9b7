package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimtaewoo9/mansereok/application/queries"
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/seed"
	mansetest "github.com/kimtaewoo9/mansereok/internal/testutil"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manses.csv.xz")
	sum, err := seed.WriteFile(path, mansetest.Records1987())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.Almanac.SeedFile = path
	cfg.Almanac.SeedChecksum = sum
	return cfg
}

func TestInitializeContainer_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	c, cleanup, err := InitializeContainer(ctx, memoryConfig(t))
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, c.Ready(ctx))
	assert.Equal(t, float64(len(mansetest.Records1987())), testutil.ToFloat64(c.Metrics.AlmanacRecords))
	loadedAt, ok := c.AlmanacLoadedAt()
	require.True(t, ok)
	assert.False(t, loadedAt.IsZero())

	q := queries.ComputeChartQuery{Date: "1987-02-13", Time: "14:30", Gender: "M"}
	first, err := c.QueryBus.Ask(ctx, q)
	require.NoError(t, err)
	chart := first.(*aggregates.SajuChart)
	assert.Equal(t, "癸巳", chart.Day.Code.Glyph())

	q.Gender = "MALE"
	second, err := c.QueryBus.Ask(ctx, q)
	require.NoError(t, err)
	assert.Same(t, chart, second, "equivalent queries share a cache entry")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.ChartsComputed.WithLabelValues("SOLAR", "BACKWARD")))
}

func TestInitializeContainer_CacheDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	cfg.CacheTTL = 0

	c, cleanup, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	q := queries.ComputeChartQuery{Date: "1987-02-13", Gender: "F"}
	first, err := c.QueryBus.Ask(ctx, q)
	require.NoError(t, err)
	second, err := c.QueryBus.Ask(ctx, q)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, c.Cache.Len())
}

func TestInitializeContainer_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"checksum mismatch", func(c *config.Config) { c.Almanac.SeedChecksum = "00" }},
		{"missing seed", func(c *config.Config) { c.Almanac.SeedFile = filepath.Join(t.TempDir(), "none.csv") }},
		{"unknown backend", func(c *config.Config) { c.Almanac.Backend = "redis" }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig(t)
			tt.mutate(cfg)
			_, _, err := InitializeContainer(ctx, cfg)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsConfiguration(err), err.Error())
		})
	}
}
