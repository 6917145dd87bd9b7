package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	"github.com/kimtaewoo9/mansereok/internal/testutil"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

func newFixtureStore() *AlmanacStore {
	return NewAlmanacStore(testutil.Records1987())
}

func TestAlmanacStore_FindBySolarDate(t *testing.T) {
	// Arrange
	store := newFixtureStore()
	ctx := context.Background()

	// Act
	r, err := store.FindBySolarDate(ctx, time.Date(1987, 2, 13, 14, 30, 0, 0, time.UTC))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "癸巳", r.Day.Glyph())
	assert.Equal(t, "丁卯", r.Year.Glyph())
	assert.Equal(t, "壬寅", r.Month.Glyph())
	assert.Equal(t, vo.LunarDate{Year: 1987, Month: 1, Day: 16}, r.LunarDate)

	_, err = store.FindBySolarDate(ctx, testutil.Date(1990, 1, 1))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAlmanacStore_FindByLunarDate(t *testing.T) {
	store := newFixtureStore()

	r, err := store.FindByLunarDate(context.Background(), vo.LunarDate{Year: 1987, Month: 1, Day: 16})
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(1987, 2, 13), r.SolarDate)

	_, err = store.FindByLunarDate(context.Background(), vo.LunarDate{Year: 1987, Month: 9, Day: 1})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAlmanacStore_FindByLunarDate_PrefersRegularMonth(t *testing.T) {
	lunar := vo.LunarDate{Year: 1987, Month: 6, Day: 1}
	regular := &entities.AlmanacRecord{SolarDate: testutil.Date(1987, 6, 26), LunarDate: lunar}
	leap := &entities.AlmanacRecord{SolarDate: testutil.Date(1987, 7, 26), LunarDate: lunar, LeapMonth: true}

	for _, order := range [][]*entities.AlmanacRecord{{regular, leap}, {leap, regular}} {
		store := NewAlmanacStore(order)
		r, err := store.FindByLunarDate(context.Background(), lunar)
		require.NoError(t, err)
		assert.False(t, r.LeapMonth)
		assert.Equal(t, regular.SolarDate, r.SolarDate)
	}
}

func TestAlmanacStore_CutoverQueries(t *testing.T) {
	store := newFixtureStore()
	ctx := context.Background()
	lichun := time.Date(1987, 2, 4, 18, 52, 0, 0, time.UTC)

	tests := []struct {
		name    string
		instant time.Time
		forward bool
		want    time.Time
	}{
		{"forward from mid month", time.Date(1987, 2, 13, 14, 30, 0, 0, time.UTC), true, time.Date(1987, 3, 6, 12, 54, 0, 0, time.UTC)},
		{"backward from mid month", time.Date(1987, 2, 13, 14, 30, 0, 0, time.UTC), false, lichun},
		{"forward at the cutover", lichun, true, lichun},
		{"backward at the cutover", lichun, false, lichun},
		{"forward a minute before", lichun.Add(-time.Minute), true, lichun},
		{"backward a minute before", lichun.Add(-time.Minute), false, time.Date(1987, 1, 6, 6, 13, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				r   *entities.AlmanacRecord
				err error
			)
			if tt.forward {
				r, err = store.FindEarliestCutoverAtOrAfter(ctx, tt.instant)
			} else {
				r, err = store.FindLatestCutoverAtOrBefore(ctx, tt.instant)
			}
			require.NoError(t, err)
			require.NotNil(t, r.CutoverAt)
			assert.Equal(t, tt.want, *r.CutoverAt)
		})
	}
}

func TestAlmanacStore_CutoverQueries_OutOfRange(t *testing.T) {
	store := newFixtureStore()
	ctx := context.Background()

	_, err := store.FindLatestCutoverAtOrBefore(ctx, time.Date(1986, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = store.FindEarliestCutoverAtOrAfter(ctx, time.Date(1987, 5, 7, 0, 0, 0, 0, time.UTC))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAlmanacStore_SaveBatchAndReplace(t *testing.T) {
	store := NewAlmanacStore(nil)
	ctx := context.Background()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.SaveBatch(ctx, testutil.Records1987()[:10]))
	require.NoError(t, store.SaveBatch(ctx, testutil.Records1987()[5:20]))
	n, _ = store.Count(ctx)
	assert.Equal(t, 20, n)

	first, last, ok := store.Range()
	require.True(t, ok)
	assert.Equal(t, testutil.Start, first)
	assert.Equal(t, testutil.Start.AddDate(0, 0, 19), last)

	before := store.LoadedAt()
	store.Replace(testutil.Records1987()[:3])
	n, _ = store.Count(ctx)
	assert.Equal(t, 3, n)
	assert.False(t, store.LoadedAt().Before(before), "Replace stamps a new load time")
}

func TestAlmanacStore_CancelledContext(t *testing.T) {
	store := newFixtureStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindBySolarDate(ctx, testutil.Date(1987, 2, 13))
	assert.ErrorIs(t, err, context.Canceled)
}
