package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// AlmanacStore keeps the whole perpetual calendar in memory. Records are
// indexed by solar date, by lunar date and by cutover instant; the indexes are
// rebuilt on every write and swapped under a lock, so readers always see a
// consistent snapshot.
type AlmanacStore struct {
	mu       sync.RWMutex
	index    *almanacIndex
	loadedAt time.Time
}

type almanacIndex struct {
	bySolar  []*entities.AlmanacRecord // sorted by SolarDate
	byLunar  map[vo.LunarDate]*entities.AlmanacRecord
	cutovers []*entities.AlmanacRecord // sorted by CutoverAt
}

// NewAlmanacStore creates a store holding records.
func NewAlmanacStore(records []*entities.AlmanacRecord) *AlmanacStore {
	return &AlmanacStore{
		index:    buildIndex(records),
		loadedAt: time.Now(),
	}
}

func buildIndex(records []*entities.AlmanacRecord) *almanacIndex {
	bySolarDate := make(map[time.Time]*entities.AlmanacRecord, len(records))
	for _, r := range records {
		bySolarDate[vo.DateOf(r.SolarDate)] = r
	}

	idx := &almanacIndex{
		bySolar: make([]*entities.AlmanacRecord, 0, len(bySolarDate)),
		byLunar: make(map[vo.LunarDate]*entities.AlmanacRecord, len(bySolarDate)),
	}
	for _, r := range bySolarDate {
		idx.bySolar = append(idx.bySolar, r)
		if r.CutoverAt != nil {
			idx.cutovers = append(idx.cutovers, r)
		}
		// The regular month wins over a leap month of the same number.
		if existing, ok := idx.byLunar[r.LunarDate]; !ok || (existing.LeapMonth && !r.LeapMonth) {
			idx.byLunar[r.LunarDate] = r
		}
	}
	sort.Slice(idx.bySolar, func(i, j int) bool {
		return idx.bySolar[i].SolarDate.Before(idx.bySolar[j].SolarDate)
	})
	sort.Slice(idx.cutovers, func(i, j int) bool {
		return idx.cutovers[i].CutoverAt.Before(*idx.cutovers[j].CutoverAt)
	})
	return idx
}

func (s *AlmanacStore) snapshot() *almanacIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// FindBySolarDate returns the record of a civil date.
func (s *AlmanacStore) FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := s.snapshot()
	day := vo.DateOf(date)
	i := sort.Search(len(idx.bySolar), func(i int) bool {
		return !idx.bySolar[i].SolarDate.Before(day)
	})
	if i < len(idx.bySolar) && idx.bySolar[i].SolarDate.Equal(day) {
		return idx.bySolar[i], nil
	}
	return nil, pkgerrors.NewDataNotFoundError(fmt.Sprintf("no almanac record for solar date %s", day.Format(vo.DateLayout)))
}

// FindByLunarDate returns the record of a lunar date.
func (s *AlmanacStore) FindByLunarDate(ctx context.Context, date vo.LunarDate) (*entities.AlmanacRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r, ok := s.snapshot().byLunar[date]; ok {
		return r, nil
	}
	return nil, pkgerrors.NewDataNotFoundError(fmt.Sprintf("no almanac record for lunar date %s", date))
}

// FindEarliestCutoverAtOrAfter returns the first cutover >= instant.
func (s *AlmanacStore) FindEarliestCutoverAtOrAfter(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cutovers := s.snapshot().cutovers
	i := sort.Search(len(cutovers), func(i int) bool {
		return !cutovers[i].CutoverAt.Before(instant)
	})
	if i < len(cutovers) {
		return cutovers[i], nil
	}
	return nil, pkgerrors.NewDataNotFoundError(fmt.Sprintf("no cutover at or after %s", instant.Format(time.RFC3339)))
}

// FindLatestCutoverAtOrBefore returns the last cutover <= instant.
func (s *AlmanacStore) FindLatestCutoverAtOrBefore(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cutovers := s.snapshot().cutovers
	// first index strictly after instant
	i := sort.Search(len(cutovers), func(i int) bool {
		return cutovers[i].CutoverAt.After(instant)
	})
	if i > 0 {
		return cutovers[i-1], nil
	}
	return nil, pkgerrors.NewDataNotFoundError(fmt.Sprintf("no cutover at or before %s", instant.Format(time.RFC3339)))
}

// SaveBatch upserts records by solar date.
func (s *AlmanacStore) SaveBatch(ctx context.Context, records []*entities.AlmanacRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]*entities.AlmanacRecord, 0, len(s.index.bySolar)+len(records))
	merged = append(merged, s.index.bySolar...)
	merged = append(merged, records...)
	s.index = buildIndex(merged)
	return nil
}

// Replace swaps the whole data set, as after a seed file reload.
func (s *AlmanacStore) Replace(records []*entities.AlmanacRecord) {
	idx := buildIndex(records)

	s.mu.Lock()
	s.index = idx
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// Count returns the number of records held.
func (s *AlmanacStore) Count(ctx context.Context) (int, error) {
	return len(s.snapshot().bySolar), nil
}

// Range returns the first and last solar dates held.
func (s *AlmanacStore) Range() (first, last time.Time, ok bool) {
	idx := s.snapshot()
	if len(idx.bySolar) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return idx.bySolar[0].SolarDate, idx.bySolar[len(idx.bySolar)-1].SolarDate, true
}

// LoadedAt returns when the current data set was installed.
func (s *AlmanacStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
