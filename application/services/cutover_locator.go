package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// CutoverLocator finds the solar-term boundary the Great Fortune is measured
// against.
type CutoverLocator struct {
	almanac ports.AlmanacRepository
}

// NewCutoverLocator creates a new cutover locator
func NewCutoverLocator(almanac ports.AlmanacRepository) *CutoverLocator {
	return &CutoverLocator{almanac: almanac}
}

// Locate returns the earliest cutover at or after birth when dir is Forward,
// and the latest cutover at or before birth when dir is Backward.
func (l *CutoverLocator) Locate(ctx context.Context, dir vo.Direction, birth time.Time) (*entities.AlmanacRecord, error) {
	var (
		record *entities.AlmanacRecord
		err    error
	)
	if dir == vo.Forward {
		record, err = l.almanac.FindEarliestCutoverAtOrAfter(ctx, birth)
	} else {
		record, err = l.almanac.FindLatestCutoverAtOrBefore(ctx, birth)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "locate %s cutover from %s", dir, birth.Format("2006-01-02T15:04"))
	}
	if record == nil || record.CutoverAt == nil {
		return nil, pkgerrors.NewDataNotFoundError(
			fmt.Sprintf("no %s cutover from %s", dir, birth.Format("2006-01-02T15:04")))
	}
	return record, nil
}
