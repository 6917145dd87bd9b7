// Package seed reads almanac data sets from CSV files, optionally
// xz-compressed and pinned by a BLAKE3 checksum.
//
// The header names the columns; order is free and unknown columns are
// ignored:
//
//	solar_date,lunar_date,leap_month,season,season_start_time,
//	year_sky,year_ground,month_sky,month_ground,day_sky,day_ground
//
// Stems and branches may be written as glyphs (甲, 子) or Hangul (갑, 자).
package seed

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/text/unicode/norm"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Column names.
const (
	ColSolarDate   = "solar_date"
	ColLunarDate   = "lunar_date"
	ColLeapMonth   = "leap_month"
	ColSeason      = "season"
	ColSeasonStart = "season_start_time"
	ColYearSky     = "year_sky"
	ColYearGround  = "year_ground"
	ColMonthSky    = "month_sky"
	ColMonthGround = "month_ground"
	ColDaySky      = "day_sky"
	ColDayGround   = "day_ground"
)

var requiredColumns = []string{
	ColSolarDate, ColLunarDate,
	ColYearSky, ColYearGround, ColMonthSky, ColMonthGround, ColDaySky, ColDayGround,
}

// Options controls LoadFile.
type Options struct {
	// Checksum is the expected hex BLAKE3-256 of the file as stored on disk.
	// Empty disables the check.
	Checksum string
}

// Checksum returns the hex BLAKE3-256 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadFile reads a seed file. Files ending in .xz are decompressed.
func LoadFile(path string, opts Options) ([]*entities.AlmanacRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewConfigurationError(fmt.Sprintf("read seed %s", path)).WithCause(err)
	}

	if opts.Checksum != "" {
		if got := Checksum(raw); !strings.EqualFold(got, opts.Checksum) {
			return nil, pkgerrors.NewConfigurationError(fmt.Sprintf("seed %s checksum mismatch", path)).
				WithDetail("expected", opts.Checksum).
				WithDetail("actual", got)
		}
	}

	var r io.Reader = bytes.NewReader(raw)
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, pkgerrors.NewConfigurationError(fmt.Sprintf("xz reader for %s", path)).WithCause(err)
		}
		r = xzr
	}
	return Decode(r)
}

// Decode parses CSV seed data.
func Decode(r io.Reader) ([]*entities.AlmanacRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, pkgerrors.NewInvalidInputError("seed has no header row").WithCause(err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, pkgerrors.NewInvalidInputError(fmt.Sprintf("seed is missing column %q", name))
		}
	}

	var records []*entities.AlmanacRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewInvalidInputError(fmt.Sprintf("seed line %d", line)).WithCause(err)
		}
		rec, err := decodeRow(row, cols)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "seed line %d", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(row []string, cols map[string]int) (*entities.AlmanacRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return norm.NFC.String(strings.TrimSpace(row[i]))
	}

	solar, err := vo.ParseSolarDate(get(ColSolarDate))
	if err != nil {
		return nil, err
	}
	lunar, err := vo.ParseLunarDate(get(ColLunarDate))
	if err != nil {
		return nil, err
	}

	rec := &entities.AlmanacRecord{
		SolarDate: solar,
		LunarDate: lunar,
		SolarTerm: get(ColSeason),
	}

	if leap := get(ColLeapMonth); leap != "" {
		rec.LeapMonth, err = parseFlag(leap)
		if err != nil {
			return nil, err
		}
	}

	if start := get(ColSeasonStart); start != "" {
		at, err := dateparse.ParseIn(start, time.UTC)
		if err != nil {
			return nil, pkgerrors.NewInvalidInputError(fmt.Sprintf("invalid season_start_time %q", start)).WithCause(err)
		}
		at = at.Truncate(time.Minute)
		rec.CutoverAt = &at
	}

	if rec.Year, err = pair(get(ColYearSky), get(ColYearGround)); err != nil {
		return nil, err
	}
	if rec.Month, err = pair(get(ColMonthSky), get(ColMonthGround)); err != nil {
		return nil, err
	}
	if rec.Day, err = pair(get(ColDaySky), get(ColDayGround)); err != nil {
		return nil, err
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func pair(stem, branch string) (vo.StemBranch, error) {
	s, err := vo.ParseStem(stem)
	if err != nil {
		return vo.StemBranch{}, err
	}
	b, err := vo.ParseBranch(branch)
	if err != nil {
		return vo.StemBranch{}, err
	}
	return vo.NewStemBranch(s, b)
}

func parseFlag(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "Y", "YES", "윤":
		return true, nil
	case "N", "NO", "평":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, pkgerrors.NewInvalidInputError(fmt.Sprintf("invalid leap_month %q", s))
	}
	return b, nil
}
