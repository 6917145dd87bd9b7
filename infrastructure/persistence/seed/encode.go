package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

var header = []string{
	ColSolarDate, ColLunarDate, ColLeapMonth, ColSeason, ColSeasonStart,
	ColYearSky, ColYearGround, ColMonthSky, ColMonthGround, ColDaySky, ColDayGround,
}

const seasonStartLayout = "2006-01-02 15:04"

// Encode writes records as seed CSV with glyph codes.
func Encode(w io.Writer, records []*entities.AlmanacRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		leap := "N"
		if r.LeapMonth {
			leap = "Y"
		}
		start := ""
		if r.CutoverAt != nil {
			start = r.CutoverAt.Format(seasonStartLayout)
		}
		row := []string{
			r.SolarDate.Format(vo.DateLayout),
			r.LunarDate.String(),
			leap,
			r.SolarTerm,
			start,
			r.Year.Stem().Glyph(), r.Year.Branch().Glyph(),
			r.Month.Stem().Glyph(), r.Month.Branch().Glyph(),
			r.Day.Stem().Glyph(), r.Day.Branch().Glyph(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile encodes records to path, compressing when the name ends in .xz.
// It returns the BLAKE3 checksum of the bytes written.
func WriteFile(path string, records []*entities.AlmanacRecord) (string, error) {
	var buf strings.Builder
	if err := Encode(&buf, records); err != nil {
		return "", fmt.Errorf("encode seed: %w", err)
	}
	data := []byte(buf.String())

	if strings.HasSuffix(path, ".xz") {
		var compressed strings.Builder
		xw, err := xz.NewWriter(&compressed)
		if err != nil {
			return "", fmt.Errorf("xz writer: %w", err)
		}
		if _, err := xw.Write(data); err != nil {
			return "", fmt.Errorf("xz write: %w", err)
		}
		if err := xw.Close(); err != nil {
			return "", fmt.Errorf("xz close: %w", err)
		}
		data = []byte(compressed.String())
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write seed %s: %w", path, err)
	}
	return Checksum(data), nil
}
