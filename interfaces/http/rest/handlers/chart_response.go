package handlers

import (
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	"github.com/kimtaewoo9/mansereok/domain/core/tables"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

const seasonStartLayout = "2006-01-02 15:04"

// ChartResponse is the body of a successful chart calculation
type ChartResponse struct {
	Input InputInfo `json:"input"`
	Saju  SajuInfo  `json:"saju"`
}

// InputInfo echoes the request
type InputInfo struct {
	SolarDate string  `json:"solar_date"`
	SolarTime *string `json:"solar_time"`
	Gender    string  `json:"gender"`
	IsLunar   bool    `json:"is_lunar"`
}

// SajuInfo is the computed chart
type SajuInfo struct {
	ChartID          string `json:"chart_id"`
	BirthSolarDate   string `json:"birth_solar_date"`
	Direction        string `json:"direction"`
	BigFortuneNumber int    `json:"big_fortune_number"`
	BigFortuneStart  int    `json:"big_fortune_start_year"`
	SeasonStartTime  string `json:"season_start_time"`
	Season           string `json:"season,omitempty"`

	YearSky     PillarElement  `json:"year_sky"`
	YearGround  PillarElement  `json:"year_ground"`
	MonthSky    PillarElement  `json:"month_sky"`
	MonthGround PillarElement  `json:"month_ground"`
	DaySky      PillarElement  `json:"day_sky"`
	DayGround   PillarElement  `json:"day_ground"`
	TimeSky     *PillarElement `json:"time_sky"`
	TimeGround  *PillarElement `json:"time_ground"`

	GreatFortunes  []GreatFortuneInfo `json:"great_fortunes"`
	ElementBalance []ElementShare     `json:"element_balance"`
}

// PillarElement is one stem or branch. Jijanggan is set for branches only.
type PillarElement struct {
	Chinese         string         `json:"chinese"`
	Korean          string         `json:"korean"`
	FiveCircle      string         `json:"five_circle"`
	FiveCircleColor string         `json:"five_circle_color"`
	TenStar         string         `json:"ten_star"`
	MinusPlus       string         `json:"minus_plus"`
	Jijanggan       *JijangganInfo `json:"jijanggan,omitempty"`
}

// JijangganInfo lists the hidden stems of a branch. Absent slots are null.
type JijangganInfo struct {
	First  *JijangganElement `json:"first"`
	Second *JijangganElement `json:"second"`
	Third  *JijangganElement `json:"third"`
}

// JijangganElement is one weighted hidden stem
type JijangganElement struct {
	Chinese         string `json:"chinese"`
	Korean          string `json:"korean"`
	FiveCircle      string `json:"five_circle"`
	FiveCircleColor string `json:"five_circle_color"`
	MinusPlus       string `json:"minus_plus"`
	Rate            int    `json:"rate"`
}

// GreatFortuneInfo is one decade pillar
type GreatFortuneInfo struct {
	Age     int           `json:"age"`
	Year    int           `json:"year"`
	Chinese string        `json:"chinese"`
	Korean  string        `json:"korean"`
	Sky     PillarElement `json:"sky"`
	Ground  PillarElement `json:"ground"`
}

// ElementShare is the weight of one element in the chart
type ElementShare struct {
	Element string `json:"element"`
	Color   string `json:"color"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// CompatibilityResponse carries both charts of a pair
type CompatibilityResponse struct {
	Person1 ChartResponse `json:"person1"`
	Person2 ChartResponse `json:"person2"`
}

func newChartResponse(req CalculateRequest, chart *aggregates.SajuChart) ChartResponse {
	input := InputInfo{
		SolarDate: req.SolarDate,
		Gender:    req.Gender,
		IsLunar:   chart.Query.IsLunar,
	}
	if req.SolarTime != "" {
		t := req.SolarTime
		input.SolarTime = &t
	}

	saju := SajuInfo{
		ChartID:          chart.ID,
		BirthSolarDate:   chart.SolarDate.Format(vo.DateLayout),
		Direction:        chart.Direction.String(),
		BigFortuneNumber: chart.FortuneStartAge,
		BigFortuneStart:  chart.FortuneStartYear,
		SeasonStartTime:  chart.CutoverAt.Format(seasonStartLayout),
		Season:           chart.CutoverTerm,
		YearSky:          toElement(chart.Year.Stem),
		YearGround:       toElement(chart.Year.Branch),
		MonthSky:         toElement(chart.Month.Stem),
		MonthGround:      toElement(chart.Month.Branch),
		DaySky:           toElement(chart.Day.Stem),
		DayGround:        toElement(chart.Day.Branch),
	}
	if chart.Hour != nil {
		sky, ground := toElement(chart.Hour.Stem), toElement(chart.Hour.Branch)
		saju.TimeSky, saju.TimeGround = &sky, &ground
	}

	saju.GreatFortunes = make([]GreatFortuneInfo, 0, len(chart.GreatFortunes))
	for _, gf := range chart.GreatFortunes {
		saju.GreatFortunes = append(saju.GreatFortunes, GreatFortuneInfo{
			Age:     gf.Age,
			Year:    gf.Year,
			Chinese: gf.Pillar.Code.Glyph(),
			Korean:  gf.Pillar.Code.Korean(),
			Sky:     toElement(gf.Pillar.Stem),
			Ground:  toElement(gf.Pillar.Branch),
		})
	}

	for _, e := range vo.AllElements() {
		saju.ElementBalance = append(saju.ElementBalance, ElementShare{
			Element: e.Korean(),
			Color:   tables.ColorOf(e),
			Count:   chart.Balance.Counts[e],
			Percent: chart.Balance.Percent(e),
		})
	}

	return ChartResponse{Input: input, Saju: saju}
}

func toElement(a aggregates.AnnotatedElement) PillarElement {
	el := PillarElement{
		Chinese:         a.Glyph,
		Korean:          a.Korean,
		FiveCircle:      a.Element.Korean(),
		FiveCircleColor: a.Color,
		TenStar:         a.TenStar.Korean(),
		MinusPlus:       a.Polarity.Korean(),
	}
	if a.HiddenStems != nil {
		el.Jijanggan = &JijangganInfo{
			First:  toHidden(a.HiddenStems[0]),
			Second: toHidden(a.HiddenStems[1]),
			Third:  toHidden(a.HiddenStems[2]),
		}
	}
	return el
}

func toHidden(h vo.HiddenStem) *JijangganElement {
	if !h.Present {
		return nil
	}
	return &JijangganElement{
		Chinese:         h.Stem.Glyph(),
		Korean:          h.Stem.Korean(),
		FiveCircle:      h.Stem.Element().Korean(),
		FiveCircleColor: tables.ColorOf(h.Stem.Element()),
		MinusPlus:       h.Stem.Polarity().Korean(),
		Rate:            h.Rate,
	}
}
