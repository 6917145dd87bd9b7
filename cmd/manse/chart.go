package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/kimtaewoo9/mansereok/application/queries"
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	"github.com/kimtaewoo9/mansereok/infrastructure/di"
)

var (
	chartGender   string
	chartLunar    bool
	chartCalendar string
	chartTime     string
)

var chartCmd = &cobra.Command{
	Use:   "chart [date-time]",
	Short: "Compute the chart of a birth moment",
	Long: `Computes the Four Pillars chart of a birth moment.

Solar dates are parsed leniently ("1987-02-13 14:30", "Feb 13 1987 2:30pm").
Lunar dates must be yyyy-mm-dd, with the time given by --time.
Without a time of day no hour pillar is computed.`,
	Example: `  manse chart "1987-02-13 14:30" --gender M
  manse chart 1987-01-16 --lunar --time 14:30 --gender FEMALE
  manse chart 1987-01-16 --calendar L --time 14:30 --gender F`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartGender, "gender", "g", "", "M, F, MALE or FEMALE")
	chartCmd.Flags().BoolVar(&chartLunar, "lunar", false, "the date is a lunar date")
	chartCmd.Flags().StringVar(&chartCalendar, "calendar", "", "calendar of the date: S, L, SOLAR or LUNAR")
	chartCmd.Flags().StringVar(&chartTime, "time", "", "time of day HH:MM (overrides any time in the argument)")
	_ = chartCmd.MarkFlagRequired("gender")
}

func runChart(cmd *cobra.Command, args []string) error {
	lunar, err := resolveLunar(chartLunar, chartCalendar)
	if err != nil {
		return err
	}
	q, err := parseChartQuery(args[0], chartTime, chartGender, lunar)
	if err != nil {
		return err
	}
	q.Calendar = chartCalendar

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := container.QueryBus.Ask(ctx, q)
	if err != nil {
		return err
	}
	return printChart(cmd.OutOrStdout(), result.(*aggregates.SajuChart))
}

// resolveLunar combines --lunar and --calendar. A contradiction between them is
// left for query validation to report.
func resolveLunar(lunar bool, calendar string) (bool, error) {
	if calendar == "" {
		return lunar, nil
	}
	ct, err := vo.ParseCalendarType(calendar)
	if err != nil {
		return false, err
	}
	return lunar || ct == vo.Lunar, nil
}

// parseChartQuery turns command-line input into a chart query. A time is
// taken from the argument only when it contains a clock reading.
func parseChartQuery(arg, clock, gender string, lunar bool) (queries.ComputeChartQuery, error) {
	q := queries.ComputeChartQuery{Gender: gender, IsLunar: lunar, Time: clock}

	if lunar {
		fields := strings.Fields(strings.Replace(arg, "T", " ", 1))
		if len(fields) == 0 {
			return q, fmt.Errorf("empty date")
		}
		q.Date = fields[0]
		if q.Time == "" && len(fields) > 1 {
			q.Time = fields[1]
		}
		return q, nil
	}

	t, err := dateparse.ParseIn(arg, time.UTC)
	if err != nil {
		return q, fmt.Errorf("cannot parse date %q: %w", arg, err)
	}
	q.Date = t.Format(vo.DateLayout)
	if q.Time == "" && strings.Contains(arg, ":") {
		q.Time = t.Format("15:04:05")
	}
	return q, nil
}

func printChart(out io.Writer, chart *aggregates.SajuChart) error {
	q := chart.Query
	when := chart.SolarDate.Format(vo.DateLayout)
	if q.HasTime() {
		when += " " + q.Time.String()
	}
	if q.IsLunar {
		when += fmt.Sprintf(" (lunar %s)", q.LunarDate)
	}
	fmt.Fprintf(out, "Chart %s %s %s\n\n", when, q.Gender, chart.ID)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PILLAR\tCODE\tSTEM\tBRANCH\tHIDDEN STEMS")
	rows := []struct {
		name   string
		pillar *aggregates.Pillar
	}{
		{"year", &chart.Year},
		{"month", &chart.Month},
		{"day", &chart.Day},
		{"hour", chart.Hour},
	}
	for _, row := range rows {
		if row.pillar == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", row.name)
			continue
		}
		p := row.pillar
		fmt.Fprintf(tw, "%s\t%s %s\t%s %s %s\t%s %s %s\t%s\n",
			row.name,
			p.Code.Glyph(), p.Code.Korean(),
			p.Stem.Glyph, p.Stem.Element.Korean(), p.Stem.TenStar.Korean(),
			p.Branch.Glyph, p.Branch.Element.Korean(), p.Branch.TenStar.Korean(),
			hiddenStems(p.Branch.HiddenStems),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nGreat fortune %s from age %d (%d), %s at %s\n",
		chart.Direction, chart.FortuneStartAge, chart.FortuneStartYear,
		chart.CutoverTerm, chart.CutoverAt.Format("2006-01-02 15:04"))
	for _, gf := range chart.GreatFortunes {
		fmt.Fprintf(out, "  %3d  %d  %s\n", gf.Age, gf.Year, gf.Pillar.Code.Glyph())
	}

	fmt.Fprint(out, "\nElements")
	for _, e := range vo.AllElements() {
		fmt.Fprintf(out, "  %s %d", e.Korean(), chart.Balance.Counts[e])
	}
	fmt.Fprintln(out)
	return nil
}

func hiddenStems(h *vo.HiddenStems) string {
	if h == nil {
		return "-"
	}
	var parts []string
	for _, slot := range h {
		if slot.Present {
			parts = append(parts, fmt.Sprintf("%s%d", slot.Stem.Glyph(), slot.Rate))
		}
	}
	return strings.Join(parts, " ")
}
