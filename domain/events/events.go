package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// EventTypeChartComputed is emitted once per successful chart computation.
const EventTypeChartComputed = "chart.computed"

// ChartComputed carries the pillars of a freshly computed chart. It contains
// no personal data beyond the birth date and gender already in the chart.
type ChartComputed struct {
	BaseEvent
	SolarDate        string `json:"solar_date"`
	Gender           string `json:"gender"`
	Calendar         string `json:"calendar"`
	Year             string `json:"year"`
	Month            string `json:"month"`
	Day              string `json:"day"`
	Hour             string `json:"hour,omitempty"`
	Direction        string `json:"direction"`
	FortuneStartAge  int    `json:"fortune_start_age"`
	FortuneStartYear int    `json:"fortune_start_year"`
}

// NewChartComputed creates a ChartComputed event for chart.
func NewChartComputed(chart *aggregates.SajuChart, timestamp time.Time) ChartComputed {
	e := ChartComputed{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			AggregateID: chart.ID,
			EventType:   EventTypeChartComputed,
			Timestamp:   timestamp,
			Version:     1,
		},
		SolarDate:        chart.SolarDate.Format("2006-01-02"),
		Gender:           chart.Query.Gender.String(),
		Calendar:         chart.Query.CalendarType().String(),
		Year:             chart.Year.Code.Glyph(),
		Month:            chart.Month.Code.Glyph(),
		Day:              chart.Day.Code.Glyph(),
		Direction:        chart.Direction.String(),
		FortuneStartAge:  chart.FortuneStartAge,
		FortuneStartYear: chart.FortuneStartYear,
	}
	if chart.Hour != nil {
		e.Hour = chart.Hour.Code.Glyph()
	}
	return e
}
