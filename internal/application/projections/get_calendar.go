package projections

import (
	"context"
	"time"

	"academia/internal/domain/horario"
	"academia/internal/domain/timegrid"
)

// View mode constants.
const (
	ModeWeek = "week"
	ModeDay  = "day"
)

// CalendarScheduleSource defines the schedule access needed by this
// projection.
type CalendarScheduleSource interface {
	List(ctx context.Context) ([]horario.ClassEvent, error)
}

// GetCalendarDeps holds dependencies for the projection.
type GetCalendarDeps struct {
	Schedule CalendarScheduleSource
	Grid     timegrid.Config
}

// GetCalendarQuery selects what to render. Reference picks the week (or the
// single day); Now drives only the today highlight.
type GetCalendarQuery struct {
	Reference time.Time
	Mode      string // ModeWeek or ModeDay
	Now       time.Time
}

// EventPlacement is one event positioned inside a column. Overlapping events
// keep their computed positions and simply overlap on screen; no lane
// assignment is attempted.
type EventPlacement struct {
	Event         horario.ClassEvent
	TopPercent    float64
	HeightPercent float64
}

// CalendarColumn is one rendered day.
type CalendarColumn struct {
	Date    time.Time
	Label   string // weekday label, the matching key
	IsToday bool
	Events  []EventPlacement
}

// CalendarResult is the laid-out grid.
type CalendarResult struct {
	Mode       string
	WeekStart  time.Time
	Columns    []CalendarColumn
	HourLabels []string
	TotalSlots int
}

// QueryGetCalendar lays the schedule out as a week (Monday–Saturday) or
// single-day grid. An event whose day label matches no column (an invalid
// label included) is simply absent from the result.
func QueryGetCalendar(ctx context.Context, query GetCalendarQuery, deps GetCalendarDeps) (CalendarResult, error) {
	events, err := deps.Schedule.List(ctx)
	if err != nil {
		return CalendarResult{}, err
	}

	weekStart := timegrid.WeekStart(query.Reference)
	result := CalendarResult{
		Mode:       query.Mode,
		WeekStart:  weekStart,
		HourLabels: deps.Grid.HourLabels(),
		TotalSlots: deps.Grid.TotalSlots(),
	}

	var dates []time.Time
	if query.Mode == ModeDay {
		dates = []time.Time{query.Reference}
	} else {
		result.Mode = ModeWeek
		for col := 0; col < timegrid.WeekColumns; col++ {
			dates = append(dates, timegrid.ColumnDate(weekStart, col))
		}
	}

	for _, date := range dates {
		column := CalendarColumn{
			Date:    date,
			Label:   horario.DayLabelFor(date),
			IsToday: sameDate(date, query.Now),
		}
		for _, e := range events {
			if !horario.SameDay(e.Day, column.Label) {
				continue
			}
			column.Events = append(column.Events, EventPlacement{
				Event:         e,
				TopPercent:    deps.Grid.TopPercent(e.StartTime),
				HeightPercent: deps.Grid.HeightPercent(e.TimeRange()),
			})
		}
		result.Columns = append(result.Columns, column)
	}
	return result, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
