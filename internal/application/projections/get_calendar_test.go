package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"academia/internal/domain/horario"
	"academia/internal/domain/timegrid"
)

type mockCalendarScheduleSource struct {
	events []horario.ClassEvent
	err    error
}

func (m *mockCalendarScheduleSource) List(_ context.Context) ([]horario.ClassEvent, error) {
	return m.events, m.err
}

// TestQueryGetCalendar_WeekRoundTrip verifies that a MIÉRCOLES event lands in
// exactly one column regardless of the reference date used to render the
// week.
func TestQueryGetCalendar_WeekRoundTrip(t *testing.T) {
	source := &mockCalendarScheduleSource{events: []horario.ClassEvent{
		{ID: "1", Day: horario.Miercoles, StartTime: "18:00", EndTime: "19:00", DisciplineName: "MMA", Variant: horario.VariantMMA},
	}}
	deps := GetCalendarDeps{Schedule: source, Grid: timegrid.DefaultConfig()}

	// Render the same week from each of its seven days.
	for i := 0; i < 7; i++ {
		ref := time.Date(2024, 3, 4+i, 12, 0, 0, 0, time.Local)
		res, err := QueryGetCalendar(context.Background(), GetCalendarQuery{Reference: ref, Mode: ModeWeek, Now: ref}, deps)
		if err != nil {
			t.Fatalf("QueryGetCalendar error: %v", err)
		}
		if len(res.Columns) != timegrid.WeekColumns {
			t.Fatalf("week view has %d columns, want %d", len(res.Columns), timegrid.WeekColumns)
		}

		appearances := 0
		for _, col := range res.Columns {
			if len(col.Events) == 0 {
				continue
			}
			appearances += len(col.Events)
			if col.Label != horario.Miercoles {
				t.Errorf("ref %v: event appeared in column %q", ref, col.Label)
			}
		}
		if appearances != 1 {
			t.Errorf("ref %v: event appeared %d times, want exactly 1", ref, appearances)
		}
	}
}

// TestQueryGetCalendar_UnknownDayAppearsNowhere verifies the silent-exclusion
// invariant for events with unrecognized day labels.
func TestQueryGetCalendar_UnknownDayAppearsNowhere(t *testing.T) {
	source := &mockCalendarScheduleSource{events: []horario.ClassEvent{
		{ID: "1", Day: "FERIADO", StartTime: "18:00", EndTime: "19:00", DisciplineName: "Boxeo"},
		{ID: "2", Day: "MIERCOLES", StartTime: "18:00", EndTime: "19:00", DisciplineName: "Boxeo"}, // missing accent
	}}
	deps := GetCalendarDeps{Schedule: source, Grid: timegrid.DefaultConfig()}

	ref := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local)
	res, err := QueryGetCalendar(context.Background(), GetCalendarQuery{Reference: ref, Mode: ModeWeek, Now: ref}, deps)
	if err != nil {
		t.Fatalf("QueryGetCalendar error: %v", err)
	}
	for _, col := range res.Columns {
		if len(col.Events) != 0 {
			t.Errorf("column %q has %d events, want 0", col.Label, len(col.Events))
		}
	}
}

// TestQueryGetCalendar_Placement verifies the geometry applied to placed
// events, including zero-height for inverted ranges.
func TestQueryGetCalendar_Placement(t *testing.T) {
	source := &mockCalendarScheduleSource{events: []horario.ClassEvent{
		{ID: "1", Day: horario.Lunes, StartTime: "09:00", EndTime: "10:30", DisciplineName: "Jiu Jitsu"},
		{ID: "2", Day: horario.Lunes, StartTime: "11:00", EndTime: "10:00", DisciplineName: "Boxeo"},
	}}
	deps := GetCalendarDeps{Schedule: source, Grid: timegrid.DefaultConfig()}

	ref := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local)
	res, err := QueryGetCalendar(context.Background(), GetCalendarQuery{Reference: ref, Mode: ModeWeek, Now: ref}, deps)
	if err != nil {
		t.Fatalf("QueryGetCalendar error: %v", err)
	}

	monday := res.Columns[0]
	if len(monday.Events) != 2 {
		t.Fatalf("monday has %d events, want 2", len(monday.Events))
	}
	first := monday.Events[0]
	if first.TopPercent != float64(2)/30*100 {
		t.Errorf("TopPercent = %v, want %v", first.TopPercent, float64(2)/30*100)
	}
	if first.HeightPercent != float64(3)/30*100 {
		t.Errorf("HeightPercent = %v, want %v", first.HeightPercent, float64(3)/30*100)
	}
	// Inverted range renders with zero height instead of erroring.
	if monday.Events[1].HeightPercent != 0 {
		t.Errorf("inverted range HeightPercent = %v, want 0", monday.Events[1].HeightPercent)
	}
}

// TestQueryGetCalendar_DayMode verifies single-column day view and the today
// highlight.
func TestQueryGetCalendar_DayMode(t *testing.T) {
	source := &mockCalendarScheduleSource{events: []horario.ClassEvent{
		{ID: "1", Day: horario.Martes, StartTime: "18:00", EndTime: "19:00", DisciplineName: "Muay Thai"},
	}}
	deps := GetCalendarDeps{Schedule: source, Grid: timegrid.DefaultConfig()}

	tuesday := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	res, err := QueryGetCalendar(context.Background(), GetCalendarQuery{Reference: tuesday, Mode: ModeDay, Now: tuesday}, deps)
	if err != nil {
		t.Fatalf("QueryGetCalendar error: %v", err)
	}
	if len(res.Columns) != 1 {
		t.Fatalf("day view has %d columns, want 1", len(res.Columns))
	}
	col := res.Columns[0]
	if col.Label != horario.Martes || !col.IsToday || len(col.Events) != 1 {
		t.Errorf("day column = {Label: %q, IsToday: %v, events: %d}, want {MARTES, true, 1}", col.Label, col.IsToday, len(col.Events))
	}
}

// TestQueryGetCalendar_SourceError verifies error propagation.
func TestQueryGetCalendar_SourceError(t *testing.T) {
	wantErr := errors.New("backend down")
	deps := GetCalendarDeps{Schedule: &mockCalendarScheduleSource{err: wantErr}, Grid: timegrid.DefaultConfig()}

	_, err := QueryGetCalendar(context.Background(), GetCalendarQuery{Reference: time.Now(), Mode: ModeWeek, Now: time.Now()}, deps)
	if !errors.Is(err, wantErr) {
		t.Errorf("QueryGetCalendar error = %v, want %v", err, wantErr)
	}
}
