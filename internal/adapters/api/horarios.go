package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"academia/internal/domain/horario"
	"academia/internal/domain/timegrid"
)

// backendTimestamp is the wire layout for dia_y_hora. The backend sends local
// wall-clock timestamps without a zone.
const backendTimestamp = "2006-01-02T15:04:05"

// horarioRecord mirrors one row of GET /horarios, including the joined
// discipline and instructor names.
type horarioRecord struct {
	ID           int64  `json:"id_horario"`
	DiaYHora     string `json:"dia_y_hora"`
	IDDisciplina int64  `json:"id_disciplina"`
	IDProfesor   int64  `json:"id_profesor"`
	Disciplina   struct {
		Nombre string `json:"nombre_disciplina"`
	} `json:"disciplinas"`
	Profesor struct {
		Nombre string `json:"nombre"`
	} `json:"profesores"`
}

type horarioPayload struct {
	DiaYHora     string `json:"dia_y_hora"`
	IDDisciplina int64  `json:"id_disciplina"`
	IDProfesor   int64  `json:"id_profesor"`
}

// HorarioAPI translates between the backend's absolute-timestamp schedule
// records and the calendar's weekday + time-range events. The backend is the
// sole source of truth; callers re-List after every mutation instead of
// patching locally.
type HorarioAPI struct {
	c *Client
}

// NewHorarioAPI creates the schedule adapter over a backend client.
func NewHorarioAPI(c *Client) *HorarioAPI {
	return &HorarioAPI{c: c}
}

// List fetches all schedule records and normalizes them into ClassEvents in
// arrival order. The backend stores no duration, so the end time is
// synthesized as start + horario.DefaultDuration. Records with an
// unparseable timestamp are logged and skipped.
func (a *HorarioAPI) List(ctx context.Context) ([]horario.ClassEvent, error) {
	var records []horarioRecord
	if err := a.c.do(ctx, http.MethodGet, "/horarios", nil, &records); err != nil {
		return nil, err
	}

	events := make([]horario.ClassEvent, 0, len(records))
	for _, rec := range records {
		ts, err := parseBackendTime(rec.DiaYHora)
		if err != nil {
			slog.Warn("horario_skipped", "id", rec.ID, "dia_y_hora", rec.DiaYHora, "error", err.Error())
			continue
		}
		events = append(events, horario.ClassEvent{
			ID:             strconv.FormatInt(rec.ID, 10),
			Day:            horario.DayLabelFor(ts),
			StartTime:      ts.Format("15:04"),
			EndTime:        ts.Add(horario.DefaultDuration).Format("15:04"),
			DisciplineID:   rec.IDDisciplina,
			DisciplineName: rec.Disciplina.Nombre,
			InstructorID:   rec.IDProfesor,
			InstructorName: rec.Profesor.Nombre,
			Variant:        horario.VariantFor(rec.Disciplina.Nombre),
		})
	}
	return events, nil
}

// CreateInput carries one schedule-editor submission: the same time of day
// applied to every selected weekday.
type CreateInput struct {
	DisciplineID int64
	InstructorID int64
	Weekdays     []string // weekday labels
	StartTime    string   // HH:MM
}

// WeekdayResult reports the outcome of the create issued for one weekday.
type WeekdayResult struct {
	Day string
	Err error
}

// BatchResult is the per-weekday outcome of a fan-out mutation. Creates that
// succeeded before another one failed are not rolled back.
type BatchResult []WeekdayResult

// Failed returns the weekday labels whose create failed.
func (r BatchResult) Failed() []string {
	var days []string
	for _, item := range r {
		if item.Err != nil {
			days = append(days, item.Day)
		}
	}
	return days
}

// Err summarizes the batch: nil when every item succeeded.
func (r BatchResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	for _, item := range r {
		if errors.Is(item.Err, ErrUnauthorized) {
			return ErrUnauthorized
		}
	}
	return fmt.Errorf("no se pudieron guardar los días: %v", failed)
}

// Create issues one POST /horarios per selected weekday, all concurrently,
// and reports per-weekday results after every request has settled.
func (a *HorarioAPI) Create(ctx context.Context, in CreateInput) BatchResult {
	now := timeNow()
	results := make(BatchResult, len(in.Weekdays))

	var wg sync.WaitGroup
	for i, day := range in.Weekdays {
		wg.Add(1)
		go func(i int, day string) {
			defer wg.Done()
			results[i].Day = day
			ts, err := DateForWeekday(now, day, in.StartTime)
			if err != nil {
				results[i].Err = err
				return
			}
			payload := horarioPayload{
				DiaYHora:     ts.Format(backendTimestamp),
				IDDisciplina: in.DisciplineID,
				IDProfesor:   in.InstructorID,
			}
			results[i].Err = a.c.do(ctx, http.MethodPost, "/horarios", payload, nil)
		}(i, day)
	}
	wg.Wait()
	return results
}

// UpdateInput targets one existing record. Payload shape matches Create.
type UpdateInput struct {
	DisciplineID int64
	InstructorID int64
	Weekday      string
	StartTime    string
}

// Update rewrites one schedule record by id.
func (a *HorarioAPI) Update(ctx context.Context, id string, in UpdateInput) error {
	ts, err := DateForWeekday(timeNow(), in.Weekday, in.StartTime)
	if err != nil {
		return err
	}
	payload := horarioPayload{
		DiaYHora:     ts.Format(backendTimestamp),
		IDDisciplina: in.DisciplineID,
		IDProfesor:   in.InstructorID,
	}
	return a.c.do(ctx, http.MethodPut, "/horarios/"+id, payload, nil)
}

// Delete removes one schedule record by id.
func (a *HorarioAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/horarios/"+id, nil, nil)
}

// DateForWeekday resolves a weekday label and "HH:MM" start time to an
// absolute timestamp inside the current Monday–Sunday window around now. The
// window never advances: a weekday that already passed this week yields a
// date earlier than today.
func DateForWeekday(now time.Time, day, startTime string) (time.Time, error) {
	label := horario.NormalizeDay(day)
	idx := -1
	for i, d := range horario.ValidDays {
		if d == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return time.Time{}, fmt.Errorf("%w: %q", horario.ErrInvalidDay, day)
	}

	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}

	d := timegrid.WeekStart(now).AddDate(0, 0, idx)
	return time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), 0, 0, now.Location()), nil
}

func parseBackendTime(s string) (time.Time, error) {
	if ts, err := time.ParseInLocation(backendTimestamp, s, time.Local); err == nil {
		return ts, nil
	}
	// Some backend deployments append a zone designator.
	return time.Parse(time.RFC3339, s)
}
