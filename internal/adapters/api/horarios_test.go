package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"academia/internal/domain/horario"
)

// TestHorarioAPI_List_Normalization verifies the full record-to-event
// normalization: weekday from the timestamp, HH:MM start, synthesized end,
// variant lookup. 2024-03-04 is a Monday.
func TestHorarioAPI_List_Normalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/horarios" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id_horario": 7, "dia_y_hora": "2024-03-04T18:00:00", "id_disciplina": 1, "id_profesor": 2,
			 "disciplinas": {"nombre_disciplina": "Kickboxing"}, "profesores": {"nombre": "Juan"}},
			{"id_horario": 8, "dia_y_hora": "2024-03-06T09:30:00", "id_disciplina": 3, "id_profesor": 2,
			 "disciplinas": {"nombre_disciplina": "Aerobox"}, "profesores": {"nombre": "Ana"}}
		]`))
	}))
	defer srv.Close()

	adapter := NewHorarioAPI(NewClient(srv.URL, srv.Client()))
	events, err := adapter.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("List() returned %d events, want 2", len(events))
	}

	want := horario.ClassEvent{
		ID: "7", Day: horario.Lunes, StartTime: "18:00", EndTime: "19:00",
		DisciplineID: 1, DisciplineName: "Kickboxing",
		InstructorID: 2, InstructorName: "Juan", Variant: horario.VariantKickboxing,
	}
	if events[0] != want {
		t.Errorf("events[0] = %+v, want %+v", events[0], want)
	}

	// Unlisted discipline falls through to the default variant.
	if events[1].Day != horario.Miercoles {
		t.Errorf("events[1].Day = %q, want %q", events[1].Day, horario.Miercoles)
	}
	if events[1].Variant != horario.VariantDefault {
		t.Errorf("events[1].Variant = %q, want default", events[1].Variant)
	}
	if events[1].TimeRange() != "09:30 - 10:30" {
		t.Errorf("events[1].TimeRange() = %q, want %q", events[1].TimeRange(), "09:30 - 10:30")
	}
}

// TestHorarioAPI_List_SkipsMalformedTimestamps verifies that a bad record is
// dropped without failing the whole listing.
func TestHorarioAPI_List_SkipsMalformedTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id_horario": 1, "dia_y_hora": "not-a-date", "disciplinas": {"nombre_disciplina": "Boxeo"}, "profesores": {"nombre": ""}},
			{"id_horario": 2, "dia_y_hora": "2024-03-05T10:00:00", "disciplinas": {"nombre_disciplina": "Boxeo"}, "profesores": {"nombre": ""}}
		]`))
	}))
	defer srv.Close()

	adapter := NewHorarioAPI(NewClient(srv.URL, srv.Client()))
	events, err := adapter.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(events) != 1 || events[0].ID != "2" {
		t.Fatalf("List() = %+v, want only the well-formed record", events)
	}
}

// TestHorarioAPI_Create_FanOut verifies that saving three weekdays issues
// exactly three creates sharing the time of day, all within the current
// Monday–Sunday window even when the target day already passed.
func TestHorarioAPI_Create_FanOut(t *testing.T) {
	// Pretend today is Wednesday 2024-03-06.
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local) }
	defer func() { timeNow = restore }()

	var mu sync.Mutex
	var posted []horarioPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/horarios" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var p horarioPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		mu.Lock()
		posted = append(posted, p)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	adapter := NewHorarioAPI(NewClient(srv.URL, srv.Client()))
	result := adapter.Create(context.Background(), CreateInput{
		DisciplineID: 1,
		InstructorID: 2,
		Weekdays:     []string{horario.Lunes, horario.Miercoles, horario.Viernes},
		StartTime:    "18:00",
	})
	if err := result.Err(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(posted) != 3 {
		t.Fatalf("backend received %d creates, want 3", len(posted))
	}

	wantDates := map[string]bool{
		"2024-03-04T18:00:00": false, // Monday: already passed, still this week
		"2024-03-06T18:00:00": false,
		"2024-03-08T18:00:00": false,
	}
	for _, p := range posted {
		if _, ok := wantDates[p.DiaYHora]; !ok {
			t.Errorf("unexpected dia_y_hora %q", p.DiaYHora)
			continue
		}
		wantDates[p.DiaYHora] = true
		if p.IDDisciplina != 1 || p.IDProfesor != 2 {
			t.Errorf("payload references = (%d, %d), want (1, 2)", p.IDDisciplina, p.IDProfesor)
		}
	}
	for d, seen := range wantDates {
		if !seen {
			t.Errorf("missing create for %s", d)
		}
	}
}

// TestHorarioAPI_Create_PartialFailure verifies that a failing weekday is
// reported by name after all requests settle, with no rollback of the rest.
func TestHorarioAPI_Create_PartialFailure(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local) }
	defer func() { timeNow = restore }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p horarioPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		if strings.HasPrefix(p.DiaYHora, "2024-03-08") { // Friday
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	adapter := NewHorarioAPI(NewClient(srv.URL, srv.Client()))
	result := adapter.Create(context.Background(), CreateInput{
		DisciplineID: 1, InstructorID: 2,
		Weekdays:  []string{horario.Lunes, horario.Viernes},
		StartTime: "10:00",
	})

	if err := result.Err(); err == nil {
		t.Fatal("Create() with one failing weekday should report an error")
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0] != horario.Viernes {
		t.Errorf("Failed() = %v, want [%s]", failed, horario.Viernes)
	}
}

// TestDateForWeekday verifies window resolution, including negative offsets.
func TestDateForWeekday(t *testing.T) {
	// Sunday 2024-03-10: the whole week lies behind "now".
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)

	got, err := DateForWeekday(now, horario.Lunes, "18:30")
	if err != nil {
		t.Fatalf("DateForWeekday() error: %v", err)
	}
	want := time.Date(2024, 3, 4, 18, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("DateForWeekday(sunday, LUNES) = %v, want %v", got, want)
	}

	if _, err := DateForWeekday(now, "FERIADO", "18:30"); err == nil {
		t.Error("DateForWeekday with unknown label should fail")
	}
	if _, err := DateForWeekday(now, horario.Lunes, "25:99"); err == nil {
		t.Error("DateForWeekday with bad time should fail")
	}
}
