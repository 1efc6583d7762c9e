package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"academia/internal/adapters/api"
	"academia/internal/domain/horario"
)

var validate = validator.New()

// SaveHorarioInput is the schedule editor's submission, an explicit validated
// structure rather than a free-form options bag. Cross-field time ordering
// (end after start) is deliberately not enforced here; inverted ranges render
// as zero-height events.
type SaveHorarioInput struct {
	ID           string   `validate:"omitempty"` // empty = create, set = edit
	DisciplineID int64    `validate:"required,gt=0"`
	InstructorID int64    `validate:"required,gt=0"`
	Weekdays     []string `validate:"required,min=1,dive,required"`
	StartTime    string   `validate:"required,len=5"` // HH:MM
	EndTime      string   `validate:"required,len=5"` // HH:MM, display-only: the backend stores no duration
}

// HorarioWriter defines the adapter surface this orchestrator mutates
// through.
type HorarioWriter interface {
	Create(ctx context.Context, in api.CreateInput) api.BatchResult
	Update(ctx context.Context, id string, in api.UpdateInput) error
}

// SaveHorarioDeps holds dependencies for the save orchestrator.
type SaveHorarioDeps struct {
	Horarios HorarioWriter
}

var ErrInvalidWeekday = errors.New("weekday is not a valid label")

// ExecuteSaveHorario validates the editor submission and delegates to the
// adapter: create mode fans out one record per selected weekday, edit mode
// rewrites a single record. The per-weekday result list is returned so the
// caller can report partial failure by day.
func ExecuteSaveHorario(ctx context.Context, input SaveHorarioInput, deps SaveHorarioDeps) (api.BatchResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid schedule submission: %w", err)
	}
	for _, day := range input.Weekdays {
		if !horario.IsValidDay(day) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
		}
	}

	if input.ID != "" {
		err := deps.Horarios.Update(ctx, input.ID, api.UpdateInput{
			DisciplineID: input.DisciplineID,
			InstructorID: input.InstructorID,
			Weekday:      input.Weekdays[0],
			StartTime:    input.StartTime,
		})
		result := api.BatchResult{{Day: input.Weekdays[0], Err: err}}
		if err != nil {
			slog.Error("horario_update_failed", "id", input.ID, "error", err.Error())
			return result, err
		}
		slog.Info("horario_updated", "id", input.ID, "day", input.Weekdays[0])
		return result, nil
	}

	result := deps.Horarios.Create(ctx, api.CreateInput{
		DisciplineID: input.DisciplineID,
		InstructorID: input.InstructorID,
		Weekdays:     input.Weekdays,
		StartTime:    input.StartTime,
	})
	if err := result.Err(); err != nil {
		slog.Error("horario_create_failed", "failed_days", result.Failed(), "error", err.Error())
		return result, err
	}
	slog.Info("horario_created", "days", input.Weekdays, "start", input.StartTime)
	return result, nil
}
