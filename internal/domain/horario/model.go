package horario

import (
	"errors"
	"strings"
	"time"

	"academia/internal/domain/timegrid"
)

// Weekday labels. These are the domain keys the calendar matches on, in their
// canonical accented form. An unaccented "MIERCOLES" is not a valid label.
const (
	Lunes     = "LUNES"
	Martes    = "MARTES"
	Miercoles = "MIÉRCOLES"
	Jueves    = "JUEVES"
	Viernes   = "VIERNES"
	Sabado    = "SÁBADO"
	Domingo   = "DOMINGO"
)

// ValidDays lists all weekday labels, Monday-first.
var ValidDays = []string{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

// Visual variant constants. Variants are a closed styling set with no
// behavioral effect.
const (
	VariantMuayThai   = "muaythai"
	VariantKickboxing = "kickboxing"
	VariantBoxeo      = "boxeo"
	VariantJiuJitsu   = "jiujitsu"
	VariantMMA        = "mma"
	VariantDefault    = "default"
)

// variantByDiscipline maps lowercased discipline names to their variant.
// Unknown names fall through to VariantDefault.
var variantByDiscipline = map[string]string{
	"muay thai":  VariantMuayThai,
	"muaythai":   VariantMuayThai,
	"kickboxing": VariantKickboxing,
	"boxeo":      VariantBoxeo,
	"jiu jitsu":  VariantJiuJitsu,
	"jiu-jitsu":  VariantJiuJitsu,
	"jiujitsu":   VariantJiuJitsu,
	"mma":        VariantMMA,
}

// DefaultDuration is the synthesized class length. The backend schema stores
// only a start timestamp, so both the listing normalization and the editor's
// end-time default derive the end from this single constant.
const DefaultDuration = time.Hour

// Domain errors
var (
	ErrInvalidDay        = errors.New("day must be one of the seven weekday labels")
	ErrEmptyStartTime    = errors.New("start time cannot be empty")
	ErrEmptyEndTime      = errors.New("end time cannot be empty")
	ErrEmptyDiscipline   = errors.New("discipline name cannot be empty")
)

// ClassEvent is a rendering-ready weekly class occurrence. The discipline and
// instructor ids ride along so the editor can prefill its pickers without a
// second fetch.
type ClassEvent struct {
	ID             string
	Day            string // one of ValidDays
	StartTime      string // HH:MM
	EndTime        string // HH:MM
	DisciplineID   int64
	DisciplineName string
	InstructorID   int64
	InstructorName string // optional
	Variant        string // derived via VariantFor
}

// TimeRange returns the "HH:MM - HH:MM" form consumed by the time grid.
func (e *ClassEvent) TimeRange() string {
	return e.StartTime + " - " + e.EndTime
}

// Validate checks if the ClassEvent has valid data.
// An event with an invalid Day is not an error at render time (the calendar
// silently drops it from every column) but it is rejected on the way in.
func (e *ClassEvent) Validate() error {
	if !IsValidDay(e.Day) {
		return ErrInvalidDay
	}
	if strings.TrimSpace(e.StartTime) == "" {
		return ErrEmptyStartTime
	}
	if strings.TrimSpace(e.EndTime) == "" {
		return ErrEmptyEndTime
	}
	if strings.TrimSpace(e.DisciplineName) == "" {
		return ErrEmptyDiscipline
	}
	return nil
}

// NormalizeDay uppercases a weekday label for matching. Accents survive
// (strings.ToUpper maps é to É), so "miércoles" normalizes to the canonical
// "MIÉRCOLES" while "miercoles" normalizes to a label that matches nothing.
func NormalizeDay(day string) string {
	return strings.ToUpper(strings.TrimSpace(day))
}

// IsValidDay reports whether day is one of the seven labels, ignoring case.
func IsValidDay(day string) bool {
	d := NormalizeDay(day)
	for _, v := range ValidDays {
		if d == v {
			return true
		}
	}
	return false
}

// DayLabelFor returns the weekday label for a calendar date.
func DayLabelFor(t time.Time) string {
	return ValidDays[timegrid.MondayIndex(t)]
}

// SameDay reports whether two labels refer to the same weekday,
// case-insensitively. Accented characters compare exactly.
func SameDay(a, b string) bool {
	return NormalizeDay(a) == NormalizeDay(b)
}

// VariantFor resolves the visual variant for a discipline name,
// case-insensitively. Unlisted disciplines get VariantDefault.
func VariantFor(disciplineName string) string {
	if v, ok := variantByDiscipline[strings.ToLower(strings.TrimSpace(disciplineName))]; ok {
		return v
	}
	return VariantDefault
}
