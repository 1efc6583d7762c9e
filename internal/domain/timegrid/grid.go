package timegrid

import (
	"fmt"
	"strings"
)

// Config describes the visible window and granularity of a calendar grid.
// It is fixed at construction; a calendar never changes its grid at runtime.
type Config struct {
	StartHour    int // first visible hour (inclusive)
	EndHour      int // last visible hour (inclusive)
	SlotsPerHour int // grid granularity (2 = 30-minute slots)
}

// DefaultConfig returns the grid used by the class calendar:
// 08:00–22:00 in 30-minute slots.
func DefaultConfig() Config {
	return Config{StartHour: 8, EndHour: 22, SlotsPerHour: 2}
}

// TotalSlots returns the number of addressable slots in the grid.
func (c Config) TotalSlots() int {
	return (c.EndHour - c.StartHour + 1) * c.SlotsPerHour
}

// GridRow converts a wall-clock time "HH:MM" into a 1-based slot index.
// Times before StartHour clamp to slot 1: a class starting earlier than the
// visible window is compressed to the top edge rather than hidden. This is a
// known visual approximation.
// PRE: t is "HH:MM", 00 <= HH <= 23, 00 <= MM <= 59. Malformed input is a
// caller error and is not defended against here.
func (c Config) GridRow(t string) int {
	h, m := clock(t)
	if h < c.StartHour {
		return 1
	}
	return (h-c.StartHour)*c.SlotsPerHour + m/(60/c.SlotsPerHour) + 1
}

// DurationSlots returns the number of slots spanned by a "HH:MM - HH:MM"
// range. Zero or negative results are valid: callers must render non-positive
// spans as zero height, not treat them as errors.
func (c Config) DurationSlots(timeRange string) int {
	start, end, ok := SplitRange(timeRange)
	if !ok {
		return 0
	}
	return c.GridRow(end) - c.GridRow(start)
}

// TopPercent returns the vertical offset of a start time as a percentage of
// the full grid height.
func (c Config) TopPercent(start string) float64 {
	return float64(c.GridRow(start)-1) / float64(c.TotalSlots()) * 100
}

// HeightPercent returns the height of a time range as a percentage of the
// full grid height. Non-positive spans collapse to 0.
func (c Config) HeightPercent(timeRange string) float64 {
	d := c.DurationSlots(timeRange)
	if d < 0 {
		d = 0
	}
	return float64(d) / float64(c.TotalSlots()) * 100
}

// HourLabels returns the gutter labels of the visible window, one per hour.
func (c Config) HourLabels() []string {
	labels := make([]string, 0, c.EndHour-c.StartHour+1)
	for h := c.StartHour; h <= c.EndHour; h++ {
		labels = append(labels, MinutesToClock(h*60))
	}
	return labels
}

// MinutesToClock formats minutes since midnight as "HH:MM".
func MinutesToClock(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// SplitRange splits "HH:MM - HH:MM" into its start and end times.
func SplitRange(timeRange string) (start, end string, ok bool) {
	start, end, ok = strings.Cut(timeRange, " - ")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), true
}

// clock reads "HH:MM" by digit position, the same trick the grid uses
// everywhere: no allocation, no time.Parse.
func clock(t string) (h, m int) {
	h = int(t[0]-'0')*10 + int(t[1]-'0')
	m = int(t[3]-'0')*10 + int(t[4]-'0')
	return h, m
}
