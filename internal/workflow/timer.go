package workflow

import (
	"time"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/models"
)

// DurationMinutes is the span between start and end in fractional minutes,
// clamped at zero when the clock went backwards.
func DurationMinutes(start, end time.Time) float64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return d.Minutes()
}

// TotalMinutes sums the durations of closed sessions. Open sessions and
// sessions without a recorded duration are skipped.
func TotalMinutes(sessions []models.TimerSession) float64 {
	var total float64
	for _, s := range sessions {
		if s.EndedAt == nil || s.DurationMinutes == nil {
			continue
		}
		total += *s.DurationMinutes
	}
	return total
}
