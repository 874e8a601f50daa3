// Package bedtime computes the ideal bedtime from a wake time and a sleep-need
// prediction. It has no clock or I/O of its own: the wake time and the
// predictor are always supplied by the caller.
package bedtime

import (
	"errors"
	"fmt"
	"math"
	"time"

	"betterrest/internal/predictor"
)

// ErrPredictionFailed collapses every predictor failure into one kind.
var ErrPredictionFailed = errors.New("bedtime: prediction failed")

// ClockLayout is the display format for times of day.
const ClockLayout = "15:04"

// WakeSeconds returns t as seconds past midnight. Only the hour and minute
// are used.
func WakeSeconds(t time.Time) float64 {
	return float64(t.Hour()*3600 + t.Minute()*60)
}

// Estimate returns wake minus the predicted sleep need. sleepAmount and
// coffee are passed to the predictor as given; clamping is the form's job.
func Estimate(wake time.Time, sleepAmount float64, coffee int, p predictor.Predictor) (time.Time, error) {
	if p == nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrPredictionFailed, predictor.ErrUnavailable)
	}

	secs, err := p.PredictSleepNeed(WakeSeconds(wake), sleepAmount, float64(coffee))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("%w: invalid sleep need %v", ErrPredictionFailed, secs)
	}

	// A negative need puts the bedtime after the wake time.
	return wake.Add(-secondsToDuration(secs)), nil
}

// secondsPerDay bounds the subtracted duration. Only the time of day of the
// result is shown, so whole days are dropped before converting.
const secondsPerDay = 24 * 60 * 60

// secondsToDuration reduces secs modulo one day, keeping its sign, and rounds
// to the nearest nanosecond.
func secondsToDuration(secs float64) time.Duration {
	secs = math.Mod(secs, secondsPerDay)
	return time.Duration(math.Round(secs * float64(time.Second)))
}

// FormatClock renders t as a 24h time of day.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// DayOffset returns the number of calendar days from wake to bed
// (0 for the same day, -1 for the previous day).
func DayOffset(wake, bed time.Time) int {
	wy, wm, wd := wake.Date()
	by, bm, bd := bed.Date()
	w := time.Date(wy, wm, wd, 0, 0, 0, 0, time.UTC)
	b := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(w).Hours() / 24)
}
