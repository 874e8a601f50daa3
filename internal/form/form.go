// Package form holds the editable bedtime inputs and the alert shown after a
// calculation.
package form

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"betterrest/internal/bedtime"
	"betterrest/internal/predictor"
)

// Input ranges.
const (
	MinSleep  = 4.0
	MaxSleep  = 12.0
	SleepStep = 0.25

	MinCoffee = 1
	MaxCoffee = 20

	DefaultSleep  = 8.0
	DefaultCoffee = 1

	DefaultWakeHour   = 7
	DefaultWakeMinute = 0
)

// Alert titles and messages.
const (
	TitleSuccess   = "Your ideal bedtime is"
	TitleFailure   = "Error"
	MessageFailure = "Sorry, there was a problem calculating your bedtime."
)

// Alert is the result slot rendered by the presentation layer.
type Alert struct {
	Title     string
	Message   string
	Presented bool
}

// Result is the outcome of one Calculate call.
type Result struct {
	Wake    time.Time
	Bedtime time.Time // zero on failure
	Err     error
}

// OK reports whether the calculation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// State owns the three inputs and the alert.
type State struct {
	wakeUp       time.Time
	sleepAmount  float64
	coffeeAmount int

	Alert Alert
}

// DefaultWakeTime returns 07:00 on the day of now.
func DefaultWakeTime(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, DefaultWakeHour, DefaultWakeMinute, 0, 0, now.Location())
}

// New returns a State with default inputs. now only provides the date and
// location for the default wake time.
func New(now time.Time) *State {
	return &State{
		wakeUp:       DefaultWakeTime(now),
		sleepAmount:  DefaultSleep,
		coffeeAmount: DefaultCoffee,
	}
}

// WakeUp returns the wake time.
func (s *State) WakeUp() time.Time { return s.wakeUp }

// SleepAmount returns the desired sleep in hours.
func (s *State) SleepAmount() float64 { return s.sleepAmount }

// CoffeeAmount returns the cups of coffee per day.
func (s *State) CoffeeAmount() int { return s.coffeeAmount }

// SetWakeUp keeps the date of the current wake time and takes the hour and
// minute from t.
func (s *State) SetWakeUp(t time.Time) {
	y, m, d := s.wakeUp.Date()
	s.wakeUp = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, s.wakeUp.Location())
}

// SetWakeClock sets the wake time from an hour and minute.
func (s *State) SetWakeClock(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid wake time %02d:%02d", hour, minute)
	}
	s.SetWakeUp(time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC))
	return nil
}

// SetSleepAmount clamps h to [MinSleep, MaxSleep] and snaps it to SleepStep.
func (s *State) SetSleepAmount(h float64) {
	s.sleepAmount = ClampSleep(h)
}

// SetCoffeeAmount clamps n to [MinCoffee, MaxCoffee].
func (s *State) SetCoffeeAmount(n int) {
	s.coffeeAmount = ClampCoffee(n)
}

// Stepper controls.
func (s *State) IncrementSleep()  { s.SetSleepAmount(s.sleepAmount + SleepStep) }
func (s *State) DecrementSleep()  { s.SetSleepAmount(s.sleepAmount - SleepStep) }
func (s *State) IncrementCoffee() { s.SetCoffeeAmount(s.coffeeAmount + 1) }
func (s *State) DecrementCoffee() { s.SetCoffeeAmount(s.coffeeAmount - 1) }

// ClampSleep restricts h to the sleep range and step. NaN maps to the default.
func ClampSleep(h float64) float64 {
	if math.IsNaN(h) {
		return DefaultSleep
	}
	h = math.Round(h/SleepStep) * SleepStep
	return math.Max(MinSleep, math.Min(MaxSleep, h))
}

// ClampCoffee restricts n to the coffee range.
func ClampCoffee(n int) int {
	if n < MinCoffee {
		return MinCoffee
	}
	if n > MaxCoffee {
		return MaxCoffee
	}
	return n
}

// Calculate runs the estimator on the current inputs and overwrites the alert.
// The failure cause is logged; the alert only carries the generic message.
func (s *State) Calculate(p predictor.Predictor) Result {
	bed, err := bedtime.Estimate(s.wakeUp, s.sleepAmount, s.coffeeAmount, p)
	if err != nil {
		slog.Warn("bedtime calculation failed", "err", err,
			"wake", bedtime.FormatClock(s.wakeUp), "sleep", s.sleepAmount, "coffee", s.coffeeAmount)
		s.Alert = Alert{Title: TitleFailure, Message: MessageFailure, Presented: true}
		return Result{Wake: s.wakeUp, Err: err}
	}

	s.Alert = Alert{Title: TitleSuccess, Message: bedtime.FormatClock(bed), Presented: true}
	return Result{Wake: s.wakeUp, Bedtime: bed}
}

// Dismiss hides the alert.
func (s *State) Dismiss() {
	s.Alert.Presented = false
}

// SleepLabel renders the sleep amount, e.g. "8 hours" or "7.25 hours".
func (s *State) SleepLabel() string {
	return strconv.FormatFloat(s.sleepAmount, 'f', -1, 64) + " hours"
}

// CoffeeLabel renders the coffee amount with a pluralized unit.
func (s *State) CoffeeLabel() string {
	if s.coffeeAmount == 1 {
		return "1 cup"
	}
	return fmt.Sprintf("%d cups", s.coffeeAmount)
}

// IsNightTime reports whether now falls between 22:00 and 08:00.
func IsNightTime(now time.Time) bool {
	h := now.Hour()
	return h >= 22 || h < 8
}
