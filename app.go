package main

import (
	"errors"
	"log/slog"
	"time"

	"betterrest/internal/form"
	"betterrest/internal/notify"
	"betterrest/internal/predictor"
)

// errCalculation is returned by the CLI after the failure message was printed.
var errCalculation = errors.New("bedtime calculation failed")

// app wires the form to its collaborators. Each calculation gets a fresh
// form.State, so app holds nothing that changes between requests.
type app struct {
	predictor predictor.Predictor
	publisher notify.Publisher
	now       func() time.Time
}

// newState fills a new form with the inputs, clamped by the form controls.
func (a *app) newState(hour, minute int, sleepH float64, coffee int) *form.State {
	st := form.New(a.now())
	if err := st.SetWakeClock(hour, minute); err != nil {
		slog.Warn("keeping default wake time", "err", err)
	}
	st.SetSleepAmount(sleepH)
	st.SetCoffeeAmount(coffee)
	return st
}

// calculate runs the estimator on fresh inputs and publishes the outcome.
func (a *app) calculate(hour, minute int, sleepH float64, coffee int) (*form.State, form.Result) {
	st := a.newState(hour, minute, sleepH, coffee)
	return st, a.submit(st)
}

// preview runs the estimator without publishing. Used to render result pages.
func (a *app) preview(hour, minute int, sleepH float64, coffee int) (*form.State, form.Result) {
	st := a.newState(hour, minute, sleepH, coffee)
	return st, st.Calculate(a.predictor)
}

// submit calculates st and publishes the outcome.
func (a *app) submit(st *form.State) form.Result {
	res := st.Calculate(a.predictor)

	if a.publisher != nil {
		ev := notify.NewEvent(a.now(), res.Wake, res.Bedtime, st.SleepAmount(), st.CoffeeAmount(), res.OK())
		if err := a.publisher.Publish(ev); err != nil {
			slog.Warn("publish result", "err", err)
		}
	}
	return res
}
