package predictor

// Call records the arguments of one PredictSleepNeed call.
type Call struct {
	WakeSeconds  float64
	DesiredSleep float64
	Coffee       float64
}

// Fake is a test double that returns a scripted prediction.
type Fake struct {
	// Seconds is returned by every successful call.
	Seconds float64

	// Err, if set, is returned instead of a prediction.
	Err error

	// Calls contains the arguments of every call, in order.
	Calls []Call
}

// NewFake creates a Fake that always predicts the given number of seconds.
func NewFake(seconds float64) *Fake {
	return &Fake{Seconds: seconds}
}

// PredictSleepNeed records the call and returns the scripted result.
func (f *Fake) PredictSleepNeed(wakeSeconds, desiredSleep, coffee float64) (float64, error) {
	f.Calls = append(f.Calls, Call{WakeSeconds: wakeSeconds, DesiredSleep: desiredSleep, Coffee: coffee})
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Seconds, nil
}
