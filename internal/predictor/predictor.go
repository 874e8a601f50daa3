// Package predictor provides the sleep-need prediction capability used by the
// bedtime estimator. The real implementation evaluates a linear regression
// model loaded from a JSON artifact. The fake implementation allows testing
// without a model file.
package predictor

import "errors"

// ErrUnavailable is returned when the model cannot be loaded or evaluated.
var ErrUnavailable = errors.New("predictor: model unavailable")

// Predictor maps (wake time, desired sleep, coffee) to the sleep actually
// needed.
type Predictor interface {
	// PredictSleepNeed returns the required sleep in seconds.
	// wakeSeconds is the wake time as seconds past midnight, desiredSleep is
	// in hours and coffee is the number of cups per day.
	PredictSleepNeed(wakeSeconds, desiredSleep, coffee float64) (float64, error)
}

// Feature names used in model artifacts.
const (
	FeatureWake           = "wake"
	FeatureEstimatedSleep = "estimatedSleep"
	FeatureCoffee         = "coffee"
)
