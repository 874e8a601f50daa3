package predictor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// Model is a linear regression over the three form features.
// The prediction is in seconds.
type Model struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Version      string             `json:"version,omitempty"`
}

// Load reads a model artifact from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read model file: %w", ErrUnavailable, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: unmarshal model: %w", ErrUnavailable, err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: model %s has no coefficients", ErrUnavailable, path)
	}

	slog.Debug("loaded model", "path", path, "version", m.Version, "intercept", m.Intercept)
	return &m, nil
}

// PredictSleepNeed evaluates the regression.
func (m *Model) PredictSleepNeed(wakeSeconds, desiredSleep, coffee float64) (float64, error) {
	if m == nil {
		return 0, fmt.Errorf("%w: nil model", ErrUnavailable)
	}

	score := m.Intercept
	score += m.Coefficients[FeatureWake] * wakeSeconds
	score += m.Coefficients[FeatureEstimatedSleep] * desiredSleep
	score += m.Coefficients[FeatureCoffee] * coffee

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite prediction", ErrUnavailable)
	}
	return score, nil
}

// SampleModel returns the model written by WriteSample.
// Each hour of desired sleep costs an hour and each cup adds five minutes.
func SampleModel() *Model {
	return &Model{
		Coefficients: map[string]float64{
			FeatureWake:           0,
			FeatureEstimatedSleep: 3600,
			FeatureCoffee:         300,
		},
		Intercept: 0,
		Version:   "sample-1",
	}
}

// WriteSample writes SampleModel to path, creating parent directories.
func WriteSample(path string) error {
	data, err := json.MarshalIndent(SampleModel(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// Lazy loads the model from disk on first use. A failed load is not cached,
// so a model file that appears later is picked up by the next call.
type Lazy struct {
	path string

	mu    sync.Mutex
	model *Model
}

// NewLazy returns a Lazy predictor for the artifact at path.
func NewLazy(path string) *Lazy {
	return &Lazy{path: path}
}

// PredictSleepNeed loads the model if needed and evaluates it.
func (l *Lazy) PredictSleepNeed(wakeSeconds, desiredSleep, coffee float64) (float64, error) {
	m, err := l.load()
	if err != nil {
		return 0, err
	}
	return m.PredictSleepNeed(wakeSeconds, desiredSleep, coffee)
}

func (l *Lazy) load() (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}
	if l.path == "" {
		return nil, fmt.Errorf("%w: no model path configured", ErrUnavailable)
	}
	m, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.model = m
	return m, nil
}
