package predictor

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleModel_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "sleep.json")
	require.NoError(t, WriteSample(path))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SampleModel(), m)
}

func TestModel_Predict(t *testing.T) {
	m := &Model{
		Coefficients: map[string]float64{
			FeatureWake:           0.01,
			FeatureEstimatedSleep: 3000,
			FeatureCoffee:         -120,
		},
		Intercept: 1000,
	}
	got, err := m.PredictSleepNeed(25200, 8, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1000+252+24000-240, got, 1e-9)
}

func TestModel_MissingFeatureIsZero(t *testing.T) {
	m := &Model{Coefficients: map[string]float64{FeatureEstimatedSleep: 3600}}
	got, err := m.PredictSleepNeed(25200, 7.5, 20)
	require.NoError(t, err)
	assert.InDelta(t, 27000.0, got, 1e-9)
}

func TestModel_NilReceiver(t *testing.T) {
	var m *Model
	_, err := m.PredictSleepNeed(0, 8, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrUnavailable)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"intercept": 5}`), 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLazy_RetriesAfterFailedLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleep.json")
	l := NewLazy(path)

	_, err := l.PredictSleepNeed(25200, 8, 1)
	require.ErrorIs(t, err, ErrUnavailable)

	require.NoError(t, WriteSample(path))
	got, err := l.PredictSleepNeed(25200, 8, 1)
	require.NoError(t, err)
	assert.InDelta(t, 8*3600+300.0, got, 1e-9)
}

func TestLazy_NoPath(t *testing.T) {
	_, err := NewLazy("").PredictSleepNeed(0, 8, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLazy_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleep.json")
	require.NoError(t, WriteSample(path))
	l := NewLazy(path)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(coffee float64) {
			defer wg.Done()
			got, err := l.PredictSleepNeed(0, 8, coffee)
			assert.NoError(t, err)
			assert.InDelta(t, 8*3600+coffee*300, got, 1e-9)
		}(float64(i + 1))
	}
	wg.Wait()
}

func TestFake(t *testing.T) {
	f := NewFake(100)
	got, err := f.PredictSleepNeed(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	f.Err = ErrUnavailable
	_, err = f.PredictSleepNeed(4, 5, 6)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, []Call{{1, 2, 3}, {4, 5, 6}}, f.Calls)
}
