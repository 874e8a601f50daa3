package bedtime

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betterrest/internal/predictor"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 1, 2, h, m, 0, 0, time.UTC)
}

func TestWakeSeconds(t *testing.T) {
	cases := []struct {
		h, m int
		want float64
	}{
		{0, 0, 0},
		{7, 0, 25200},
		{7, 30, 27000},
		{23, 59, 86340},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%02d:%02d", tc.h, tc.m), func(t *testing.T) {
			assert.Equal(t, tc.want, WakeSeconds(clock(tc.h, tc.m)))
		})
	}
}

func TestWakeSeconds_IgnoresSecondsAndDate(t *testing.T) {
	a := time.Date(2001, 1, 1, 7, 30, 45, 999, time.UTC)
	b := time.Date(2030, 6, 15, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, WakeSeconds(a), WakeSeconds(b))
}

func TestEstimate_Example(t *testing.T) {
	fake := predictor.NewFake(8.2 * 3600)
	wake := clock(7, 0)

	bed, err := Estimate(wake, 8.0, 2, fake)
	require.NoError(t, err)

	assert.Equal(t, "22:48", FormatClock(bed))
	assert.Equal(t, -1, DayOffset(wake, bed))

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, predictor.Call{WakeSeconds: 25200, DesiredSleep: 8.0, Coffee: 2}, fake.Calls[0])
}

func TestEstimate_SubtractsPredictionExactly(t *testing.T) {
	for _, secs := range []float64{0, 60, 3600, 4 * 3600, 8*3600 + 900, 12 * 3600} {
		for _, wake := range []time.Time{clock(0, 0), clock(5, 45), clock(12, 0), clock(23, 59)} {
			bed, err := Estimate(wake, 8, 1, predictor.NewFake(secs))
			require.NoError(t, err)
			assert.Equal(t, time.Duration(secs)*time.Second, wake.Sub(bed), "wake %s secs %v", FormatClock(wake), secs)
		}
	}
}

func TestEstimate_SameDay(t *testing.T) {
	wake := clock(14, 0)
	bed, err := Estimate(wake, 6, 1, predictor.NewFake(6*3600))
	require.NoError(t, err)
	assert.Equal(t, "08:00", FormatClock(bed))
	assert.Equal(t, 0, DayOffset(wake, bed))
}

func TestEstimate_FailureCollapses(t *testing.T) {
	causes := []error{
		predictor.ErrUnavailable,
		errors.New("runtime fault"),
		fmt.Errorf("wrapped: %w", predictor.ErrUnavailable),
	}
	for _, cause := range causes {
		for _, coffee := range []int{1, 10, 20} {
			fake := &predictor.Fake{Err: cause}
			bed, err := Estimate(clock(7, 0), 8, coffee, fake)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPredictionFailed)
			assert.ErrorIs(t, err, cause)
			assert.True(t, bed.IsZero())
		}
	}
}

func TestEstimate_NilPredictor(t *testing.T) {
	_, err := Estimate(clock(7, 0), 8, 1, nil)
	assert.ErrorIs(t, err, ErrPredictionFailed)
	assert.ErrorIs(t, err, predictor.ErrUnavailable)
}

func TestEstimate_RejectsNonFinitePrediction(t *testing.T) {
	for _, secs := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Estimate(clock(7, 0), 8, 1, predictor.NewFake(secs))
		assert.ErrorIs(t, err, ErrPredictionFailed, "secs %v", secs)
	}
}

func TestEstimate_NegativePredictionIsAfterWake(t *testing.T) {
	wake := clock(7, 0)
	bed, err := Estimate(wake, 8, 1, predictor.NewFake(-1800))
	require.NoError(t, err)
	assert.Equal(t, "07:30", FormatClock(bed))
	assert.Equal(t, 30*time.Minute, bed.Sub(wake))
	assert.Equal(t, 0, DayOffset(wake, bed))
}

func TestEstimate_HugePredictionKeepsTimeOfDay(t *testing.T) {
	cases := []struct {
		secs float64
		want string
	}{
		// 1e10 mod 86400 = 64000s = 17:46:40
		{1e10, "13:13"},
		{-1e10, "00:46"},
		{86400, "07:00"},
		{86400 + 8*3600, "23:00"},
		{3 * 86400, "07:00"},
	}
	for _, tc := range cases {
		bed, err := Estimate(clock(7, 0), 8, 1, predictor.NewFake(tc.secs))
		require.NoError(t, err, "secs %v", tc.secs)
		assert.Equal(t, tc.want, FormatClock(bed), "secs %v", tc.secs)
	}
}

func TestEstimate_BoundariesPassThrough(t *testing.T) {
	fake := predictor.NewFake(3600)
	_, err := Estimate(clock(7, 0), 4.0, 1, fake)
	require.NoError(t, err)
	_, err = Estimate(clock(7, 0), 12.0, 20, fake)
	require.NoError(t, err)

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, 4.0, fake.Calls[0].DesiredSleep)
	assert.Equal(t, 12.0, fake.Calls[1].DesiredSleep)
	assert.Equal(t, 20.0, fake.Calls[1].Coffee)
}

func TestEstimate_Idempotent(t *testing.T) {
	fake := predictor.NewFake(7.75 * 3600)
	wake := clock(6, 15)

	first, err := Estimate(wake, 7.5, 3, fake)
	require.NoError(t, err)
	second, err := Estimate(wake, 7.5, 3, fake)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, fake.Calls[0], fake.Calls[1])
}

func TestEstimate_WithSampleModel(t *testing.T) {
	bed, err := Estimate(clock(7, 0), 8, 2, predictor.SampleModel())
	require.NoError(t, err)
	// 8h + 2 * 5m
	assert.Equal(t, "22:50", FormatClock(bed))
}

func TestDayOffset(t *testing.T) {
	wake := clock(7, 0)
	assert.Equal(t, 0, DayOffset(wake, clock(1, 0)))
	assert.Equal(t, -1, DayOffset(wake, wake.Add(-8*time.Hour)))
	assert.Equal(t, -1, DayOffset(clock(0, 0), clock(0, 0).Add(-time.Minute)))
}
