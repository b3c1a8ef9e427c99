package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveTimer_ElapsedExcludesPauses(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	timer := ActiveTimer{StartedAt: start}

	assert.Equal(t, TimerStateRunning, timer.State())
	assert.Equal(t, 10*time.Minute, timer.Elapsed(start.Add(10*time.Minute)))

	timer.Pause(start.Add(10 * time.Minute))
	assert.Equal(t, TimerStatePaused, timer.State())

	// Elapsed is frozen while paused.
	assert.Equal(t, 10*time.Minute, timer.Elapsed(start.Add(25*time.Minute)))

	timer.Resume(start.Add(30 * time.Minute))
	assert.Equal(t, TimerStateRunning, timer.State())
	assert.Equal(t, int64(20*60), timer.PausedSeconds)

	// 40 minutes wall clock minus the 20-minute pause.
	assert.Equal(t, 20*time.Minute, timer.Elapsed(start.Add(40*time.Minute)))
}

func TestActiveTimer_DoublePauseAndResumeAreNoOps(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	timer := ActiveTimer{StartedAt: start}

	timer.Resume(start.Add(time.Minute))
	assert.Equal(t, int64(0), timer.PausedSeconds)

	timer.Pause(start.Add(5 * time.Minute))
	firstPause := *timer.PausedAt
	timer.Pause(start.Add(8 * time.Minute))
	assert.Equal(t, firstPause, *timer.PausedAt)
}

func TestActiveTimer_ElapsedNeverNegative(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	timer := ActiveTimer{StartedAt: start, PausedSeconds: 3600}

	assert.Equal(t, time.Duration(0), timer.Elapsed(start.Add(10*time.Minute)))
}
