package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/focus-go"
)

type fakeNow struct {
	t time.Time
}

func newFakeNow() *fakeNow {
	return &fakeNow{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeNow) Now() time.Time {
	return f.t
}

func (f *fakeNow) Tick(d time.Duration) {
	f.t = f.t.Add(d)
}

func TestClock_InitialState(t *testing.T) {
	c := New(nil)
	assert.True(t, c.Stopped())
	assert.False(t, c.Running())
	assert.False(t, c.Paused())
	assert.False(t, c.Started())
	assert.Equal(t, 0, c.CurrentElapsedSeconds())
	assert.Equal(t, 0, c.TotalElapsedSeconds())
	assert.Equal(t, "stopped", c.String())
}

func TestClock_Pause(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start() // t=0
	assert.True(t, c.Running())
	assert.True(t, c.Started())

	now.Tick(10 * time.Second) // t=10
	assert.Equal(t, 10, c.CurrentElapsedSeconds())
	assert.Equal(t, 10, c.TotalElapsedSeconds())
	assert.Equal(t, 0, c.CurrentPausedSeconds())
	assert.Equal(t, 0, c.TotalPausedSeconds())

	now.Tick(5 * time.Second) // t=15
	c.Stop()
	assert.True(t, c.Stopped())
	assert.Equal(t, 0, c.CurrentElapsedSeconds())
	assert.Equal(t, 15, c.TotalElapsedSeconds())

	now.Tick(8 * time.Second) // t=23
	assert.Equal(t, 0, c.TotalPausedSeconds())

	c.Start()
	now.Tick(2 * time.Second) // t=25
	assert.Equal(t, 2, c.CurrentElapsedSeconds())
	assert.Equal(t, 17, c.TotalElapsedSeconds())

	now.Tick(7 * time.Second) // t=32
	c.Pause()
	assert.True(t, c.Paused())
	assert.False(t, c.Running())
	assert.Equal(t, 9, c.CurrentElapsedSeconds())
	assert.Equal(t, 0, c.CurrentPausedSeconds())
	assert.Equal(t, 24, c.TotalElapsedSeconds(), "the pause lapse is bookkeeping, not elapsed time")
}

func TestClock_PauseDoesNotCount(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start()
	now.Tick(7 * time.Second)
	c.Pause()
	now.Tick(3 * time.Second)
	assert.Equal(t, 7, c.CurrentElapsedSeconds())
	assert.Equal(t, 3, c.CurrentPausedSeconds())

	c.Start() // resume at t=10
	assert.Equal(t, 7, c.CurrentElapsedSeconds())
	now.Tick(10 * time.Second)
	assert.Equal(t, 17, c.CurrentElapsedSeconds())

	c.Stop() // t=20
	assert.Equal(t, 17, c.TotalElapsedSeconds())
	assert.Equal(t, 17, c.CumulativeElapsedSeconds())
	assert.Equal(t, 3, c.TotalPausedSeconds())
}

func TestClock_ResumeKeepsRunStart(t *testing.T) {
	now := newFakeNow()
	start := now.Now()
	c := New(now.Now)

	c.Start()
	now.Tick(5 * time.Second)
	c.Pause()
	now.Tick(2 * time.Second)
	c.Start()
	now.Tick(3 * time.Second)
	c.Stop()

	runs := c.RunLapses()
	require.Len(t, runs, 2)
	assert.Equal(t, Lapse{Start: start, End: start.Add(5 * time.Second), Kind: focus.PauseLapse}, runs[0])
	assert.Equal(t, Lapse{Start: start, End: start.Add(10 * time.Second), Kind: focus.FocusLapse}, runs[1])

	pauses := c.PauseLapses()
	require.Len(t, pauses, 1)
	assert.Equal(t, Lapse{Start: start.Add(5 * time.Second), End: start.Add(7 * time.Second), Kind: focus.RestLapse}, pauses[0])
	assert.Equal(t, 8, c.TotalElapsedSeconds())
}

func TestClock_IdempotentTransitions(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Stop()
	c.Pause()
	assert.True(t, c.Stopped(), "stop and pause are no-ops while stopped")
	assert.Empty(t, c.RunLapses())

	c.Start()
	now.Tick(4 * time.Second)
	c.Start()
	assert.Equal(t, 4, c.CurrentElapsedSeconds(), "second start must not reset the run")

	c.Pause()
	now.Tick(3 * time.Second)
	c.Pause()
	assert.Len(t, c.RunLapses(), 1, "second pause must not record another lapse")
	assert.Equal(t, 3, c.CurrentPausedSeconds())
}

func TestClock_StopWhilePaused(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start()
	now.Tick(6 * time.Second)
	c.Pause()
	now.Tick(4 * time.Second)
	c.Stop()

	assert.True(t, c.Stopped())
	assert.False(t, c.Paused())
	assert.Equal(t, 6, c.TotalElapsedSeconds())
	assert.Equal(t, 4, c.TotalPausedSeconds(), "the open pause is closed on stop")

	runs := c.RunLapses()
	require.Len(t, runs, 2)
	assert.Equal(t, focus.RestLapse, runs[1].Kind)
}

func TestClock_RepeatedCyclesDoNotDoubleCount(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	for i := 0; i < 3; i++ {
		c.Start()
		now.Tick(10 * time.Second)
		c.Pause()
		now.Tick(5 * time.Second)
		c.Start()
		now.Tick(10 * time.Second)
		c.Stop()
		now.Tick(time.Minute)
	}

	assert.Equal(t, 60, c.CumulativeElapsedSeconds())
	assert.Equal(t, 60, c.TotalElapsedSeconds())
	assert.Equal(t, 15, c.TotalPausedSeconds())
}

func TestClock_PauseAtRunStartIsSubtracted(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start()
	c.Pause() // same instant as the run start
	now.Tick(5 * time.Second)
	c.Start()
	now.Tick(3 * time.Second)

	assert.Equal(t, 3, c.CurrentElapsedSeconds())
}

func TestClock_PausesOfEarlierRunsAreIgnored(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start()
	now.Tick(2 * time.Second)
	c.Pause()
	now.Tick(8 * time.Second)
	c.Start()
	c.Stop()

	c.Start()
	now.Tick(5 * time.Second)
	assert.Equal(t, 5, c.CurrentElapsedSeconds())
	assert.Equal(t, 7, c.TotalElapsedSeconds())
}

func TestClock_TruncatesSubSecondRemainders(t *testing.T) {
	now := newFakeNow()
	c := New(now.Now)

	c.Start()
	now.Tick(1900 * time.Millisecond)
	c.Pause()
	now.Tick(1900 * time.Millisecond)
	assert.Equal(t, 1, c.CurrentPausedSeconds())
	c.Start()
	now.Tick(1900 * time.Millisecond)

	// 5.7s since run start, 1s (truncated) of closed pause
	assert.Equal(t, 4, c.CurrentElapsedSeconds())
	c.Stop()
	assert.Equal(t, 4, c.TotalElapsedSeconds())
	assert.Equal(t, 1, c.TotalPausedSeconds())
}

func TestClock_ZeroInstantIsAValidStart(t *testing.T) {
	now := &fakeNow{}
	c := New(now.Now)

	c.Start() // t=0 is time.Time{}
	assert.True(t, c.Running())

	now.Tick(100 * time.Second)
	c.Pause()
	assert.True(t, c.Paused())
	now.Tick(50 * time.Second)
	c.Start()

	now.Tick(450 * time.Second) // t=600
	c.Stop()
	assert.True(t, c.Stopped())
	assert.Equal(t, 550, c.TotalElapsedSeconds())
	assert.Equal(t, 50, c.TotalPausedSeconds())
	require.Len(t, c.RunLapses(), 2)
	assert.True(t, c.RunLapses()[0].Start.IsZero())
}

func TestLapse_Seconds(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	l := Lapse{Start: start, End: start.Add(90*time.Second + 999*time.Millisecond), Kind: focus.FocusLapse}
	assert.Equal(t, 90, l.Seconds())
}

func TestFormatSeconds(t *testing.T) {
	testCases := []struct {
		in   int
		want string
	}{
		{in: 0, want: "00:00"},
		{in: 59, want: "00:59"},
		{in: 61, want: "01:01"},
		{in: 3725, want: "62:05"},
		{in: -90, want: "-01:30"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatSeconds(tc.in))
	}
}
