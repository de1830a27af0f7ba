// Package clock tracks focused, rest and paused time as closed intervals.
package clock

import (
	"fmt"
	"time"

	"github.com/benjamonnguyen/focus-go"
)

// NowFunc is the clock source. Tests inject a controllable one.
type NowFunc func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// Lapse is a closed interval. Lapses are never mutated after creation.
type Lapse struct {
	Start, End time.Time
	Kind       focus.LapseKind
}

// Seconds is the lapse duration truncated to whole seconds.
func (l Lapse) Seconds() int {
	return seconds(l.End.Sub(l.Start))
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// Clock is a stopped/running/paused state machine. Invalid transitions are
// no-ops. A Clock is owned by one session and is not safe for concurrent use.
type Clock struct {
	now NowFunc

	runStart   *time.Time // nil when stopped
	pauseStart *time.Time // nil unless paused

	runLapses   []Lapse
	pauseLapses []Lapse

	// index into pauseLapses of the first pause belonging to the current run
	runPauseMark int

	cumulativeElapsed int
}

// New returns a stopped clock. A nil now reads wall-clock UTC.
func New(now NowFunc) *Clock {
	if now == nil {
		now = utcNow
	}
	return &Clock{now: now}
}

func (c *Clock) Stopped() bool {
	return c.runStart == nil
}

func (c *Clock) Paused() bool {
	return c.pauseStart != nil
}

func (c *Clock) Running() bool {
	return !c.Stopped() && !c.Paused()
}

// Started reports running or paused.
func (c *Clock) Started() bool {
	return !c.Stopped()
}

// Start begins a run when stopped and resumes when paused. Resuming keeps
// the original run start; the closed pause is recorded as a rest lapse.
func (c *Clock) Start() {
	if c.Running() {
		return
	}

	now := c.now()
	if c.Stopped() {
		c.runStart = &now
		c.runPauseMark = len(c.pauseLapses)
		return
	}

	c.closePause(now)
}

// Stop closes the current run and adds its net elapsed seconds to the
// cumulative total. Only the closing run is added, so repeated
// start/stop cycles never count a run twice.
func (c *Clock) Stop() {
	if c.Stopped() {
		return
	}

	now := c.now()
	net := c.elapsedAt(now)

	kind := focus.FocusLapse
	if c.Paused() {
		kind = focus.RestLapse
	}
	c.runLapses = append(c.runLapses, Lapse{Start: *c.runStart, End: now, Kind: kind})
	if c.Paused() {
		c.closePause(now)
	}

	c.cumulativeElapsed += net
	c.runStart = nil
	c.pauseStart = nil
}

// Pause records the run so far as a pause lapse and freezes elapsed time.
func (c *Clock) Pause() {
	if !c.Running() {
		return
	}

	now := c.now()
	c.runLapses = append(c.runLapses, Lapse{Start: *c.runStart, End: now, Kind: focus.PauseLapse})
	c.pauseStart = &now
}

func (c *Clock) closePause(now time.Time) {
	c.pauseLapses = append(c.pauseLapses, Lapse{Start: *c.pauseStart, End: now, Kind: focus.RestLapse})
	c.pauseStart = nil
}

// CurrentElapsedSeconds is the current run's elapsed time net of its pauses.
func (c *Clock) CurrentElapsedSeconds() int {
	return c.elapsedAt(c.now())
}

func (c *Clock) elapsedAt(now time.Time) int {
	if c.Stopped() {
		return 0
	}

	elapsed := seconds(now.Sub(*c.runStart))
	for _, l := range c.pauseLapses[c.runPauseMark:] {
		elapsed -= l.Seconds()
	}
	if c.Paused() {
		elapsed -= seconds(now.Sub(*c.pauseStart))
	}
	return elapsed
}

// CurrentPausedSeconds is the length of the open pause, 0 unless paused.
func (c *Clock) CurrentPausedSeconds() int {
	if !c.Paused() {
		return 0
	}
	return seconds(c.now().Sub(*c.pauseStart))
}

// TotalElapsedSeconds is the net elapsed time of every closed run plus the
// current one. Paused time is never included.
func (c *Clock) TotalElapsedSeconds() int {
	return c.CurrentElapsedSeconds() + c.cumulativeElapsed
}

func (c *Clock) TotalPausedSeconds() int {
	total := c.CurrentPausedSeconds()
	for _, l := range c.pauseLapses {
		total += l.Seconds()
	}
	return total
}

// CumulativeElapsedSeconds is the net elapsed time of closed runs only.
func (c *Clock) CumulativeElapsedSeconds() int {
	return c.cumulativeElapsed
}

func (c *Clock) RunLapses() []Lapse {
	return append([]Lapse(nil), c.runLapses...)
}

func (c *Clock) PauseLapses() []Lapse {
	return append([]Lapse(nil), c.pauseLapses...)
}

func (c *Clock) String() string {
	switch {
	case c.Paused():
		return "paused"
	case c.Running():
		return "running"
	default:
		return "stopped"
	}
}

// FormatSeconds renders seconds as MM:SS. Minutes are not capped at 60 and
// negative values keep their sign.
func FormatSeconds(s int) string {
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	return fmt.Sprintf("%s%02d:%02d", sign, s/60, s%60)
}
