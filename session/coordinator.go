// Package session alternates a focus clock and a break clock, turning focused
// time into skill XP and break credit.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focus-go"
	"github.com/benjamonnguyen/focus-go/clock"
	"github.com/benjamonnguyen/focus-go/progression"
)

const DefaultFocusBreakRatio = 3

var ErrNoActiveSkill = errors.New("no active skill")

// XPGranter persists XP for a skill. *progression.Service satisfies it.
type XPGranter interface {
	GrantXP(ctx context.Context, id focus.SkillID, amount int) (progression.Skill, error)
}

// Recorder stores closed history segments. The sqlite history repo satisfies it.
type Recorder interface {
	InsertLapses(ctx context.Context, lapses ...focus.LapseRecord) (int, error)
}

type Config struct {
	FocusBreakRatio int
	Rates           progression.Rates
}

func ConfigFromSettings(s focus.Settings) Config {
	return Config{
		FocusBreakRatio: s.FocusBreakRatio,
		Rates:           progression.RatesFromSettings(s),
	}
}

// Settlement describes a closed focus or break interval.
type Settlement struct {
	FocusedSeconds  int
	XP              int
	CreditedSeconds int
	RestedSeconds   int
	DebitedSeconds  int
	Skill           *progression.Skill // set when XP was granted
}

// Coordinator is owned by a single goroutine; it does no locking.
type Coordinator struct {
	cfg      Config
	now      clock.NowFunc
	focus    *clock.Clock
	rest     *clock.Clock
	earned   int
	skill    focus.SkillID
	granter  XPGranter
	recorder Recorder
	l        *log.Logger

	segmentStart time.Time
	segmentKind  focus.LapseKind // empty when idle
}

// New returns an idle coordinator. granter is required and New panics
// without one. recorder, now and l may be nil: no history is recorded, the
// wall clock is read in UTC, and the default logger is used.
func New(cfg Config, granter XPGranter, recorder Recorder, now clock.NowFunc, l *log.Logger) *Coordinator {
	if granter == nil {
		panic("session: nil XPGranter")
	}
	if cfg.FocusBreakRatio <= 0 {
		cfg.FocusBreakRatio = DefaultFocusBreakRatio
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if l == nil {
		l = log.Default()
	}
	return &Coordinator{
		cfg:      cfg,
		now:      now,
		focus:    clock.New(now),
		rest:     clock.New(now),
		granter:  granter,
		recorder: recorder,
		l:        l,
	}
}

func (c *Coordinator) SetActiveSkill(id focus.SkillID) {
	c.skill = id
}

func (c *Coordinator) ActiveSkill() focus.SkillID {
	return c.skill
}

// EnterFocus debits the break taken so far and starts the focus clock.
// Resuming a paused focus clock keeps its run.
func (c *Coordinator) EnterFocus(ctx context.Context) Settlement {
	if c.focus.Running() {
		return Settlement{}
	}

	settled := c.settleRest()
	c.focus.Start()
	c.switchSegment(ctx, focus.FocusLapse)
	return settled
}

// EnterRest grants XP for the focus run, credits break time and starts the
// break clock. When the grant fails nothing changes.
func (c *Coordinator) EnterRest(ctx context.Context) (Settlement, error) {
	if c.rest.Running() {
		return Settlement{}, nil
	}

	settled, err := c.settleFocus(ctx)
	if err != nil {
		return Settlement{}, err
	}
	c.rest.Start()
	c.switchSegment(ctx, focus.RestLapse)
	return settled, nil
}

// End settles whichever interval is open and stops both clocks.
func (c *Coordinator) End(ctx context.Context) (Settlement, error) {
	settled, err := c.settleFocus(ctx)
	if err != nil {
		return Settlement{}, err
	}
	rested := c.settleRest()
	settled.RestedSeconds = rested.RestedSeconds
	settled.DebitedSeconds = rested.DebitedSeconds
	c.switchSegment(ctx, "")
	return settled, nil
}

func (c *Coordinator) Pause(ctx context.Context) {
	switch {
	case c.focus.Running():
		c.focus.Pause()
	case c.rest.Running():
		c.rest.Pause()
	default:
		return
	}
	c.switchSegment(ctx, focus.PauseLapse)
}

func (c *Coordinator) Unpause(ctx context.Context) {
	switch {
	case c.focus.Paused():
		c.focus.Start()
		c.switchSegment(ctx, focus.FocusLapse)
	case c.rest.Paused():
		c.rest.Start()
		c.switchSegment(ctx, focus.RestLapse)
	}
}

func (c *Coordinator) settleFocus(ctx context.Context) (Settlement, error) {
	if !c.focus.Started() {
		return Settlement{}, nil
	}

	elapsed := c.focus.CurrentElapsedSeconds()
	settled := Settlement{
		FocusedSeconds:  elapsed,
		XP:              progression.FocusXP(elapsed, c.cfg.Rates),
		CreditedSeconds: elapsed / c.cfg.FocusBreakRatio,
	}
	if settled.XP > 0 {
		if c.skill == "" {
			return Settlement{}, ErrNoActiveSkill
		}
		skill, err := c.granter.GrantXP(ctx, c.skill, settled.XP)
		if err != nil {
			return Settlement{}, fmt.Errorf("failed to settle focus: %w", err)
		}
		settled.Skill = &skill
	}

	c.earned += settled.CreditedSeconds
	c.focus.Stop()
	c.l.Debug("settled focus", "elapsed", elapsed, "xp", settled.XP, "credited", settled.CreditedSeconds, "earned", c.earned)
	return settled, nil
}

func (c *Coordinator) settleRest() Settlement {
	if !c.rest.Started() {
		return Settlement{}
	}

	elapsed := c.rest.CurrentElapsedSeconds()
	c.earned -= elapsed
	c.rest.Stop()
	c.l.Debug("settled rest", "elapsed", elapsed, "earned", c.earned)
	return Settlement{RestedSeconds: elapsed, DebitedSeconds: elapsed}
}

// switchSegment closes the open history segment and opens one of kind.
// Zero-length segments are dropped.
func (c *Coordinator) switchSegment(ctx context.Context, kind focus.LapseKind) {
	now := c.now()
	if c.segmentKind != "" && now.After(c.segmentStart) && c.recorder != nil {
		lapse := focus.LapseRecord{Start: c.segmentStart, End: now, Kind: c.segmentKind}
		if _, err := c.recorder.InsertLapses(ctx, lapse); err != nil {
			c.l.Error("failed to record history", "kind", lapse.Kind, "start", lapse.Start, "err", err)
		}
	}

	c.segmentKind = kind
	c.segmentStart = now
	if kind == "" {
		c.segmentStart = time.Time{}
	}
}

func (c *Coordinator) Focusing() bool {
	return c.focus.Running()
}

func (c *Coordinator) Resting() bool {
	return c.rest.Running()
}

func (c *Coordinator) Started() bool {
	return c.Focusing() || c.Resting()
}

func (c *Coordinator) Paused() bool {
	return c.focus.Paused() || c.rest.Paused()
}

// CurrentClockSeconds is the running clock's elapsed time, 0 when neither
// clock runs.
func (c *Coordinator) CurrentClockSeconds() int {
	switch {
	case c.focus.Running():
		return c.focus.CurrentElapsedSeconds()
	case c.rest.Running():
		return c.rest.CurrentElapsedSeconds()
	default:
		return 0
	}
}

// EarnedBreakSeconds is negative when more break was taken than earned.
func (c *Coordinator) EarnedBreakSeconds() int {
	return c.earned
}

// ProjectedBreakSeconds is the earned break as it would stand if the open
// interval were settled now.
func (c *Coordinator) ProjectedBreakSeconds() int {
	switch {
	case c.focus.Started():
		return c.earned + c.focus.CurrentElapsedSeconds()/c.cfg.FocusBreakRatio
	case c.rest.Started():
		return c.earned - c.rest.CurrentElapsedSeconds()
	default:
		return c.earned
	}
}

func (c *Coordinator) TotalFocusedSeconds() int {
	return c.focus.TotalElapsedSeconds()
}

func (c *Coordinator) TotalRestedSeconds() int {
	return c.rest.TotalElapsedSeconds()
}
