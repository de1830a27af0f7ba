// Package progression turns earned XP into skill levels and stat growth.
package progression

import (
	"errors"
	"fmt"

	"github.com/benjamonnguyen/focus-go"
)

const (
	MainStatIncrease      = 2
	SecondaryStatIncrease = 1
)

var ErrInvalidArgument = errors.New("invalid argument")

var exchange = map[focus.Difficulty]int{
	focus.DifficultyEasy:    10,
	focus.DifficultyMedium:  100,
	focus.DifficultyHard:    400,
	focus.DifficultyProject: 1000,
}

// ExchangeRate is the XP awarded for completing a goal of difficulty d.
func ExchangeRate(d focus.Difficulty) (int, error) {
	xp, ok := exchange[d]
	if !ok {
		return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidArgument, d)
	}
	return xp, nil
}

// NextThreshold grows a level threshold by 1.5x, floored.
func NextThreshold(xpToNextLevel int) int {
	return xpToNextLevel * 3 / 2
}

// GrantXP adds amount to skill and levels it up as many times as the XP
// allows. Each threshold compounds from the previous one. On error the
// skill is left untouched.
func GrantXP(skill *Skill, amount int) ([]Event, error) {
	if err := validateSkill(skill); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: xp amount %d is negative", ErrInvalidArgument, amount)
	}

	skill.XP += amount
	evs := []Event{XPGained{Skill: skill.State(), Amount: amount}}

	for skill.XP >= skill.XPToNextLevel {
		skill.Level++
		skill.XP -= skill.XPToNextLevel
		skill.XPToNextLevel = NextThreshold(skill.XPToNextLevel)

		skill.MainStat.Value += MainStatIncrease
		if skill.SecondaryStat != nil {
			skill.SecondaryStat.Value += SecondaryStatIncrease
		}

		evs = append(evs, LevelGained{Skill: skill.State()})
	}

	return evs, nil
}

// CompleteGoal marks goal completed and grants its exchange XP: the full
// rate to the main skill, half (floored) to the secondary skill. It returns
// false with no events when the goal was already completed.
func CompleteGoal(goal *Goal) ([]Event, bool, error) {
	if goal == nil {
		return nil, false, fmt.Errorf("%w: nil goal", ErrInvalidArgument)
	}
	if goal.Completed {
		return nil, false, nil
	}

	xp, err := ExchangeRate(goal.Difficulty)
	if err != nil {
		return nil, false, err
	}
	if err := validateSkill(goal.MainSkill); err != nil {
		return nil, false, fmt.Errorf("main skill: %w", err)
	}
	if goal.SecondarySkill != nil {
		if err := validateSkill(goal.SecondarySkill); err != nil {
			return nil, false, fmt.Errorf("secondary skill: %w", err)
		}
	}

	goal.Completed = true

	evs, err := GrantXP(goal.MainSkill, xp)
	if err != nil {
		return nil, false, err
	}
	if goal.SecondarySkill != nil {
		secondaryEvs, err := GrantXP(goal.SecondarySkill, xp/2)
		if err != nil {
			return nil, false, err
		}
		evs = append(evs, secondaryEvs...)
	}

	evs = append(evs, GoalCompleted{Goal: goal.State()})
	return evs, true, nil
}

func validateSkill(skill *Skill) error {
	switch {
	case skill == nil:
		return fmt.Errorf("%w: nil skill", ErrInvalidArgument)
	case skill.MainStat == nil:
		return fmt.Errorf("%w: skill %q has no main stat", ErrInvalidArgument, skill.Name)
	case skill.XPToNextLevel < 1:
		return fmt.Errorf("%w: skill %q has xp to next level %d", ErrInvalidArgument, skill.Name, skill.XPToNextLevel)
	}
	return nil
}

// Rates converts focused seconds to XP: BaseXP per BlockSeconds, at most Cap.
type Rates struct {
	BaseXP       int
	BlockSeconds int
	Cap          int // non-positive means uncapped
}

func DefaultRates() Rates {
	return Rates{BaseXP: 10, BlockSeconds: 25 * 60, Cap: 15}
}

func RatesFromSettings(s focus.Settings) Rates {
	return Rates{BaseXP: s.BaseXPPerPomodoro, BlockSeconds: s.PomodoroBlockSeconds, Cap: s.XPCap}
}

func FocusXP(elapsedSeconds int, r Rates) int {
	if elapsedSeconds <= 0 || r.BlockSeconds <= 0 {
		return 0
	}
	xp := r.BaseXP * elapsedSeconds / r.BlockSeconds
	if r.Cap > 0 {
		xp = min(xp, r.Cap)
	}
	return xp
}
