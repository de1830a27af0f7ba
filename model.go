package focus

import (
	"fmt"
	"strings"
	"time"
)

type (
	SkillID string
	StatID  string
	GoalID  string
)

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyProject Difficulty = "project"
)

// ParseDifficulty accepts any casing of a known difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyProject:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

type LapseKind string

const (
	FocusLapse LapseKind = "focus"
	RestLapse  LapseKind = "rest"
	PauseLapse LapseKind = "pause"
)

type StatRecord struct {
	Name  string
	Value int
}

type ExistingStatRecord struct {
	ExistingRecord[StatID]
	StatRecord
}

type SkillRecord struct {
	Name            string
	Level           int
	XP              int
	XPToNextLevel   int
	MainStatID      StatID
	SecondaryStatID StatID // empty when the skill has no secondary stat
}

type ExistingSkillRecord struct {
	ExistingRecord[SkillID]
	SkillRecord
}

type GoalRecord struct {
	Title            string
	Description      string
	Difficulty       Difficulty
	Completed        bool
	MainSkillID      SkillID
	SecondarySkillID SkillID // empty when the goal has no secondary skill
}

type ExistingGoalRecord struct {
	ExistingRecord[GoalID]
	GoalRecord
}

// LapseRecord is one closed history interval.
type LapseRecord struct {
	Start, End time.Time
	Kind       LapseKind
}

// DailyTotals sums history lapses that started on one UTC day, in seconds.
type DailyTotals struct {
	Date         time.Time
	FocusSeconds int
	RestSeconds  int
	PauseSeconds int
}

// Partial updates: nil fields are left untouched.

type StatUpdate struct {
	Value *int
}

type SkillUpdate struct {
	Name          *string
	Level         *int
	XP            *int
	XPToNextLevel *int
}

type GoalUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

func Ptr[T any](v T) *T {
	return &v
}
