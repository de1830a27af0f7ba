package focus

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type StatRepo interface {
	InsertStat(context.Context, StatRecord) (ExistingStatRecord, error)
	UpdateStat(context.Context, StatID, StatUpdate) (ExistingStatRecord, error)
	GetStat(context.Context, StatID) (ExistingStatRecord, error)
	GetStatByName(context.Context, string) (ExistingStatRecord, error)
	GetAllStats(context.Context) ([]ExistingStatRecord, error)
}

type SkillRepo interface {
	InsertSkill(context.Context, SkillRecord) (ExistingSkillRecord, error)
	UpdateSkill(context.Context, SkillID, SkillUpdate) (ExistingSkillRecord, error)
	GetSkill(context.Context, SkillID) (ExistingSkillRecord, error)
	GetSkillByName(context.Context, string) (ExistingSkillRecord, error)
	GetAllSkills(context.Context) ([]ExistingSkillRecord, error)
}

type GoalRepo interface {
	InsertGoal(context.Context, GoalRecord) (ExistingGoalRecord, error)
	UpdateGoal(context.Context, GoalID, GoalUpdate) (ExistingGoalRecord, error)
	GetGoal(context.Context, GoalID) (ExistingGoalRecord, error)
	GetAllGoals(context.Context) ([]ExistingGoalRecord, error)
}

type HistoryRepo interface {
	// InsertLapses skips lapses whose start collides with an existing entry.
	InsertLapses(context.Context, ...LapseRecord) (int, error)
	GetLapses(ctx context.Context, from, to time.Time) ([]LapseRecord, error)
	GetDailyTotals(ctx context.Context, day time.Time) (DailyTotals, error)
}
