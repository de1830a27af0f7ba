package progression

import "github.com/benjamonnguyen/focus-go/events"

const (
	XPGainedKind      events.Kind = "xp_gained"
	LevelGainedKind   events.Kind = "level_gained"
	GoalCompletedKind events.Kind = "goal_completed"
)

// Event payloads carry snapshots so subscribers never observe later mutation.
type Event interface {
	Kind() events.Kind
}

type XPGained struct {
	Skill  SkillState
	Amount int
}

func (XPGained) Kind() events.Kind { return XPGainedKind }

// LevelGained is emitted once per level crossed, with the state right after
// that level.
type LevelGained struct {
	Skill SkillState
}

func (LevelGained) Kind() events.Kind { return LevelGainedKind }

type GoalCompleted struct {
	Goal GoalState
}

func (GoalCompleted) Kind() events.Kind { return GoalCompletedKind }
