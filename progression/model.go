package progression

import (
	"strings"

	"github.com/benjamonnguyen/focus-go"
)

const (
	BaseXPToNextLevel = 100
	BaseStatValue     = 1
)

type Stat struct {
	ID    focus.StatID
	Name  string
	Value int
}

// NewStat normalizes name to lowercase.
func NewStat(name string) Stat {
	return Stat{Name: normalizeName(name), Value: BaseStatValue}
}

// Skill drives the growth of its stats on level-up. Two skills loaded
// together share the *Stat of a common stat row.
type Skill struct {
	ID            focus.SkillID
	Name          string
	Level         int
	XP            int
	XPToNextLevel int
	MainStat      *Stat
	SecondaryStat *Stat
}

// NewSkill returns a level 1 skill. secondary may be nil.
func NewSkill(name string, main, secondary *Stat) Skill {
	return Skill{
		Name:          normalizeName(name),
		Level:         1,
		XPToNextLevel: BaseXPToNextLevel,
		MainStat:      main,
		SecondaryStat: secondary,
	}
}

func (s *Skill) State() SkillState {
	state := SkillState{
		ID:            s.ID,
		Name:          s.Name,
		Level:         s.Level,
		XP:            s.XP,
		XPToNextLevel: s.XPToNextLevel,
	}
	if s.MainStat != nil {
		state.MainStat = *s.MainStat
	}
	if s.SecondaryStat != nil {
		secondary := *s.SecondaryStat
		state.SecondaryStat = &secondary
	}
	return state
}

type Goal struct {
	ID             focus.GoalID
	Title          string
	Description    string
	Difficulty     focus.Difficulty
	Completed      bool
	MainSkill      *Skill
	SecondarySkill *Skill
}

func NewGoal(title, description string, difficulty focus.Difficulty, main, secondary *Skill) Goal {
	if difficulty == "" {
		difficulty = focus.DifficultyEasy
	}
	return Goal{
		Title:          strings.TrimSpace(title),
		Description:    description,
		Difficulty:     difficulty,
		MainSkill:      main,
		SecondarySkill: secondary,
	}
}

func (g *Goal) State() GoalState {
	state := GoalState{
		ID:         g.ID,
		Title:      g.Title,
		Difficulty: g.Difficulty,
		Completed:  g.Completed,
	}
	if g.MainSkill != nil {
		state.MainSkill = g.MainSkill.State()
	}
	if g.SecondarySkill != nil {
		secondary := g.SecondarySkill.State()
		state.SecondarySkill = &secondary
	}
	return state
}

// SkillState is an immutable copy of a skill and its stats.
type SkillState struct {
	ID            focus.SkillID
	Name          string
	Level         int
	XP            int
	XPToNextLevel int
	MainStat      Stat
	SecondaryStat *Stat
}

type GoalState struct {
	ID             focus.GoalID
	Title          string
	Difficulty     focus.Difficulty
	Completed      bool
	MainSkill      SkillState
	SecondarySkill *SkillState
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
