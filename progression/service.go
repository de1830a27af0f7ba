package progression

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focus-go"
	"github.com/benjamonnguyen/focus-go/events"
)

type Repos struct {
	Skills focus.SkillRepo
	Stats  focus.StatRepo
	Goals  focus.GoalRepo
}

// Service loads skills and goals, runs the engine on them and persists the
// result in one transaction. Events are published after commit.
type Service struct {
	repos Repos
	tx    transactor.Transactor
	sink  events.Sink
	l     *log.Logger
}

func NewService(repos Repos, tx transactor.Transactor, sink events.Sink, l *log.Logger) *Service {
	return &Service{
		repos: repos,
		tx:    tx,
		sink:  sink,
		l:     l,
	}
}

type NewGoalRequest struct {
	Title          string
	Description    string
	Difficulty     focus.Difficulty
	MainSkill      string
	SecondarySkill string // optional

	// Stats for skills that do not exist yet. A missing skill is created
	// when its stat is given.
	MainStat      string
	SecondaryStat string
}

func (s *Service) GrantXP(ctx context.Context, id focus.SkillID, amount int) (Skill, error) {
	var skill *Skill
	var evs []Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		skill, err = s.newLoader().skill(ctx, id)
		if err != nil {
			return err
		}

		evs, err = GrantXP(skill, amount)
		if err != nil {
			return err
		}
		return s.saveSkill(ctx, skill, leveled(evs))
	})
	if err != nil {
		return Skill{}, fmt.Errorf("failed to grant xp to skill %s: %w", id, err)
	}

	s.l.Debug("granted xp", "skill", skill.Name, "amount", amount, "level", skill.Level, "xp", skill.XP)
	s.publish(ctx, evs)
	return *skill, nil
}

// CompleteGoal returns false when the goal was already completed; nothing is
// written or published in that case.
func (s *Service) CompleteGoal(ctx context.Context, id focus.GoalID) (Goal, bool, error) {
	var goal *Goal
	var evs []Event
	var completed bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		goal, err = s.newLoader().goal(ctx, id)
		if err != nil {
			return err
		}

		evs, completed, err = CompleteGoal(goal)
		if err != nil || !completed {
			return err
		}

		if _, err := s.repos.Goals.UpdateGoal(ctx, goal.ID, focus.GoalUpdate{Completed: focus.Ptr(true)}); err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		if err := s.saveSkill(ctx, goal.MainSkill, true); err != nil {
			return err
		}
		if goal.SecondarySkill != nil {
			return s.saveSkill(ctx, goal.SecondarySkill, true)
		}
		return nil
	})
	if err != nil {
		return Goal{}, false, fmt.Errorf("failed to complete goal %s: %w", id, err)
	}

	if !completed {
		s.l.Info("goal already completed", "goal", goal.Title)
		return *goal, false, nil
	}
	s.publish(ctx, evs)
	return *goal, true, nil
}

// EnsureSkill returns the skill named by seed, creating it and any missing
// stats on first use.
func (s *Service) EnsureSkill(ctx context.Context, seed focus.SkillSeed) (Skill, error) {
	name := normalizeName(seed.Name)
	if name == "" || normalizeName(seed.MainStat) == "" {
		return Skill{}, fmt.Errorf("%w: provide skill name and main stat", ErrInvalidArgument)
	}

	var skill *Skill
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		skill, err = s.ensureSkill(ctx, s.newLoader(), seed)
		return err
	})
	if err != nil {
		return Skill{}, fmt.Errorf("failed to ensure skill %q: %w", name, err)
	}
	return *skill, nil
}

// ensureSkill must run inside a transaction.
func (s *Service) ensureSkill(ctx context.Context, ld *loader, seed focus.SkillSeed) (*Skill, error) {
	name := normalizeName(seed.Name)
	existing, err := s.repos.Skills.GetSkillByName(ctx, name)
	if err == nil {
		return ld.skillFromRecord(ctx, existing)
	}
	if !errors.Is(err, focus.ErrNotFound) {
		return nil, err
	}

	main, err := s.ensureStat(ctx, seed.MainStat)
	if err != nil {
		return nil, err
	}
	var secondary *Stat
	if normalizeName(seed.SecondaryStat) != "" {
		if secondary, err = s.ensureStat(ctx, seed.SecondaryStat); err != nil {
			return nil, err
		}
	}
	if secondary != nil && secondary.ID == main.ID {
		secondary = main
	}

	created := NewSkill(name, main, secondary)
	record := focus.SkillRecord{
		Name:          created.Name,
		Level:         created.Level,
		XP:            created.XP,
		XPToNextLevel: created.XPToNextLevel,
		MainStatID:    main.ID,
	}
	if secondary != nil {
		record.SecondaryStatID = secondary.ID
	}
	inserted, err := s.repos.Skills.InsertSkill(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to insert skill: %w", err)
	}
	created.ID = inserted.ID
	ld.skills[created.ID] = &created
	s.l.Info("created skill", "name", created.Name, "mainStat", main.Name)
	return &created, nil
}

// goalSkill resolves a goal's skill by name, creating it when stat is set.
func (s *Service) goalSkill(ctx context.Context, ld *loader, name, stat string) (*Skill, error) {
	skill, err := ld.skillByName(ctx, name)
	if err == nil || !errors.Is(err, focus.ErrNotFound) {
		return skill, err
	}
	if normalizeName(stat) == "" {
		return nil, fmt.Errorf("%w: provide a stat to create it", err)
	}
	return s.ensureSkill(ctx, ld, focus.SkillSeed{Name: name, MainStat: stat})
}

func (s *Service) ensureStat(ctx context.Context, name string) (*Stat, error) {
	stat := NewStat(name)
	existing, err := s.repos.Stats.GetStatByName(ctx, stat.Name)
	if err == nil {
		return statFromRecord(existing), nil
	}
	if !errors.Is(err, focus.ErrNotFound) {
		return nil, err
	}

	inserted, err := s.repos.Stats.InsertStat(ctx, focus.StatRecord{Name: stat.Name, Value: stat.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to insert stat: %w", err)
	}
	return statFromRecord(inserted), nil
}

// CreateGoal creates a goal. Skills that do not exist yet are created in the
// same transaction from req.MainStat and req.SecondaryStat.
func (s *Service) CreateGoal(ctx context.Context, req NewGoalRequest) (Goal, error) {
	if strings.TrimSpace(req.Title) == "" {
		return Goal{}, fmt.Errorf("%w: provide goal title", ErrInvalidArgument)
	}
	if req.Difficulty == "" {
		req.Difficulty = focus.DifficultyEasy
	}
	if _, err := ExchangeRate(req.Difficulty); err != nil {
		return Goal{}, err
	}

	if normalizeName(req.MainSkill) == "" {
		return Goal{}, fmt.Errorf("%w: provide main skill", ErrInvalidArgument)
	}

	var goal Goal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ld := s.newLoader()
		main, err := s.goalSkill(ctx, ld, req.MainSkill, req.MainStat)
		if err != nil {
			return fmt.Errorf("main skill %q: %w", req.MainSkill, err)
		}
		var secondary *Skill
		if normalizeName(req.SecondarySkill) != "" {
			if secondary, err = s.goalSkill(ctx, ld, req.SecondarySkill, req.SecondaryStat); err != nil {
				return fmt.Errorf("secondary skill %q: %w", req.SecondarySkill, err)
			}
		}

		goal = NewGoal(req.Title, req.Description, req.Difficulty, main, secondary)
		record := focus.GoalRecord{
			Title:       goal.Title,
			Description: goal.Description,
			Difficulty:  goal.Difficulty,
			MainSkillID: main.ID,
		}
		if secondary != nil {
			record.SecondarySkillID = secondary.ID
		}
		inserted, err := s.repos.Goals.InsertGoal(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to insert goal: %w", err)
		}
		goal.ID = inserted.ID
		return nil
	})
	if err != nil {
		return Goal{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

func (s *Service) Skill(ctx context.Context, id focus.SkillID) (Skill, error) {
	skill, err := s.newLoader().skill(ctx, id)
	if err != nil {
		return Skill{}, err
	}
	return *skill, nil
}

func (s *Service) SkillByName(ctx context.Context, name string) (Skill, error) {
	skill, err := s.newLoader().skillByName(ctx, name)
	if err != nil {
		return Skill{}, err
	}
	return *skill, nil
}

func (s *Service) Skills(ctx context.Context) ([]Skill, error) {
	records, err := s.repos.Skills.GetAllSkills(ctx)
	if err != nil {
		return nil, err
	}

	ld := s.newLoader()
	skills := make([]Skill, 0, len(records))
	for _, r := range records {
		skill, err := ld.skillFromRecord(ctx, r)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}
	return skills, nil
}

func (s *Service) Stats(ctx context.Context) ([]Stat, error) {
	records, err := s.repos.Stats.GetAllStats(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]Stat, 0, len(records))
	for _, r := range records {
		stats = append(stats, *statFromRecord(r))
	}
	return stats, nil
}

func (s *Service) Goal(ctx context.Context, id focus.GoalID) (Goal, error) {
	goal, err := s.newLoader().goal(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	return *goal, nil
}

func (s *Service) Goals(ctx context.Context, includeCompleted bool) ([]Goal, error) {
	records, err := s.repos.Goals.GetAllGoals(ctx)
	if err != nil {
		return nil, err
	}

	ld := s.newLoader()
	var goals []Goal
	for _, r := range records {
		if r.Completed && !includeCompleted {
			continue
		}
		goal, err := ld.goalFromRecord(ctx, r)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, nil
}

func (s *Service) saveSkill(ctx context.Context, skill *Skill, statsChanged bool) error {
	_, err := s.repos.Skills.UpdateSkill(ctx, skill.ID, focus.SkillUpdate{
		Level:         focus.Ptr(skill.Level),
		XP:            focus.Ptr(skill.XP),
		XPToNextLevel: focus.Ptr(skill.XPToNextLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to update skill: %w", err)
	}
	if !statsChanged {
		return nil
	}

	for _, stat := range []*Stat{skill.MainStat, skill.SecondaryStat} {
		if stat == nil {
			continue
		}
		if _, err := s.repos.Stats.UpdateStat(ctx, stat.ID, focus.StatUpdate{Value: focus.Ptr(stat.Value)}); err != nil {
			return fmt.Errorf("failed to update stat: %w", err)
		}
	}
	return nil
}

// publish runs after commit; subscriber failures are logged, not returned.
func (s *Service) publish(ctx context.Context, evs []Event) {
	if s.sink == nil {
		return
	}
	for _, ev := range evs {
		if err := s.sink.Publish(ctx, ev.Kind(), ev); err != nil {
			s.l.Warn("failed to publish event", "kind", ev.Kind(), "err", err)
		}
	}
}

func leveled(evs []Event) bool {
	for _, ev := range evs {
		if _, ok := ev.(LevelGained); ok {
			return true
		}
	}
	return false
}

// loader resolves records into domain objects, sharing one *Stat per stat
// row and one *Skill per skill row.
type loader struct {
	repos  Repos
	stats  map[focus.StatID]*Stat
	skills map[focus.SkillID]*Skill
}

func (s *Service) newLoader() *loader {
	return &loader{
		repos:  s.repos,
		stats:  make(map[focus.StatID]*Stat),
		skills: make(map[focus.SkillID]*Skill),
	}
}

func (ld *loader) stat(ctx context.Context, id focus.StatID) (*Stat, error) {
	if stat, ok := ld.stats[id]; ok {
		return stat, nil
	}
	record, err := ld.repos.Stats.GetStat(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", id, err)
	}
	stat := statFromRecord(record)
	ld.stats[id] = stat
	return stat, nil
}

func (ld *loader) skill(ctx context.Context, id focus.SkillID) (*Skill, error) {
	if skill, ok := ld.skills[id]; ok {
		return skill, nil
	}
	record, err := ld.repos.Skills.GetSkill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", id, err)
	}
	return ld.skillFromRecord(ctx, record)
}

func (ld *loader) skillByName(ctx context.Context, name string) (*Skill, error) {
	record, err := ld.repos.Skills.GetSkillByName(ctx, normalizeName(name))
	if err != nil {
		return nil, err
	}
	if skill, ok := ld.skills[record.ID]; ok {
		return skill, nil
	}
	return ld.skillFromRecord(ctx, record)
}

func (ld *loader) skillFromRecord(ctx context.Context, r focus.ExistingSkillRecord) (*Skill, error) {
	if skill, ok := ld.skills[r.ID]; ok {
		return skill, nil
	}

	main, err := ld.stat(ctx, r.MainStatID)
	if err != nil {
		return nil, err
	}
	var secondary *Stat
	if r.SecondaryStatID != "" {
		if secondary, err = ld.stat(ctx, r.SecondaryStatID); err != nil {
			return nil, err
		}
	}

	skill := &Skill{
		ID:            r.ID,
		Name:          r.Name,
		Level:         r.Level,
		XP:            r.XP,
		XPToNextLevel: r.XPToNextLevel,
		MainStat:      main,
		SecondaryStat: secondary,
	}
	ld.skills[r.ID] = skill
	return skill, nil
}

func (ld *loader) goal(ctx context.Context, id focus.GoalID) (*Goal, error) {
	record, err := ld.repos.Goals.GetGoal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("goal %s: %w", id, err)
	}
	return ld.goalFromRecord(ctx, record)
}

func (ld *loader) goalFromRecord(ctx context.Context, r focus.ExistingGoalRecord) (*Goal, error) {
	main, err := ld.skill(ctx, r.MainSkillID)
	if err != nil {
		return nil, err
	}
	var secondary *Skill
	if r.SecondarySkillID != "" {
		if secondary, err = ld.skill(ctx, r.SecondarySkillID); err != nil {
			return nil, err
		}
	}

	return &Goal{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Difficulty:     r.Difficulty,
		Completed:      r.Completed,
		MainSkill:      main,
		SecondarySkill: secondary,
	}, nil
}

func statFromRecord(r focus.ExistingStatRecord) *Stat {
	return &Stat{ID: r.ID, Name: r.Name, Value: r.Value}
}
