package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/focus-go"
)

const SelectAllGoals = "SELECT id, title, description, difficulty, completed, main_skill_id, secondary_skill_id, created_at, updated_at FROM goals"

type goalEntity struct {
	ID               string
	Title            string
	Description      string
	Difficulty       string
	Completed        bool
	MainSkillID      string
	SecondarySkillID sql.NullString
	CreatedAt        int64
	UpdatedAt        int64
}

type goalRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewGoalRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *goalRepo {
	return &goalRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

var _ focus.GoalRepo = (*goalRepo)(nil)

func (r *goalRepo) InsertGoal(ctx context.Context, goal focus.GoalRecord) (focus.ExistingGoalRecord, error) {
	if goal.Title == "" || goal.MainSkillID == "" || goal.Difficulty == "" {
		return focus.ExistingGoalRecord{}, fmt.Errorf("provide required fields 'Title', 'Difficulty', and 'MainSkillID'")
	}

	existingRecord := focus.ExistingGoalRecord{
		GoalRecord:     goal,
		ExistingRecord: focus.NewExistingRecord[focus.GoalID](uuid.NewString()),
	}
	e := mapToGoalEntity(existingRecord)

	args := []any{
		e.ID,
		e.Title,
		e.Description,
		e.Difficulty,
		e.Completed,
		e.MainSkillID,
		e.SecondarySkillID,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO goals (id, title, description, difficulty, completed, main_skill_id, secondary_skill_id, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating goal", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingGoalRecord{}, mapErr(err)
	}

	return existingRecord, nil
}

func (r *goalRepo) UpdateGoal(ctx context.Context, id focus.GoalID, u focus.GoalUpdate) (focus.ExistingGoalRecord, error) {
	existing, err := r.GetGoal(ctx, id)
	if err != nil {
		return existing, err
	}

	if u.Title != nil {
		existing.Title = *u.Title
	}
	if u.Description != nil {
		existing.Description = *u.Description
	}
	if u.Completed != nil {
		existing.Completed = *u.Completed
	}
	existing.UpdatedAt = time.Now()
	e := mapToGoalEntity(existing)

	query := "UPDATE goals SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Title,
		e.Description,
		e.Completed,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating goal", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingGoalRecord{}, mapErr(err)
	}

	return existing, nil
}

func (r *goalRepo) GetGoal(ctx context.Context, id focus.GoalID) (focus.ExistingGoalRecord, error) {
	if id == "" {
		return focus.ExistingGoalRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllGoals), id,
	)
	return extractGoal(row)
}

func (r *goalRepo) GetAllGoals(ctx context.Context) ([]focus.ExistingGoalRecord, error) {
	query := SelectAllGoals + " ORDER BY created_at, title"
	r.l.Debug("getting all goals", "query", query)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var goals []focus.ExistingGoalRecord
	for rows.Next() {
		goal, err := extractGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

func extractGoal(s scannable) (focus.ExistingGoalRecord, error) {
	var e goalEntity
	if err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Difficulty, &e.Completed, &e.MainSkillID, &e.SecondarySkillID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return focus.ExistingGoalRecord{}, mapErr(err)
	}

	return mapToExistingGoalRecord(e), nil
}

func mapToGoalEntity(goal focus.ExistingGoalRecord) goalEntity {
	return goalEntity{
		ID:          string(goal.ID),
		Title:       goal.Title,
		Description: goal.Description,
		Difficulty:  string(goal.Difficulty),
		Completed:   goal.Completed,
		MainSkillID: string(goal.MainSkillID),
		SecondarySkillID: sql.NullString{
			String: string(goal.SecondarySkillID),
			Valid:  goal.SecondarySkillID != "",
		},
		CreatedAt: goal.CreatedAt.Unix(),
		UpdatedAt: goal.UpdatedAt.Unix(),
	}
}

func mapToExistingGoalRecord(e goalEntity) focus.ExistingGoalRecord {
	return focus.ExistingGoalRecord{
		ExistingRecord: focus.ExistingRecord[focus.GoalID]{
			ID:        focus.GoalID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		GoalRecord: focus.GoalRecord{
			Title:            e.Title,
			Description:      e.Description,
			Difficulty:       focus.Difficulty(e.Difficulty),
			Completed:        e.Completed,
			MainSkillID:      focus.SkillID(e.MainSkillID),
			SecondarySkillID: focus.SkillID(e.SecondarySkillID.String),
		},
	}
}
