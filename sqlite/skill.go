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

const SelectAllSkills = "SELECT id, name, level, xp, xp_to_next_level, main_stat_id, secondary_stat_id, created_at, updated_at FROM skills"

type skillEntity struct {
	ID              string
	Name            string
	Level           int
	XP              int
	XPToNextLevel   int
	MainStatID      string
	SecondaryStatID sql.NullString
	CreatedAt       int64
	UpdatedAt       int64
}

type skillRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewSkillRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *skillRepo {
	return &skillRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

var _ focus.SkillRepo = (*skillRepo)(nil)

func (r *skillRepo) InsertSkill(ctx context.Context, skill focus.SkillRecord) (focus.ExistingSkillRecord, error) {
	if skill.Name == "" || skill.MainStatID == "" {
		return focus.ExistingSkillRecord{}, fmt.Errorf("provide required fields 'Name' and 'MainStatID'")
	}

	existingRecord := focus.ExistingSkillRecord{
		SkillRecord:    skill,
		ExistingRecord: focus.NewExistingRecord[focus.SkillID](uuid.NewString()),
	}
	e := mapToSkillEntity(existingRecord)

	args := []any{
		e.ID,
		e.Name,
		e.Level,
		e.XP,
		e.XPToNextLevel,
		e.MainStatID,
		e.SecondaryStatID,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO skills (id, name, level, xp, xp_to_next_level, main_stat_id, secondary_stat_id, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating skill", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingSkillRecord{}, mapErr(err)
	}

	return existingRecord, nil
}

func (r *skillRepo) UpdateSkill(ctx context.Context, id focus.SkillID, u focus.SkillUpdate) (focus.ExistingSkillRecord, error) {
	existing, err := r.GetSkill(ctx, id)
	if err != nil {
		return existing, err
	}

	if u.Name != nil {
		existing.Name = *u.Name
	}
	if u.Level != nil {
		existing.Level = *u.Level
	}
	if u.XP != nil {
		existing.XP = *u.XP
	}
	if u.XPToNextLevel != nil {
		existing.XPToNextLevel = *u.XPToNextLevel
	}
	existing.UpdatedAt = time.Now()
	e := mapToSkillEntity(existing)

	query := "UPDATE skills SET name = ?, level = ?, xp = ?, xp_to_next_level = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.Name,
		e.Level,
		e.XP,
		e.XPToNextLevel,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating skill", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingSkillRecord{}, mapErr(err)
	}

	return existing, nil
}

func (r *skillRepo) GetSkill(ctx context.Context, id focus.SkillID) (focus.ExistingSkillRecord, error) {
	if id == "" {
		return focus.ExistingSkillRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllSkills), id,
	)
	return extractSkill(row)
}

func (r *skillRepo) GetSkillByName(ctx context.Context, name string) (focus.ExistingSkillRecord, error) {
	if name == "" {
		return focus.ExistingSkillRecord{}, fmt.Errorf("provide name")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE name=?", SelectAllSkills), name,
	)
	return extractSkill(row)
}

func (r *skillRepo) GetAllSkills(ctx context.Context) ([]focus.ExistingSkillRecord, error) {
	query := SelectAllSkills + " ORDER BY created_at, name"
	r.l.Debug("getting all skills", "query", query)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var skills []focus.ExistingSkillRecord
	for rows.Next() {
		skill, err := extractSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

func extractSkill(s scannable) (focus.ExistingSkillRecord, error) {
	var e skillEntity
	if err := s.Scan(&e.ID, &e.Name, &e.Level, &e.XP, &e.XPToNextLevel, &e.MainStatID, &e.SecondaryStatID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return focus.ExistingSkillRecord{}, mapErr(err)
	}

	return mapToExistingSkillRecord(e), nil
}

func mapToSkillEntity(skill focus.ExistingSkillRecord) skillEntity {
	return skillEntity{
		ID:            string(skill.ID),
		Name:          skill.Name,
		Level:         skill.Level,
		XP:            skill.XP,
		XPToNextLevel: skill.XPToNextLevel,
		MainStatID:    string(skill.MainStatID),
		SecondaryStatID: sql.NullString{
			String: string(skill.SecondaryStatID),
			Valid:  skill.SecondaryStatID != "",
		},
		CreatedAt: skill.CreatedAt.Unix(),
		UpdatedAt: skill.UpdatedAt.Unix(),
	}
}

func mapToExistingSkillRecord(e skillEntity) focus.ExistingSkillRecord {
	return focus.ExistingSkillRecord{
		ExistingRecord: focus.ExistingRecord[focus.SkillID]{
			ID:        focus.SkillID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		SkillRecord: focus.SkillRecord{
			Name:            e.Name,
			Level:           e.Level,
			XP:              e.XP,
			XPToNextLevel:   e.XPToNextLevel,
			MainStatID:      focus.StatID(e.MainStatID),
			SecondaryStatID: focus.StatID(e.SecondaryStatID.String),
		},
	}
}
