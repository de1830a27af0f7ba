package sqlite

import (
	"context"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/focus-go"
)

const SelectAllStats = "SELECT id, name, value, created_at, updated_at FROM stats"

type statEntity struct {
	ID        string
	Name      string
	Value     int
	CreatedAt int64
	UpdatedAt int64
}

type statRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewStatRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *statRepo {
	return &statRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

var _ focus.StatRepo = (*statRepo)(nil)

func (r *statRepo) InsertStat(ctx context.Context, stat focus.StatRecord) (focus.ExistingStatRecord, error) {
	if stat.Name == "" {
		return focus.ExistingStatRecord{}, fmt.Errorf("provide required field 'Name'")
	}

	existingRecord := focus.ExistingStatRecord{
		StatRecord:     stat,
		ExistingRecord: focus.NewExistingRecord[focus.StatID](uuid.NewString()),
	}
	e := mapToStatEntity(existingRecord)

	args := []any{
		e.ID,
		e.Name,
		e.Value,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO stats (id, name, value, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating stat", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingStatRecord{}, mapErr(err)
	}

	return existingRecord, nil
}

func (r *statRepo) UpdateStat(ctx context.Context, id focus.StatID, u focus.StatUpdate) (focus.ExistingStatRecord, error) {
	existing, err := r.GetStat(ctx, id)
	if err != nil {
		return existing, err
	}

	if u.Value != nil {
		existing.Value = *u.Value
	}
	existing.UpdatedAt = time.Now()
	e := mapToStatEntity(existing)

	query := "UPDATE stats SET value = ?, updated_at = ? WHERE id = ?"
	args := []any{e.Value, e.UpdatedAt, e.ID}
	r.l.Debug("updating stat", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return focus.ExistingStatRecord{}, mapErr(err)
	}

	return existing, nil
}

func (r *statRepo) GetStat(ctx context.Context, id focus.StatID) (focus.ExistingStatRecord, error) {
	if id == "" {
		return focus.ExistingStatRecord{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllStats), id,
	)
	return extractStat(row)
}

func (r *statRepo) GetStatByName(ctx context.Context, name string) (focus.ExistingStatRecord, error) {
	if name == "" {
		return focus.ExistingStatRecord{}, fmt.Errorf("provide name")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE name=?", SelectAllStats), name,
	)
	return extractStat(row)
}

func (r *statRepo) GetAllStats(ctx context.Context) ([]focus.ExistingStatRecord, error) {
	query := SelectAllStats + " ORDER BY created_at, name"
	r.l.Debug("getting all stats", "query", query)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var stats []focus.ExistingStatRecord
	for rows.Next() {
		stat, err := extractStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func extractStat(s scannable) (focus.ExistingStatRecord, error) {
	var e statEntity
	if err := s.Scan(&e.ID, &e.Name, &e.Value, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return focus.ExistingStatRecord{}, mapErr(err)
	}

	return mapToExistingStatRecord(e), nil
}

func mapToStatEntity(stat focus.ExistingStatRecord) statEntity {
	return statEntity{
		ID:        string(stat.ID),
		Name:      stat.Name,
		Value:     stat.Value,
		CreatedAt: stat.CreatedAt.Unix(),
		UpdatedAt: stat.UpdatedAt.Unix(),
	}
}

func mapToExistingStatRecord(e statEntity) focus.ExistingStatRecord {
	return focus.ExistingStatRecord{
		ExistingRecord: focus.ExistingRecord[focus.StatID]{
			ID:        focus.StatID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		StatRecord: focus.StatRecord{
			Name:  e.Name,
			Value: e.Value,
		},
	}
}
