package sqlite

import (
	"context"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/focus-go"
)

const SelectAllLapses = "SELECT started_at, ended_at, kind FROM history"

type lapseEntity struct {
	StartedAt int64
	EndedAt   int64
	Kind      string
}

type historyRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
}

func NewHistoryRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *historyRepo {
	return &historyRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

var _ focus.HistoryRepo = (*historyRepo)(nil)

// InsertLapses returns how many lapses were stored. A lapse starting at the
// same millisecond as a stored one is skipped.
func (r *historyRepo) InsertLapses(ctx context.Context, lapses ...focus.LapseRecord) (int, error) {
	for _, lapse := range lapses {
		if !lapse.End.After(lapse.Start) {
			return 0, fmt.Errorf("lapse must end after it starts: %s", lapse.Start)
		}
		switch lapse.Kind {
		case focus.FocusLapse, focus.RestLapse, focus.PauseLapse:
		default:
			return 0, fmt.Errorf("unknown lapse kind %q", lapse.Kind)
		}
	}

	db := r.dbGetter(ctx)
	query := "INSERT INTO history (started_at, ended_at, kind) VALUES " + generateParameters(3) + " ON CONFLICT(started_at) DO NOTHING"
	var inserted int
	for _, lapse := range lapses {
		e := mapToLapseEntity(lapse)
		args := []any{e.StartedAt, e.EndedAt, e.Kind}
		r.l.Debug("creating lapse", "query", query, "args", args)
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, mapErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		if n == 0 {
			r.l.Warn("skipped lapse with existing start", "start", lapse.Start, "kind", lapse.Kind)
			continue
		}
		inserted++
	}
	return inserted, nil
}

// GetLapses returns lapses starting in [from, to), oldest first.
func (r *historyRepo) GetLapses(ctx context.Context, from, to time.Time) ([]focus.LapseRecord, error) {
	query := SelectAllLapses + " WHERE started_at >= ? AND started_at < ? ORDER BY started_at"
	args := []any{from.UnixMilli(), to.UnixMilli()}
	r.l.Debug("getting lapses", "query", query, "args", args)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var lapses []focus.LapseRecord
	for rows.Next() {
		lapse, err := extractLapse(rows)
		if err != nil {
			return nil, err
		}
		lapses = append(lapses, lapse)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lapses, nil
}

// GetDailyTotals sums the lapses that started on day's UTC date.
func (r *historyRepo) GetDailyTotals(ctx context.Context, day time.Time) (focus.DailyTotals, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	totals := focus.DailyTotals{Date: start}

	query := "SELECT kind, COALESCE(SUM(ended_at - started_at), 0) FROM history WHERE started_at >= ? AND started_at < ? GROUP BY kind"
	args := []any{start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli()}
	r.l.Debug("getting daily totals", "query", query, "args", args)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return totals, err
	}
	defer rows.Close() //nolint

	for rows.Next() {
		var kind string
		var ms int64
		if err := rows.Scan(&kind, &ms); err != nil {
			return totals, err
		}
		seconds := int(ms / 1000)
		switch focus.LapseKind(kind) {
		case focus.FocusLapse:
			totals.FocusSeconds = seconds
		case focus.RestLapse:
			totals.RestSeconds = seconds
		case focus.PauseLapse:
			totals.PauseSeconds = seconds
		}
	}
	return totals, rows.Err()
}

func extractLapse(s scannable) (focus.LapseRecord, error) {
	var e lapseEntity
	if err := s.Scan(&e.StartedAt, &e.EndedAt, &e.Kind); err != nil {
		return focus.LapseRecord{}, mapErr(err)
	}
	return mapToLapseRecord(e), nil
}

func mapToLapseEntity(l focus.LapseRecord) lapseEntity {
	return lapseEntity{
		StartedAt: l.Start.UnixMilli(),
		EndedAt:   l.End.UnixMilli(),
		Kind:      string(l.Kind),
	}
}

func mapToLapseRecord(e lapseEntity) focus.LapseRecord {
	return focus.LapseRecord{
		Start: time.UnixMilli(e.StartedAt).UTC(),
		End:   time.UnixMilli(e.EndedAt).UTC(),
		Kind:  focus.LapseKind(e.Kind),
	}
}
