package diary

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

const entryCols = `id, owner_id, date, raw_text, summary, mood, tags, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.OwnerID, &e.Date, &e.RawText, &e.Summary, &e.Mood, &e.Tags,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	return r.q.QueryRow(ctx, `
		INSERT INTO diary_entries (id, owner_id, date, raw_text, summary, mood, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		e.ID, e.OwnerID, e.Date, e.RawText, e.Summary, e.Mood, e.Tags,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.q.QueryRow(ctx, `SELECT `+entryCols+` FROM diary_entries WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	err := r.q.QueryRow(ctx, `
		UPDATE diary_entries SET date = $2, raw_text = $3, summary = $4, mood = $5, tags = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		e.ID, e.Date, e.RawText, e.Summary, e.Mood, e.Tags,
	).Scan(&e.UpdatedAt)
	return db.NotFoundOr(err)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.q.QueryRow(ctx, `DELETE FROM diary_entries WHERE id = $1 RETURNING `+entryCols, id))
}

func (r *repoPG) List(ctx context.Context, f query.Filter, lq ListQuery) ([]*Entry, error) {
	b := query.Records("diary_entries", entryCols, "date", f)
	if lq.Mood != "" {
		b.Eq("mood", lq.Mood)
	}
	if lq.Tag != "" {
		b.ArrayContains("tags", lq.Tag)
	}
	b.OrderBy("date DESC, created_at DESC")

	rows, err := r.q.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repoPG) MoodStats(ctx context.Context, f query.Filter) ([]MoodCount, error) {
	b := query.Records("diary_entries", "mood, COUNT(*)", "date", f)
	rows, err := r.q.Query(ctx, b.SQL()+` GROUP BY mood ORDER BY COUNT(*) DESC, mood`, b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []MoodCount
	for rows.Next() {
		var m MoodCount
		if err := rows.Scan(&m.Mood, &m.Count); err != nil {
			return nil, err
		}
		stats = append(stats, m)
	}
	return stats, rows.Err()
}
