package measurement

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

const measurementCols = `id, owner_id, date, readings, created_at, updated_at`

func scanMeasurement(row pgx.Row) (*Measurement, error) {
	var m Measurement
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Date, &m.Readings, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, db.NotFoundOr(err)
	}
	if m.Readings == nil {
		m.Readings = []Reading{}
	}
	return &m, nil
}

func (r *repoPG) Upsert(ctx context.Context, m *Measurement) error {
	stored, err := scanMeasurement(r.q.QueryRow(ctx, `
		INSERT INTO measurements (id, owner_id, date, readings)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, date) DO UPDATE
			SET readings = measurements.readings || EXCLUDED.readings, updated_at = NOW()
		RETURNING `+measurementCols,
		uuid.New(), m.OwnerID, m.Date, m.Readings))
	if err != nil {
		return err
	}
	*m = *stored
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Measurement, error) {
	return scanMeasurement(r.q.QueryRow(ctx, `SELECT `+measurementCols+` FROM measurements WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Measurement) error {
	err := r.q.QueryRow(ctx, `
		UPDATE measurements SET date = $2, readings = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Date, m.Readings,
	).Scan(&m.UpdatedAt)
	return db.NotFoundOr(err)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (*Measurement, error) {
	return scanMeasurement(r.q.QueryRow(ctx, `DELETE FROM measurements WHERE id = $1 RETURNING `+measurementCols, id))
}

func (r *repoPG) List(ctx context.Context, f query.Filter, readingType string) ([]*Measurement, error) {
	b := query.Records("measurements", measurementCols, "date", f)
	if readingType != "" {
		b.JSONContains("readings", []map[string]string{{"type": readingType}})
	}
	b.OrderBy("date DESC")

	rows, err := r.q.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
