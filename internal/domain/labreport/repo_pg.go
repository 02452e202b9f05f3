package labreport

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

const reportCols = `id, owner_id, report_date, test_type, parsed_results, file_url, notes, created_at, updated_at`

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.OwnerID, &r.ReportDate, &r.TestType, &r.ParsedResults,
		&r.FileURL, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &r, nil
}

func (p *repoPG) Create(ctx context.Context, r *Report) error {
	r.ID = uuid.New()
	return p.q.QueryRow(ctx, `
		INSERT INTO lab_reports (id, owner_id, report_date, test_type, parsed_results, file_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		r.ID, r.OwnerID, r.ReportDate, r.TestType, r.ParsedResults, r.FileURL, r.Notes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scanReport(p.q.QueryRow(ctx, `SELECT `+reportCols+` FROM lab_reports WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *Report) error {
	err := p.q.QueryRow(ctx, `
		UPDATE lab_reports SET report_date = $2, test_type = $3, parsed_results = $4,
			file_url = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		r.ID, r.ReportDate, r.TestType, r.ParsedResults, r.FileURL, r.Notes,
	).Scan(&r.UpdatedAt)
	return db.NotFoundOr(err)
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scanReport(p.q.QueryRow(ctx, `DELETE FROM lab_reports WHERE id = $1 RETURNING `+reportCols, id))
}

func (p *repoPG) collect(ctx context.Context, sql string, args ...interface{}) ([]*Report, error) {
	rows, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (p *repoPG) List(ctx context.Context, f query.Filter, lq ListQuery) ([]*Report, error) {
	b := query.Records("lab_reports", reportCols, "report_date", f)
	if lq.TestType != "" {
		b.Eq("test_type", lq.TestType)
	}
	if lq.TestTypeLike != "" {
		b.Contains("test_type", lq.TestTypeLike)
	}
	b.OrderBy("report_date DESC, created_at DESC")
	return p.collect(ctx, b.SQL(), b.Args()...)
}

func (p *repoPG) Latest(ctx context.Context, ownerID uuid.UUID) ([]*Report, error) {
	b := query.Records("lab_reports", "DISTINCT ON (test_type) "+reportCols, "report_date",
		query.Filter{OwnerID: ownerID})
	b.OrderBy("test_type, report_date DESC, created_at DESC")
	return p.collect(ctx, `SELECT `+reportCols+` FROM (`+b.SQL()+`) latest ORDER BY report_date DESC`, b.Args()...)
}
