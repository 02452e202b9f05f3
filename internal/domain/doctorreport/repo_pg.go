package doctorreport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

const reportCols = `id, owner_id, visit_date, doctor_name, diagnosis, prescriptions, summary,
	file_url, follow_up_date, created_at, updated_at`

func scanReport(row pgx.Row) (*Report, error) {
	var (
		r   Report
		raw []byte
	)
	err := row.Scan(&r.ID, &r.OwnerID, &r.VisitDate, &r.DoctorName, &r.Diagnosis, &raw, &r.Summary,
		&r.FileURL, &r.FollowUpDate, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	if err := json.Unmarshal(raw, &r.Prescriptions); err != nil {
		return nil, fmt.Errorf("decode prescriptions of %s: %w", r.ID, err)
	}
	if r.Prescriptions == nil {
		r.Prescriptions = []Prescription{}
	}
	return &r, nil
}

func encodePrescriptions(p []Prescription) ([]byte, error) {
	if p == nil {
		p = []Prescription{}
	}
	return json.Marshal(p)
}

func (p *repoPG) Create(ctx context.Context, r *Report) error {
	raw, err := encodePrescriptions(r.Prescriptions)
	if err != nil {
		return err
	}
	r.ID = uuid.New()
	return p.q.QueryRow(ctx, `
		INSERT INTO doctor_reports (id, owner_id, visit_date, doctor_name, diagnosis, prescriptions,
			summary, file_url, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		r.ID, r.OwnerID, r.VisitDate, r.DoctorName, r.Diagnosis, raw, r.Summary, r.FileURL, r.FollowUpDate,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scanReport(p.q.QueryRow(ctx, `SELECT `+reportCols+` FROM doctor_reports WHERE id = $1`, id))
}

// Update writes the whole row, prescriptions included, in one statement.
func (p *repoPG) Update(ctx context.Context, r *Report) error {
	raw, err := encodePrescriptions(r.Prescriptions)
	if err != nil {
		return err
	}
	err = p.q.QueryRow(ctx, `
		UPDATE doctor_reports SET visit_date = $2, doctor_name = $3, diagnosis = $4, prescriptions = $5,
			summary = $6, file_url = $7, follow_up_date = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		r.ID, r.VisitDate, r.DoctorName, r.Diagnosis, raw, r.Summary, r.FileURL, r.FollowUpDate,
	).Scan(&r.UpdatedAt)
	return db.NotFoundOr(err)
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scanReport(p.q.QueryRow(ctx, `DELETE FROM doctor_reports WHERE id = $1 RETURNING `+reportCols, id))
}

func (p *repoPG) collect(ctx context.Context, b *query.Builder) ([]*Report, error) {
	rows, err := p.q.Query(ctx, b.SQL(), b.Args()...)
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
	b := query.Records("doctor_reports", reportCols, "visit_date", f)
	if lq.DoctorLike != "" {
		b.Contains("doctor_name", lq.DoctorLike)
	}
	if lq.Diagnosis != "" {
		b.Eq("diagnosis", lq.Diagnosis)
	}
	b.OrderBy("visit_date DESC, created_at DESC")
	return p.collect(ctx, b)
}

func (p *repoPG) FollowUps(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]*Report, error) {
	b := query.New("doctor_reports", reportCols).
		Eq("owner_id", ownerID).
		OnOrAfter("follow_up_date", from).
		OrderBy("follow_up_date ASC, visit_date DESC")
	return p.collect(ctx, b)
}
