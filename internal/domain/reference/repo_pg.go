package reference

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

// -- Medicine --

type medicineRepoPG struct{ q db.Querier }

func NewMedicineRepoPG(q db.Querier) MedicineRepository {
	return &medicineRepoPG{q: q}
}

const medicineCols = `id, name, description, brand, dosage_info, manufacturer, category,
	uses, side_effects, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Brand, &m.DosageInfo, &m.Manufacturer, &m.Category,
		&m.Uses, &m.SideEffects, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &m, nil
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	return r.q.QueryRow(ctx, `
		INSERT INTO medicines (id, name, description, brand, dosage_info, manufacturer, category, uses, side_effects)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Description, m.Brand, m.DosageInfo, m.Manufacturer, m.Category, m.Uses, m.SideEffects,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.q.QueryRow(ctx, `SELECT `+medicineCols+` FROM medicines WHERE id = $1`, id))
}

func (r *medicineRepoPG) Update(ctx context.Context, m *Medicine) error {
	err := r.q.QueryRow(ctx, `
		UPDATE medicines SET name = $2, description = $3, brand = $4, dosage_info = $5, manufacturer = $6,
			category = $7, uses = $8, side_effects = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Name, m.Description, m.Brand, m.DosageInfo, m.Manufacturer, m.Category, m.Uses, m.SideEffects,
	).Scan(&m.UpdatedAt)
	return db.NotFoundOr(err)
}

func (r *medicineRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) Search(ctx context.Context, term string, limit int) ([]*Medicine, error) {
	b := query.New("medicines", medicineCols)
	if term != "" {
		b.Contains("name", term)
	}
	b.OrderBy("name, id").Limit(limit)

	rows, err := r.q.Query(ctx, b.SQL(), b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// -- Lab test --

type labTestRepoPG struct{ q db.Querier }

func NewLabTestRepoPG(q db.Querier) LabTestRepository {
	return &labTestRepoPG{q: q}
}

const labTestCols = `id, name, description, normal_range, preparation, clinical_significance, category,
	created_at, updated_at`

func scanLabTest(row pgx.Row) (*LabTest, error) {
	var t LabTest
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.NormalRange, &t.Preparation, &t.ClinicalSignificance,
		&t.Category, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &t, nil
}

func (r *labTestRepoPG) Create(ctx context.Context, t *LabTest) error {
	t.ID = uuid.New()
	return r.q.QueryRow(ctx, `
		INSERT INTO lab_tests (id, name, description, normal_range, preparation, clinical_significance, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Description, t.NormalRange, t.Preparation, t.ClinicalSignificance, t.Category,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *labTestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return scanLabTest(r.q.QueryRow(ctx, `SELECT `+labTestCols+` FROM lab_tests WHERE id = $1`, id))
}

func (r *labTestRepoPG) Update(ctx context.Context, t *LabTest) error {
	err := r.q.QueryRow(ctx, `
		UPDATE lab_tests SET name = $2, description = $3, normal_range = $4, preparation = $5,
			clinical_significance = $6, category = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID, t.Name, t.Description, t.NormalRange, t.Preparation, t.ClinicalSignificance, t.Category,
	).Scan(&t.UpdatedAt)
	return db.NotFoundOr(err)
}

func (r *labTestRepoPG) List(ctx context.Context) ([]*LabTest, error) {
	rows, err := r.q.Query(ctx, `SELECT `+labTestCols+` FROM lab_tests ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LabTest
	for rows.Next() {
		t, err := scanLabTest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
