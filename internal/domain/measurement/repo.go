package measurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type Repository interface {
	// Upsert inserts m, or appends m.Readings to the row already stored for
	// (owner, date). m is replaced by the stored row.
	Upsert(ctx context.Context, m *Measurement) error
	GetByID(ctx context.Context, id uuid.UUID) (*Measurement, error)
	Update(ctx context.Context, m *Measurement) error
	Delete(ctx context.Context, id uuid.UUID) (*Measurement, error)
	// List filters by reading type when readingType is non-empty.
	List(ctx context.Context, f query.Filter, readingType string) ([]*Measurement, error)
}
