package labreport

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, f query.Filter, q ListQuery) ([]*Report, error)
	// Latest returns the newest report of each test type.
	Latest(ctx context.Context, ownerID uuid.UUID) ([]*Report, error)
}
