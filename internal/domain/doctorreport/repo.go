package doctorreport

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, f query.Filter, q ListQuery) ([]*Report, error)
	// FollowUps returns reports whose follow-up falls on or after from,
	// soonest first.
	FollowUps(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]*Report, error)
}
