package diary

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/query"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, f query.Filter, q ListQuery) ([]*Entry, error)
	MoodStats(ctx context.Context, f query.Filter) ([]MoodCount, error)
}
