package reference

import (
	"context"

	"github.com/google/uuid"
)

// SearchLimit caps medicine listings.
const SearchLimit = 50

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Search matches name case-insensitively; an empty term lists everything.
	Search(ctx context.Context, term string, limit int) ([]*Medicine, error)
}

type LabTestRepository interface {
	Create(ctx context.Context, t *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	Update(ctx context.Context, t *LabTest) error
	List(ctx context.Context) ([]*LabTest, error)
}
