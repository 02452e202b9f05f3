package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetType(ctx context.Context, id uuid.UUID, userType string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page, newest first, with the total row count.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
}
