// Package owner guards per-user record writes and reads: every operation on a
// user's records first confirms the user exists.
package owner

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

// ErrUserNotFound is the message returned when the owner is absent.
const ErrUserNotFound = "User not found"

// Checker reports whether a user exists.
type Checker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Ensure fails NotFound when id names no user.
func Ensure(ctx context.Context, c Checker, id uuid.UUID) error {
	ok, err := c.Exists(ctx, id)
	if err != nil {
		return apperr.Store("Error looking up user", err)
	}
	if !ok {
		return apperr.NotFound(ErrUserNotFound)
	}
	return nil
}

// Parse turns a raw owner id into a UUID. An unparseable id cannot name a
// user, so it is reported the same way as a missing one.
func Parse(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(ErrUserNotFound)
	}
	return id, nil
}

// ParseAndEnsure combines Parse and Ensure.
func ParseAndEnsure(ctx context.Context, c Checker, raw string) (uuid.UUID, error) {
	id, err := Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	if err := Ensure(ctx, c, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Set is an in-memory Checker used by tests and tools.
type Set map[uuid.UUID]bool

func (s Set) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s[id], nil
}

// Stored carries the server-managed fields of a record. Update bodies embed
// it so a record fetched with GET can be sent back unchanged: id and the
// timestamps are ignored, ownerId must still name the current owner.
type Stored struct {
	ID        *string `json:"id"`
	OwnerID   *string `json:"ownerId"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

// CheckOwner fails InvalidInput when the body tries to move the record to
// another owner.
func (s Stored) CheckOwner(current uuid.UUID) error {
	if s.OwnerID == nil {
		return nil
	}
	if id, err := uuid.Parse(*s.OwnerID); err != nil || id != current {
		return apperr.InvalidInput("ownerId cannot be changed")
	}
	return nil
}
