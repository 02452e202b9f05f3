package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/pkg/pagination"
)

const minPasswordLen = 8

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, bcryptCost: bcrypt.DefaultCost}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperr.Store("Error fetching stats", err)
	}
	return st, nil
}

// List returns one page of users, newest first.
func (s *Service) List(ctx context.Context, p pagination.Params) (*Page, error) {
	p = pagination.New(p.Page, p.Limit)
	users, total, err := s.repo.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, apperr.Store("Error fetching users", err)
	}
	if users == nil {
		users = []*User{}
	}
	return &Page{
		Users:       users,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		TotalUsers:  total,
	}, nil
}

// Delete removes a user together with all of their records.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return apperr.NotFound(owner.ErrUserNotFound)
	}
	if err != nil {
		return apperr.Store("Error deleting user", err)
	}
	return nil
}

// Create registers an account with a bcrypt-hashed password. Type defaults
// to "user".
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, apperr.InvalidInput("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.InvalidInput("password must be at least %d characters", minPasswordLen)
	}
	userType := in.Type
	if userType == "" {
		userType = TypeUser
	}
	if !validTypes[userType] {
		return nil, apperr.InvalidInput("invalid user type %q: must be one of user, doctor, admin", userType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.InvalidInput("cannot hash password: %v", err)
	}

	u := &User{Name: name, Email: email, PasswordHash: string(hash), Type: userType}
	err = s.repo.Create(ctx, u)
	if db.IsUniqueViolation(err) {
		return nil, apperr.InvalidInput("a user with email %s already exists", email)
	}
	if err != nil {
		return nil, apperr.Store("Error creating user", err)
	}
	return u, nil
}

// Promote grants the admin role to the account registered under email.
func (s *Service) Promote(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound("User with email " + email + " not found")
	}
	if err != nil {
		return nil, apperr.Store("Error promoting user", err)
	}
	if err := s.repo.SetType(ctx, u.ID, TypeAdmin); err != nil {
		return nil, apperr.Store("Error promoting user", err)
	}
	u.Type = TypeAdmin
	return u, nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Authenticate returns the account for email when password matches. Unknown
// emails and wrong passwords fail with the same Unauthorized error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, apperr.Store("Error fetching user", err)
	}
	if !CheckPassword(u, password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	return u, nil
}
