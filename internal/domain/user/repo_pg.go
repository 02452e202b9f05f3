package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lifedoc/lifedoc/internal/platform/db"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

const userCols = `id, name, email, password_hash, type, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Type, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	return r.q.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Type,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *repoPG) SetType(ctx context.Context, id uuid.UUID, userType string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET type = $2, updated_at = NOW() WHERE id = $1`, id, userType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// Delete removes the user; the foreign keys cascade to every record they own.
func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE type = 'user'),
			(SELECT COUNT(*) FROM users WHERE type = 'doctor'),
			(SELECT COUNT(*) FROM users WHERE type = 'admin'),
			(SELECT COUNT(*) FROM diary_entries),
			(SELECT COUNT(*) FROM measurements),
			(SELECT COUNT(*) FROM lab_reports),
			(SELECT COUNT(*) FROM doctor_reports)`,
	).Scan(&s.Users, &s.Doctors, &s.Admins, &s.DiaryEntries, &s.Measurements, &s.LabReports, &s.DoctorReports)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
