package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeUser   = "user"
	TypeDoctor = "doctor"
	TypeAdmin  = "admin"
)

var validTypes = map[string]bool{TypeUser: true, TypeDoctor: true, TypeAdmin: true}

// User maps to the users table. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Type     string
}

// Stats is the admin dashboard summary.
type Stats struct {
	Users         int64 `json:"users"`
	Doctors       int64 `json:"doctors"`
	Admins        int64 `json:"admins"`
	DiaryEntries  int64 `json:"diaryEntries"`
	Measurements  int64 `json:"measurements"`
	LabReports    int64 `json:"labReports"`
	DoctorReports int64 `json:"doctorReports"`
}

// Page is the GET /admin/users response.
type Page struct {
	Users       []*User `json:"users"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalUsers  int     `json:"totalUsers"`
}
