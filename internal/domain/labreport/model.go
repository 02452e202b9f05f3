package labreport

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
)

// Report maps to the lab_reports table. ParsedResults holds whatever
// key/value data was extracted from the uploaded file.
type Report struct {
	ID            uuid.UUID              `json:"id"`
	OwnerID       uuid.UUID              `json:"ownerId"`
	ReportDate    time.Time              `json:"reportDate"`
	TestType      string                 `json:"testType"`
	ParsedResults map[string]interface{} `json:"parsedResults,omitempty"`
	FileURL       *string                `json:"fileUrl,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

type CreateInput struct {
	OwnerID       string                 `json:"ownerId"`
	ReportDate    string                 `json:"reportDate"`
	TestType      string                 `json:"testType"`
	ParsedResults map[string]interface{} `json:"parsedResults"`
	FileURL       *string                `json:"fileUrl"`
	Notes         *string                `json:"notes"`
}

// Patch is the PUT /lab-reports/:id body. ParsedResults replaces the whole
// map when present.
type Patch struct {
	owner.Stored
	ReportDate    *string                 `json:"reportDate"`
	TestType      *string                 `json:"testType"`
	ParsedResults *map[string]interface{} `json:"parsedResults"`
	FileURL       *string                 `json:"fileUrl"`
	Notes         *string                 `json:"notes"`
}

// ListQuery narrows an owner's reports. TestType is an exact match,
// TestTypeLike a case-insensitive substring.
type ListQuery struct {
	TestType     string
	TestTypeLike string
}
