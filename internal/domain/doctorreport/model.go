package doctorreport

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
)

// Report maps to the doctor_reports table. Prescriptions are stored inline
// as a jsonb array and keep their ids across updates.
type Report struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"ownerId"`
	VisitDate     time.Time      `json:"visitDate"`
	DoctorName    string         `json:"doctorName"`
	Diagnosis     string         `json:"diagnosis"`
	Prescriptions []Prescription `json:"prescriptions"`
	Summary       string         `json:"summary"`
	FileURL       *string        `json:"fileUrl,omitempty"`
	FollowUpDate  *time.Time     `json:"followUpDate,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Prescription struct {
	ID           uuid.UUID `json:"id"`
	Medicine     string    `json:"medicine"`
	Dosage       *string   `json:"dosage,omitempty"`
	Frequency    *string   `json:"frequency,omitempty"`
	Duration     *string   `json:"duration,omitempty"`
	Instructions *string   `json:"instructions,omitempty"`
}

// PrescriptionInput is a prescription as submitted by a client. ID keeps the
// identity of a prescription already on the report when the list is replaced.
type PrescriptionInput struct {
	ID           *uuid.UUID `json:"id"`
	Medicine     string     `json:"medicine"`
	Dosage       *string    `json:"dosage"`
	Frequency    *string    `json:"frequency"`
	Duration     *string    `json:"duration"`
	Instructions *string    `json:"instructions"`
}

// PrescriptionPatch replaces only the fields present.
type PrescriptionPatch struct {
	Medicine     *string `json:"medicine"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Duration     *string `json:"duration"`
	Instructions *string `json:"instructions"`
}

type CreateInput struct {
	OwnerID       string              `json:"ownerId"`
	VisitDate     string              `json:"visitDate"`
	DoctorName    string              `json:"doctorName"`
	Diagnosis     string              `json:"diagnosis"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
	Summary       string              `json:"summary"`
	FileURL       *string             `json:"fileUrl"`
	FollowUpDate  *string             `json:"followUpDate"`
}

// AddPrescriptionInput is the POST /doctor-reports/:id/prescription body.
type AddPrescriptionInput struct {
	Prescription *PrescriptionInput `json:"prescription"`
}

// Patch is the PUT /doctor-reports/:id body. An empty followUpDate clears it.
type Patch struct {
	owner.Stored
	VisitDate     *string              `json:"visitDate"`
	DoctorName    *string              `json:"doctorName"`
	Diagnosis     *string              `json:"diagnosis"`
	Prescriptions *[]PrescriptionInput `json:"prescriptions"`
	Summary       *string              `json:"summary"`
	FileURL       *string              `json:"fileUrl"`
	FollowUpDate  *string              `json:"followUpDate"`
}

// ListQuery narrows an owner's reports. DoctorLike is a case-insensitive
// substring, Diagnosis an exact match.
type ListQuery struct {
	DoctorLike string
	Diagnosis  string
}
