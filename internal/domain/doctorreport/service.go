package doctorreport

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

const (
	errReportNotFound       = "Doctor report not found"
	errPrescriptionNotFound = "Prescription not found"
)

type Service struct {
	repo   Repository
	owners owner.Checker
	now    func() time.Time
}

func NewService(repo Repository, owners owner.Checker) *Service {
	return &Service{repo: repo, owners: owners, now: time.Now}
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.InvalidInput("%s is required", field)
	}
	return nil
}

func buildPrescription(in PrescriptionInput) (Prescription, error) {
	if err := required("medicine", in.Medicine); err != nil {
		return Prescription{}, err
	}
	return Prescription{
		ID:           uuid.New(),
		Medicine:     in.Medicine,
		Dosage:       in.Dosage,
		Frequency:    in.Frequency,
		Duration:     in.Duration,
		Instructions: in.Instructions,
	}, nil
}

func buildPrescriptions(in []PrescriptionInput) ([]Prescription, error) {
	out := make([]Prescription, 0, len(in))
	for _, pi := range in {
		p, err := buildPrescription(pi)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// replacePrescriptions builds a report's new prescription list. An input
// whose id names a prescription currently on the report keeps that id.
func replacePrescriptions(current []Prescription, in []PrescriptionInput) ([]Prescription, error) {
	kept := lo.SliceToMap(current, func(p Prescription) (uuid.UUID, bool) { return p.ID, true })
	out := make([]Prescription, 0, len(in))
	for _, pi := range in {
		p, err := buildPrescription(pi)
		if err != nil {
			return nil, err
		}
		if pi.ID != nil && kept[*pi.ID] {
			p.ID = *pi.ID
			delete(kept, *pi.ID)
		}
		out = append(out, p)
	}
	return out, nil
}

// parseFollowUp reads an optional follow-up date; nil or empty means none.
func parseFollowUp(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return query.ParseOptionalDate("followUpDate", *raw)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Report, error) {
	ownerID, err := owner.ParseAndEnsure(ctx, s.owners, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := required("visitDate", in.VisitDate); err != nil {
		return nil, err
	}
	visit, err := query.ParseDate("visitDate", in.VisitDate)
	if err != nil {
		return nil, err
	}
	if err := required("doctorName", in.DoctorName); err != nil {
		return nil, err
	}
	if err := required("diagnosis", in.Diagnosis); err != nil {
		return nil, err
	}
	if err := required("summary", in.Summary); err != nil {
		return nil, err
	}
	followUp, err := parseFollowUp(in.FollowUpDate)
	if err != nil {
		return nil, err
	}
	prescriptions, err := buildPrescriptions(in.Prescriptions)
	if err != nil {
		return nil, err
	}

	r := &Report{
		OwnerID:       ownerID,
		VisitDate:     visit,
		DoctorName:    in.DoctorName,
		Diagnosis:     in.Diagnosis,
		Prescriptions: prescriptions,
		Summary:       in.Summary,
		FileURL:       in.FileURL,
		FollowUpDate:  followUp,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperr.Store("Error creating doctor report", err)
	}
	return r, nil
}

func (s *Service) list(ctx context.Context, f query.Filter, lq ListQuery) ([]*Report, error) {
	if err := owner.Ensure(ctx, s.owners, f.OwnerID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f, lq)
	if err != nil {
		return nil, apperr.Store("Error retrieving doctor reports", err)
	}
	return items, nil
}

func (s *Service) List(ctx context.Context, f query.Filter) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{})
}

// ListByDoctor matches doctorName as a case-insensitive substring.
func (s *Service) ListByDoctor(ctx context.Context, f query.Filter, doctorName string) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{DoctorLike: doctorName})
}

func (s *Service) ListByDiagnosis(ctx context.Context, f query.Filter, diagnosis string) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{Diagnosis: diagnosis})
}

// Search combines the doctor substring and exact diagnosis filters; empty
// values are ignored.
func (s *Service) Search(ctx context.Context, f query.Filter, doctorName, diagnosis string) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{DoctorLike: doctorName, Diagnosis: diagnosis})
}

// PendingFollowUps returns reports with a follow-up on or after the start of
// today in the server's local time zone, soonest first.
func (s *Service) PendingFollowUps(ctx context.Context, ownerID uuid.UUID) ([]*Report, error) {
	if err := owner.Ensure(ctx, s.owners, ownerID); err != nil {
		return nil, err
	}
	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	items, err := s.repo.FollowUps(ctx, ownerID, today)
	if err != nil {
		return nil, apperr.Store("Error retrieving follow-ups", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error retrieving doctor report", err)
	}
	return r, nil
}

func (s *Service) save(ctx context.Context, r *Report, msg string) error {
	err := s.repo.Update(ctx, r)
	if errors.Is(err, db.ErrNotFound) {
		return apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return apperr.Store(msg, err)
	}
	return nil
}

// Update applies a shallow merge of p. Replacing the prescription list keeps
// the ids of prescriptions sent back with them and assigns new ones to the
// rest.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CheckOwner(r.OwnerID); err != nil {
		return nil, err
	}

	if p.VisitDate != nil {
		d, err := query.ParseDate("visitDate", *p.VisitDate)
		if err != nil {
			return nil, err
		}
		r.VisitDate = d
	}
	if p.DoctorName != nil {
		if err := required("doctorName", *p.DoctorName); err != nil {
			return nil, err
		}
		r.DoctorName = *p.DoctorName
	}
	if p.Diagnosis != nil {
		if err := required("diagnosis", *p.Diagnosis); err != nil {
			return nil, err
		}
		r.Diagnosis = *p.Diagnosis
	}
	if p.Summary != nil {
		if err := required("summary", *p.Summary); err != nil {
			return nil, err
		}
		r.Summary = *p.Summary
	}
	if p.Prescriptions != nil {
		prescriptions, err := replacePrescriptions(r.Prescriptions, *p.Prescriptions)
		if err != nil {
			return nil, err
		}
		r.Prescriptions = prescriptions
	}
	if p.FileURL != nil {
		r.FileURL = p.FileURL
	}
	if p.FollowUpDate != nil {
		followUp, err := parseFollowUp(p.FollowUpDate)
		if err != nil {
			return nil, err
		}
		r.FollowUpDate = followUp
	}

	if err := s.save(ctx, r, "Error updating doctor report"); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error deleting doctor report", err)
	}
	return r, nil
}

func (s *Service) AddPrescription(ctx context.Context, id uuid.UUID, in PrescriptionInput) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := buildPrescription(in)
	if err != nil {
		return nil, err
	}
	r.Prescriptions = append(r.Prescriptions, p)
	if err := s.save(ctx, r, "Error adding prescription"); err != nil {
		return nil, err
	}
	return r, nil
}

func indexOf(list []Prescription, id uuid.UUID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdatePrescription merges p into one prescription, keeping its id and
// position.
func (s *Service) UpdatePrescription(ctx context.Context, id, prescriptionID uuid.UUID, p PrescriptionPatch) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i := indexOf(r.Prescriptions, prescriptionID)
	if i < 0 {
		return nil, apperr.NotFound(errPrescriptionNotFound)
	}

	rx := &r.Prescriptions[i]
	if p.Medicine != nil {
		if err := required("medicine", *p.Medicine); err != nil {
			return nil, err
		}
		rx.Medicine = *p.Medicine
	}
	if p.Dosage != nil {
		rx.Dosage = p.Dosage
	}
	if p.Frequency != nil {
		rx.Frequency = p.Frequency
	}
	if p.Duration != nil {
		rx.Duration = p.Duration
	}
	if p.Instructions != nil {
		rx.Instructions = p.Instructions
	}

	if err := s.save(ctx, r, "Error updating prescription"); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) DeletePrescription(ctx context.Context, id, prescriptionID uuid.UUID) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i := indexOf(r.Prescriptions, prescriptionID)
	if i < 0 {
		return nil, apperr.NotFound(errPrescriptionNotFound)
	}
	r.Prescriptions = append(r.Prescriptions[:i], r.Prescriptions[i+1:]...)
	if err := s.save(ctx, r, "Error deleting prescription"); err != nil {
		return nil, err
	}
	return r, nil
}
