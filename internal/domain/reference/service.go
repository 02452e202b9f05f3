package reference

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/db"
)

const (
	errMedicineNotFound = "Medicine not found"
	errLabTestNotFound  = "Lab test not found"
	errNameDescription  = "Name and Description are required"
)

type Service struct {
	medicines MedicineRepository
	labTests  LabTestRepository
}

func NewService(medicines MedicineRepository, labTests LabTestRepository) *Service {
	return &Service{medicines: medicines, labTests: labTests}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// nonEmptyIfSet rejects a present but blank name or description.
func nonEmptyIfSet(values ...*string) error {
	for _, v := range values {
		if v != nil && blank(v) {
			return apperr.InvalidInput(errNameDescription)
		}
	}
	return nil
}

// -- Medicines --

func (s *Service) AddMedicine(ctx context.Context, in MedicineInput) (*Medicine, error) {
	if blank(in.Name) || blank(in.Description) {
		return nil, apperr.InvalidInput(errNameDescription)
	}
	m := &Medicine{
		Name:         *in.Name,
		Description:  *in.Description,
		Brand:        in.Brand,
		DosageInfo:   in.DosageInfo,
		Manufacturer: in.Manufacturer,
		Category:     in.Category,
		Uses:         orEmpty(in.Uses),
		SideEffects:  orEmpty(in.SideEffects),
	}
	if err := s.medicines.Create(ctx, m); err != nil {
		return nil, apperr.Store("Error adding medicine", err)
	}
	return m, nil
}

// ListMedicines returns at most SearchLimit medicines whose name contains
// search, ignoring case.
func (s *Service) ListMedicines(ctx context.Context, search string) ([]*Medicine, error) {
	items, err := s.medicines.Search(ctx, strings.TrimSpace(search), SearchLimit)
	if err != nil {
		return nil, apperr.Store("Error fetching medicines", err)
	}
	if items == nil {
		items = []*Medicine{}
	}
	return items, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id uuid.UUID, in MedicineInput) (*Medicine, error) {
	if err := nonEmptyIfSet(in.Name, in.Description); err != nil {
		return nil, err
	}
	m, err := s.medicines.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errMedicineNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating medicine", err)
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Brand != nil {
		m.Brand = in.Brand
	}
	if in.DosageInfo != nil {
		m.DosageInfo = in.DosageInfo
	}
	if in.Manufacturer != nil {
		m.Manufacturer = in.Manufacturer
	}
	if in.Category != nil {
		m.Category = in.Category
	}
	if in.Uses != nil {
		m.Uses = in.Uses
	}
	if in.SideEffects != nil {
		m.SideEffects = in.SideEffects
	}

	err = s.medicines.Update(ctx, m)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errMedicineNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating medicine", err)
	}
	return m, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	err := s.medicines.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return apperr.NotFound(errMedicineNotFound)
	}
	if err != nil {
		return apperr.Store("Error deleting medicine", err)
	}
	return nil
}

// -- Lab tests --
// There is deliberately no delete: lab tests are only added and edited.

func (s *Service) AddLabTest(ctx context.Context, in LabTestInput) (*LabTest, error) {
	if blank(in.Name) || blank(in.Description) {
		return nil, apperr.InvalidInput(errNameDescription)
	}
	t := &LabTest{
		Name:                 *in.Name,
		Description:          *in.Description,
		NormalRange:          in.NormalRange,
		Preparation:          in.Preparation,
		ClinicalSignificance: in.ClinicalSignificance,
		Category:             in.Category,
	}
	if err := s.labTests.Create(ctx, t); err != nil {
		return nil, apperr.Store("Error adding lab test", err)
	}
	return t, nil
}

func (s *Service) ListLabTests(ctx context.Context) ([]*LabTest, error) {
	items, err := s.labTests.List(ctx)
	if err != nil {
		return nil, apperr.Store("Error fetching lab tests", err)
	}
	if items == nil {
		items = []*LabTest{}
	}
	return items, nil
}

func (s *Service) UpdateLabTest(ctx context.Context, id uuid.UUID, in LabTestInput) (*LabTest, error) {
	if err := nonEmptyIfSet(in.Name, in.Description); err != nil {
		return nil, err
	}
	t, err := s.labTests.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errLabTestNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating lab test", err)
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.NormalRange != nil {
		t.NormalRange = in.NormalRange
	}
	if in.Preparation != nil {
		t.Preparation = in.Preparation
	}
	if in.ClinicalSignificance != nil {
		t.ClinicalSignificance = in.ClinicalSignificance
	}
	if in.Category != nil {
		t.Category = in.Category
	}

	err = s.labTests.Update(ctx, t)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errLabTestNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating lab test", err)
	}
	return t, nil
}
