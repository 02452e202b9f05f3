package labreport

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

const errReportNotFound = "Lab report not found"

type Service struct {
	repo   Repository
	owners owner.Checker
}

func NewService(repo Repository, owners owner.Checker) *Service {
	return &Service{repo: repo, owners: owners}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Report, error) {
	ownerID, err := owner.ParseAndEnsure(ctx, s.owners, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ReportDate) == "" {
		return nil, apperr.InvalidInput("reportDate is required")
	}
	date, err := query.ParseDate("reportDate", in.ReportDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.TestType) == "" {
		return nil, apperr.InvalidInput("testType is required")
	}

	r := &Report{
		OwnerID:       ownerID,
		ReportDate:    date,
		TestType:      in.TestType,
		ParsedResults: in.ParsedResults,
		FileURL:       in.FileURL,
		Notes:         in.Notes,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperr.Store("Error creating lab report", err)
	}
	return r, nil
}

func (s *Service) list(ctx context.Context, f query.Filter, lq ListQuery) ([]*Report, error) {
	if err := owner.Ensure(ctx, s.owners, f.OwnerID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f, lq)
	if err != nil {
		return nil, apperr.Store("Error retrieving lab reports", err)
	}
	return items, nil
}

func (s *Service) List(ctx context.Context, f query.Filter) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{})
}

// ListByTestType matches testType exactly, case included.
func (s *Service) ListByTestType(ctx context.Context, f query.Filter, testType string) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{TestType: testType})
}

// Search filters by a case-insensitive substring of the test type. An empty
// testType matches everything.
func (s *Service) Search(ctx context.Context, f query.Filter, testType string) ([]*Report, error) {
	return s.list(ctx, f, ListQuery{TestTypeLike: testType})
}

// Latest returns one report per test type, the most recent of each.
func (s *Service) Latest(ctx context.Context, ownerID uuid.UUID) ([]*Report, error) {
	if err := owner.Ensure(ctx, s.owners, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.Latest(ctx, ownerID)
	if err != nil {
		return nil, apperr.Store("Error retrieving lab reports", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error retrieving lab report", err)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CheckOwner(r.OwnerID); err != nil {
		return nil, err
	}

	if p.ReportDate != nil {
		d, err := query.ParseDate("reportDate", *p.ReportDate)
		if err != nil {
			return nil, err
		}
		r.ReportDate = d
	}
	if p.TestType != nil {
		if strings.TrimSpace(*p.TestType) == "" {
			return nil, apperr.InvalidInput("testType cannot be empty")
		}
		r.TestType = *p.TestType
	}
	if p.ParsedResults != nil {
		r.ParsedResults = *p.ParsedResults
	}
	if p.FileURL != nil {
		r.FileURL = p.FileURL
	}
	if p.Notes != nil {
		r.Notes = p.Notes
	}

	err = s.repo.Update(ctx, r)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating lab report", err)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errReportNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error deleting lab report", err)
	}
	return r, nil
}
