package diary

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

const errEntryNotFound = "Diary entry not found"

type Service struct {
	repo   Repository
	owners owner.Checker
}

func NewService(repo Repository, owners owner.Checker) *Service {
	return &Service{repo: repo, owners: owners}
}

func validateMood(m *string) error {
	if m != nil && !validMoods[*m] {
		return apperr.InvalidInput("invalid mood %q: must be one of happy, neutral, stressed, sad, anxious, energetic", *m)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	ownerID, err := owner.ParseAndEnsure(ctx, s.owners, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, apperr.InvalidInput("date is required")
	}
	date, err := query.ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, apperr.InvalidInput("summary is required")
	}
	if err := validateMood(in.Mood); err != nil {
		return nil, err
	}

	e := &Entry{
		OwnerID: ownerID,
		Date:    date,
		RawText: in.RawText,
		Summary: in.Summary,
		Mood:    in.Mood,
		Tags:    normalizeTags(in.Tags),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperr.Store("Error creating diary entry", err)
	}
	return e, nil
}

func (s *Service) list(ctx context.Context, f query.Filter, lq ListQuery) ([]*Entry, error) {
	if err := owner.Ensure(ctx, s.owners, f.OwnerID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f, lq)
	if err != nil {
		return nil, apperr.Store("Error retrieving diary entries", err)
	}
	return items, nil
}

// List returns the owner's entries, newest first.
func (s *Service) List(ctx context.Context, f query.Filter) ([]*Entry, error) {
	return s.list(ctx, f, ListQuery{})
}

func (s *Service) ListByMood(ctx context.Context, f query.Filter, mood string) ([]*Entry, error) {
	return s.list(ctx, f, ListQuery{Mood: mood})
}

// ListByTag matches entries whose tag set contains tag exactly.
func (s *Service) ListByTag(ctx context.Context, f query.Filter, tag string) ([]*Entry, error) {
	return s.list(ctx, f, ListQuery{Tag: tag})
}

// MoodStats counts entries per mood, most frequent first.
func (s *Service) MoodStats(ctx context.Context, f query.Filter) ([]MoodCount, error) {
	if err := owner.Ensure(ctx, s.owners, f.OwnerID); err != nil {
		return nil, err
	}
	stats, err := s.repo.MoodStats(ctx, f)
	if err != nil {
		return nil, apperr.Store("Error retrieving mood statistics", err)
	}
	if stats == nil {
		stats = []MoodCount{}
	}
	return stats, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errEntryNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error retrieving diary entry", err)
	}
	return e, nil
}

// Update applies a shallow merge of p onto the stored entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CheckOwner(e.OwnerID); err != nil {
		return nil, err
	}

	if p.Date != nil {
		d, err := query.ParseDate("date", *p.Date)
		if err != nil {
			return nil, err
		}
		e.Date = d
	}
	if p.RawText != nil {
		e.RawText = p.RawText
	}
	if p.Summary != nil {
		if strings.TrimSpace(*p.Summary) == "" {
			return nil, apperr.InvalidInput("summary cannot be empty")
		}
		e.Summary = *p.Summary
	}
	if p.Mood != nil {
		if err := validateMood(p.Mood); err != nil {
			return nil, err
		}
		e.Mood = p.Mood
	}
	if p.Tags != nil {
		e.Tags = normalizeTags(*p.Tags)
	}

	err = s.repo.Update(ctx, e)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errEntryNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error updating diary entry", err)
	}
	return e, nil
}

// Delete removes the entry and returns what was stored.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errEntryNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error deleting diary entry", err)
	}
	return e, nil
}
