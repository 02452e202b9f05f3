package aiusage

import (
	"context"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	t, err := s.repo.Totals(ctx)
	if err != nil {
		return Stats{}, apperr.Store("Error fetching AI stats", err)
	}
	return NewStats(t), nil
}

// Logs returns the most recent consultations with their user.
func (s *Service) Logs(ctx context.Context) ([]*Consultation, error) {
	items, err := s.repo.Recent(ctx, LogLimit)
	if err != nil {
		return nil, apperr.Store("Error fetching AI logs", err)
	}
	if items == nil {
		items = []*Consultation{}
	}
	return items, nil
}
