package measurement

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
	errMeasurementNotFound = "Measurement not found"
	errReadingNotFound     = "Reading not found"
)

type Service struct {
	repo   Repository
	owners owner.Checker
	now    func() time.Time
}

func NewService(repo Repository, owners owner.Checker) *Service {
	return &Service{repo: repo, owners: owners, now: time.Now}
}

// buildReading validates in and assigns the reading its identity.
func (s *Service) buildReading(in ReadingInput) (Reading, error) {
	if !validTypes[in.Type] {
		return Reading{}, apperr.InvalidInput("invalid reading type %q: must be one of glucose, bloodPressure, weight, heartRate, spo2, other", in.Type)
	}
	if err := validateValue(in.Type, in.Value); err != nil {
		return Reading{}, err
	}
	ts := s.now()
	if in.Timestamp != nil {
		t, err := query.ParseDate("timestamp", *in.Timestamp)
		if err != nil {
			return Reading{}, err
		}
		ts = t
	}
	return Reading{
		ID:        uuid.New(),
		Type:      in.Type,
		Timestamp: ts,
		Value:     in.Value,
		Unit:      in.Unit,
		Notes:     in.Notes,
	}, nil
}

func (s *Service) buildReadings(in []ReadingInput) ([]Reading, error) {
	out := make([]Reading, 0, len(in))
	for _, ri := range in {
		r, err := s.buildReading(ri)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// replaceReadings builds a row's new reading list. An input whose id names a
// reading currently on the row keeps that id, and its timestamp when none is
// given; every other input is a new reading.
func (s *Service) replaceReadings(current []Reading, in []ReadingInput) ([]Reading, error) {
	kept := lo.KeyBy(current, func(r Reading) uuid.UUID { return r.ID })
	out := make([]Reading, 0, len(in))
	for _, ri := range in {
		r, err := s.buildReading(ri)
		if err != nil {
			return nil, err
		}
		if ri.ID != nil {
			if prev, ok := kept[*ri.ID]; ok {
				r.ID = prev.ID
				if ri.Timestamp == nil {
					r.Timestamp = prev.Timestamp
				}
				delete(kept, prev.ID)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Create records readings for (owner, date). If that day already has a row
// the readings are appended to it, in submission order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Measurement, error) {
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
	readings, err := s.buildReadings(in.Readings)
	if err != nil {
		return nil, err
	}

	m := &Measurement{OwnerID: ownerID, Date: DayOf(date), Readings: readings}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, apperr.Store("Error creating measurement", err)
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, f query.Filter) ([]*Measurement, error) {
	return s.list(ctx, f, "")
}

// ListByType returns rows holding at least one reading of readingType.
func (s *Service) ListByType(ctx context.Context, f query.Filter, readingType string) ([]*Measurement, error) {
	return s.list(ctx, f, readingType)
}

func (s *Service) list(ctx context.Context, f query.Filter, readingType string) ([]*Measurement, error) {
	if err := owner.Ensure(ctx, s.owners, f.OwnerID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, f, readingType)
	if err != nil {
		return nil, apperr.Store("Error retrieving measurements", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Measurement, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errMeasurementNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error retrieving measurement", err)
	}
	return m, nil
}

// Update moves the row to another day and/or replaces its readings. Readings
// sent back with their ids keep them.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Measurement, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CheckOwner(m.OwnerID); err != nil {
		return nil, err
	}
	if p.Date != nil {
		d, err := query.ParseDate("date", *p.Date)
		if err != nil {
			return nil, err
		}
		m.Date = DayOf(d)
	}
	if p.Readings != nil {
		readings, err := s.replaceReadings(m.Readings, *p.Readings)
		if err != nil {
			return nil, err
		}
		m.Readings = readings
	}
	if err := s.save(ctx, m, "Error updating measurement"); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) save(ctx context.Context, m *Measurement, msg string) error {
	err := s.repo.Update(ctx, m)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return apperr.NotFound(errMeasurementNotFound)
	case db.IsUniqueViolation(err):
		return apperr.InvalidInput("a measurement already exists for %s", m.Date.Format("2006-01-02"))
	default:
		return apperr.Store(msg, err)
	}
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Measurement, error) {
	m, err := s.repo.Delete(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound(errMeasurementNotFound)
	}
	if err != nil {
		return nil, apperr.Store("Error deleting measurement", err)
	}
	return m, nil
}

// AddReading appends one reading to an existing row.
func (s *Service) AddReading(ctx context.Context, id uuid.UUID, in ReadingInput) (*Measurement, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.buildReading(in)
	if err != nil {
		return nil, err
	}
	m.Readings = append(m.Readings, r)
	if err := s.save(ctx, m, "Error adding reading"); err != nil {
		return nil, err
	}
	return m, nil
}

func indexOf(readings []Reading, readingID uuid.UUID) int {
	for i := range readings {
		if readings[i].ID == readingID {
			return i
		}
	}
	return -1
}

// UpdateReading merges p into the reading; its id and position are kept.
func (s *Service) UpdateReading(ctx context.Context, id, readingID uuid.UUID, p ReadingPatch) (*Measurement, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i := indexOf(m.Readings, readingID)
	if i < 0 {
		return nil, apperr.NotFound(errReadingNotFound)
	}

	r := m.Readings[i]
	if p.Type != nil {
		if !validTypes[*p.Type] {
			return nil, apperr.InvalidInput("invalid reading type %q", *p.Type)
		}
		r.Type = *p.Type
	}
	if p.Value != nil {
		r.Value = p.Value
	}
	if p.Type != nil || p.Value != nil {
		if err := validateValue(r.Type, r.Value); err != nil {
			return nil, err
		}
	}
	if p.Timestamp != nil {
		ts, err := query.ParseDate("timestamp", *p.Timestamp)
		if err != nil {
			return nil, err
		}
		r.Timestamp = ts
	}
	if p.Unit != nil {
		r.Unit = p.Unit
	}
	if p.Notes != nil {
		r.Notes = p.Notes
	}
	m.Readings[i] = r

	if err := s.save(ctx, m, "Error updating reading"); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteReading(ctx context.Context, id, readingID uuid.UUID) (*Measurement, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	i := indexOf(m.Readings, readingID)
	if i < 0 {
		return nil, apperr.NotFound(errReadingNotFound)
	}
	m.Readings = append(m.Readings[:i], m.Readings[i+1:]...)
	if err := s.save(ctx, m, "Error deleting reading"); err != nil {
		return nil, err
	}
	return m, nil
}
