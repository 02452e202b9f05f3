package measurement

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/query"
)

// -- Mock Repository --

type mockRepo struct {
	store map[uuid.UUID]*Measurement
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Measurement)}
}

func clone(m *Measurement) *Measurement {
	cp := *m
	cp.Readings = append([]Reading{}, m.Readings...)
	return &cp
}

func (r *mockRepo) Upsert(_ context.Context, m *Measurement) error {
	for _, existing := range r.store {
		if existing.OwnerID == m.OwnerID && existing.Date.Equal(m.Date) {
			existing.Readings = append(existing.Readings, m.Readings...)
			*m = *clone(existing)
			return nil
		}
	}
	m.ID = uuid.New()
	r.store[m.ID] = clone(m)
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Measurement, error) {
	m, ok := r.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return clone(m), nil
}

func (r *mockRepo) Update(_ context.Context, m *Measurement) error {
	if _, ok := r.store[m.ID]; !ok {
		return db.ErrNotFound
	}
	for id, other := range r.store {
		if id != m.ID && other.OwnerID == m.OwnerID && other.Date.Equal(m.Date) {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	r.store[m.ID] = clone(m)
	return nil
}

func (r *mockRepo) Delete(_ context.Context, id uuid.UUID) (*Measurement, error) {
	m, ok := r.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	delete(r.store, id)
	return m, nil
}

func (r *mockRepo) List(_ context.Context, f query.Filter, readingType string) ([]*Measurement, error) {
	var out []*Measurement
	for _, m := range r.store {
		if m.OwnerID != f.OwnerID {
			continue
		}
		if f.Range.Start != nil && m.Date.Before(*f.Range.Start) {
			continue
		}
		if f.Range.End != nil && m.Date.After(*f.Range.End) {
			continue
		}
		if readingType != "" && !hasType(m, readingType) {
			continue
		}
		out = append(out, clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func hasType(m *Measurement, t string) bool {
	for _, r := range m.Readings {
		if r.Type == t {
			return true
		}
	}
	return false
}

var fixedNow = time.Date(2025, 12, 26, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo, uuid.UUID) {
	repo := newMockRepo()
	user := uuid.New()
	svc := NewService(repo, owner.Set{user: true})
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, user
}

func reading(t, value string) ReadingInput {
	return ReadingInput{Type: t, Value: json.RawMessage(value)}
}

// -- Service Tests --

func TestCreate_UpsertAppendsInOrder(t *testing.T) {
	svc, repo, user := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26", Readings: []ReadingInput{reading(TypeGlucose, "110")}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26T18:00:00Z", Readings: []ReadingInput{
		reading(TypeWeight, "70.5"),
		reading(TypeBloodPressure, `{"systolic":120,"diastolic":80}`),
	}})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same day must reuse the row")
	assert.Len(t, repo.store, 1)
	require.Len(t, second.Readings, 3)
	assert.Equal(t, []string{TypeGlucose, TypeWeight, TypeBloodPressure},
		[]string{second.Readings[0].Type, second.Readings[1].Type, second.Readings[2].Type})
	assert.Equal(t, fixedNow, second.Readings[0].Timestamp)

	third, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-27", Readings: []ReadingInput{reading(TypeSpO2, "98")}})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestCreate_Failures(t *testing.T) {
	svc, repo, user := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{OwnerID: uuid.New().String(), Date: "2025-12-26"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "26.12.2025"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26", Readings: []ReadingInput{reading("cholesterol", "180")}})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26", Readings: []ReadingInput{reading(TypeBloodPressure, "120")}})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	assert.Empty(t, repo.store)
}

func TestListByType(t *testing.T) {
	svc, _, user := newTestService()
	ctx := context.Background()
	for d, typ := range map[string]string{"2025-01-01": TypeGlucose, "2025-01-02": TypeWeight, "2025-01-03": TypeGlucose} {
		_, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: d, Readings: []ReadingInput{reading(typ, "1")}})
		require.NoError(t, err)
	}

	items, err := svc.ListByType(ctx, query.Filter{OwnerID: user}, TypeGlucose)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Date.After(items[1].Date))

	all, err := svc.List(ctx, query.Filter{OwnerID: user})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.List(ctx, query.Filter{OwnerID: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReadingLifecycle(t *testing.T) {
	svc, _, user := newTestService()
	ctx := context.Background()
	m, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26", Readings: []ReadingInput{
		reading(TypeGlucose, "110"), reading(TypeHeartRate, "72"),
	}})
	require.NoError(t, err)
	firstID, secondID := m.Readings[0].ID, m.Readings[1].ID

	m, err = svc.AddReading(ctx, m.ID, reading(TypeSpO2, "97"))
	require.NoError(t, err)
	require.Len(t, m.Readings, 3)

	notes := "after lunch"
	m, err = svc.UpdateReading(ctx, m.ID, firstID, ReadingPatch{Value: json.RawMessage("140"), Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, firstID, m.Readings[0].ID, "identity must be stable")
	assert.JSONEq(t, "140", string(m.Readings[0].Value))
	assert.Equal(t, TypeGlucose, m.Readings[0].Type)
	assert.Equal(t, "after lunch", *m.Readings[0].Notes)

	bp := TypeBloodPressure
	_, err = svc.UpdateReading(ctx, m.ID, firstID, ReadingPatch{Type: &bp})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput), "numeric value no longer fits bloodPressure")

	m, err = svc.DeleteReading(ctx, m.ID, secondID)
	require.NoError(t, err)
	require.Len(t, m.Readings, 2)
	assert.Equal(t, firstID, m.Readings[0].ID)

	_, err = svc.DeleteReading(ctx, m.ID, secondID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Reading not found", err.Error())

	_, err = svc.AddReading(ctx, uuid.New(), reading(TypeSpO2, "97"))
	assert.Equal(t, "Measurement not found", err.Error())
}

func TestUpdate_MoveDate(t *testing.T) {
	svc, _, user := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-01-01", Readings: []ReadingInput{reading(TypeWeight, "70")}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-01-02", Readings: []ReadingInput{reading(TypeWeight, "71")}})
	require.NoError(t, err)

	moved := "2025-01-05"
	got, err := svc.Update(ctx, a.ID, Patch{Date: &moved})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Len(t, got.Readings, 1)

	clash := "2025-01-02"
	_, err = svc.Update(ctx, a.ID, Patch{Date: &clash})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.True(t, strings.Contains(err.Error(), "2025-01-02"))
}

func TestDelete(t *testing.T) {
	svc, repo, user := newTestService()
	ctx := context.Background()
	m, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-01-01", Readings: []ReadingInput{reading(TypeWeight, "70")}})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, deleted.Readings, 1, "snapshot includes sub-entities")
	assert.Empty(t, repo.store)

	_, err = svc.Get(ctx, m.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdate_ReplaceReadingsKeepsKnownIDs(t *testing.T) {
	svc, _, user := newTestService()
	ctx := context.Background()
	m, err := svc.Create(ctx, CreateInput{OwnerID: user.String(), Date: "2025-12-26", Readings: []ReadingInput{
		reading(TypeGlucose, "110"), reading(TypeHeartRate, "72"),
	}})
	require.NoError(t, err)
	glucose, heartRate := m.Readings[0].ID, m.Readings[1].ID

	svc.now = func() time.Time { return fixedNow.Add(3 * time.Hour) }
	kept := reading(TypeGlucose, "125")
	kept.ID = &glucose
	stranger := uuid.New()
	unknown := reading(TypeWeight, "70")
	unknown.ID = &stranger

	got, err := svc.Update(ctx, m.ID, Patch{Readings: &[]ReadingInput{kept, reading(TypeSpO2, "98"), unknown}})
	require.NoError(t, err)
	require.Len(t, got.Readings, 3)

	assert.Equal(t, glucose, got.Readings[0].ID)
	assert.JSONEq(t, "125", string(got.Readings[0].Value))
	assert.Equal(t, fixedNow, got.Readings[0].Timestamp, "kept reading keeps its timestamp")
	assert.NotEqual(t, uuid.Nil, got.Readings[1].ID)
	assert.Equal(t, fixedNow.Add(3*time.Hour), got.Readings[1].Timestamp)
	assert.NotEqual(t, stranger, got.Readings[2].ID, "unknown ids are not adopted")

	notes := "fasting"
	_, err = svc.UpdateReading(ctx, m.ID, glucose, ReadingPatch{Notes: &notes})
	assert.NoError(t, err, "kept reading still resolves")
	_, err = svc.UpdateReading(ctx, m.ID, heartRate, ReadingPatch{Notes: &notes})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "dropped reading is gone")
}

func TestUpdate_RejectsOwnerChange(t *testing.T) {
	svc, _, user := newTestService()
	m, err := svc.Create(context.Background(), CreateInput{OwnerID: user.String(), Date: "2025-12-26"})
	require.NoError(t, err)

	other := uuid.NewString()
	_, err = svc.Update(context.Background(), m.ID, Patch{Stored: owner.Stored{OwnerID: &other}})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}
