package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/domain/aiusage"
	"github.com/lifedoc/lifedoc/internal/domain/reference"
	"github.com/lifedoc/lifedoc/internal/domain/user"
	"github.com/lifedoc/lifedoc/internal/platform/db"
)

func TestMedicineRepo(t *testing.T) {
	pool := newSchemaPool(t, "medicine")
	ctx := context.Background()
	repo := reference.NewMedicineRepoPG(pool)

	for _, name := range []string{"Paracetamol", "Pantoprazole", "Metformin", "Vitamin_B12"} {
		m := &reference.Medicine{Name: name, Description: name + " tablets", Uses: []string{}, SideEffects: []string{}}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	t.Run("search is case-insensitive and ordered by name", func(t *testing.T) {
		got, err := repo.Search(ctx, "PA", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 2 || got[0].Name != "Pantoprazole" || got[1].Name != "Paracetamol" {
			t.Errorf("unexpected matches: %d rows", len(got))
		}
	})

	t.Run("search honours the limit", func(t *testing.T) {
		got, err := repo.Search(ctx, "", 3)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 rows, got %d", len(got))
		}
	})

	t.Run("underscore is literal", func(t *testing.T) {
		got, err := repo.Search(ctx, "_", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Vitamin_B12" {
			t.Errorf("expected only Vitamin_B12, got %d rows", len(got))
		}
	})

	t.Run("missing medicine", func(t *testing.T) {
		if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, db.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		err := repo.Update(ctx, &reference.Medicine{ID: uuid.New(), Name: "Ghost", Uses: []string{}, SideEffects: []string{}})
		if !errors.Is(err, db.ErrNotFound) {
			t.Errorf("expected ErrNotFound on update, got %v", err)
		}
	})
}

func TestUserRepo(t *testing.T) {
	pool := newSchemaPool(t, "users")
	ctx := context.Background()
	repo := user.NewRepoPG(pool)

	first := createTestUser(t, pool, "First")
	createTestUser(t, pool, "Second")

	t.Run("emails are unique regardless of case", func(t *testing.T) {
		upper := &user.User{Name: "Upper", Email: strings.ToUpper(first.Email), PasswordHash: "x", Type: user.TypeUser}
		if err := repo.Create(ctx, upper); !db.IsUniqueViolation(err) {
			t.Errorf("expected unique violation, got %v", err)
		}
	})

	t.Run("list pages newest first", func(t *testing.T) {
		got, total, err := repo.List(ctx, 1, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 2 || len(got) != 1 {
			t.Fatalf("expected 1 of 2 users, got %d of %d", len(got), total)
		}
		if got[0].Name != "Second" {
			t.Errorf("expected newest user first, got %s", got[0].Name)
		}
	})

	t.Run("set type on unknown user", func(t *testing.T) {
		if err := repo.SetType(ctx, uuid.New(), user.TypeAdmin); !errors.Is(err, db.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAIUsageRepo(t *testing.T) {
	pool := newSchemaPool(t, "aiusage")
	ctx := context.Background()
	repo := aiusage.NewRepoPG(pool)
	patient := createTestUser(t, pool, "Patient")

	t.Run("empty table totals to zero", func(t *testing.T) {
		totals, err := repo.Totals(ctx)
		if err != nil {
			t.Fatalf("Totals: %v", err)
		}
		if totals != (aiusage.Totals{}) {
			t.Errorf("expected zero totals, got %+v", totals)
		}
	})

	now := time.Now().UTC().Truncate(time.Second)
	insert := func(userID *uuid.UUID, at time.Time, prompt, completion int64) {
		t.Helper()
		_, err := pool.Exec(ctx, `
			INSERT INTO consultations (id, user_id, date, symptoms, prompt_tokens, completion_tokens, total_tokens)
			VALUES ($1, $2, $3, 'headache', $4, $5, $6)`,
			uuid.New(), userID, at, prompt, completion, prompt+completion)
		if err != nil {
			t.Fatalf("insert consultation: %v", err)
		}
	}
	insert(&patient.ID, now.Add(-2*time.Hour), 100, 50)
	insert(nil, now.Add(-time.Hour), 20, 10)
	insert(&patient.ID, now, 5, 5)

	t.Run("totals sum every consultation", func(t *testing.T) {
		totals, err := repo.Totals(ctx)
		if err != nil {
			t.Fatalf("Totals: %v", err)
		}
		want := aiusage.Totals{Consultations: 3, PromptTokens: 125, CompletionTokens: 65, TotalTokens: 190}
		if totals != want {
			t.Errorf("expected %+v, got %+v", want, totals)
		}
	})

	t.Run("recent joins the user and is newest first", func(t *testing.T) {
		got, err := repo.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 consultations, got %d", len(got))
		}
		if got[0].User == nil || got[0].User.ID != patient.ID || got[0].User.Email != patient.Email {
			t.Errorf("expected the newest consultation to carry its user, got %+v", got[0].User)
		}
		if got[1].User != nil {
			t.Errorf("expected an anonymous consultation, got %+v", got[1].User)
		}
		if got[0].TokenUsage.TotalTokens != 10 {
			t.Errorf("expected 10 tokens, got %d", got[0].TokenUsage.TotalTokens)
		}
	})
}
