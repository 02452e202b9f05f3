package aiusage

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/db"
)

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository {
	return &repoPG{q: q}
}

func (r *repoPG) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(total_tokens), 0)
		FROM consultations`,
	).Scan(&t.Consultations, &t.PromptTokens, &t.CompletionTokens, &t.TotalTokens)
	return t, err
}

func (r *repoPG) Recent(ctx context.Context, limit int) ([]*Consultation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id, c.date, c.symptoms, c.urgency, c.ai_summary, c.actions, c.lifestyle_advice,
			c.prompt_tokens, c.completion_tokens, c.total_tokens,
			u.id, u.name, u.email
		FROM consultations c
		LEFT JOIN users u ON u.id = c.user_id
		ORDER BY c.date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Consultation
	for rows.Next() {
		var (
			c         Consultation
			userID    *uuid.UUID
			name, eml *string
		)
		if err := rows.Scan(&c.ID, &c.Date, &c.Symptoms, &c.Urgency, &c.AISummary, &c.Actions, &c.LifestyleAdvice,
			&c.TokenUsage.PromptTokens, &c.TokenUsage.CompletionTokens, &c.TokenUsage.TotalTokens,
			&userID, &name, &eml); err != nil {
			return nil, err
		}
		if userID != nil {
			c.User = &UserRef{ID: *userID, Name: deref(name), Email: deref(eml)}
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
