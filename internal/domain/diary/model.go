package diary

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
)

var validMoods = map[string]bool{
	"happy": true, "neutral": true, "stressed": true,
	"sad": true, "anxious": true, "energetic": true,
}

// Entry maps to the diary_entries table.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Date      time.Time `json:"date"`
	RawText   *string   `json:"rawText,omitempty"`
	Summary   string    `json:"summary"`
	Mood      *string   `json:"mood,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput is the POST /diary body.
type CreateInput struct {
	OwnerID string   `json:"ownerId"`
	Date    string   `json:"date"`
	RawText *string  `json:"rawText"`
	Summary string   `json:"summary"`
	Mood    *string  `json:"mood"`
	Tags    []string `json:"tags"`
}

// Patch is the PUT /diary/:id body. Absent fields are left untouched.
type Patch struct {
	owner.Stored
	Date    *string   `json:"date"`
	RawText *string   `json:"rawText"`
	Summary *string   `json:"summary"`
	Mood    *string   `json:"mood"`
	Tags    *[]string `json:"tags"`
}

// MoodCount is one row of the mood histogram. Mood is nil for entries
// recorded without one.
type MoodCount struct {
	Mood  *string `json:"mood"`
	Count int64   `json:"count"`
}

// ListQuery narrows an owner's entries.
type ListQuery struct {
	Mood string
	Tag  string
}

// normalizeTags trims, drops empties and removes duplicates keeping the
// first occurrence.
func normalizeTags(tags []string) []string {
	out := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
	if out == nil {
		return []string{}
	}
	return out
}
