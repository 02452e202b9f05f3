package aiusage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Flat pricing used for the console estimate.
const (
	USDPerMillionTokens = 0.50
	INRPerUSD           = 86
)

// Totals are the raw sums over every consultation.
type Totals struct {
	Consultations    int64
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Stats is the GET /admin/ai/stats response. Costs are pre-formatted strings.
type Stats struct {
	TotalConsultations    int64  `json:"totalConsultations"`
	TotalPromptTokens     int64  `json:"totalPromptTokens"`
	TotalCompletionTokens int64  `json:"totalCompletionTokens"`
	TotalTokens           int64  `json:"totalTokens"`
	EstimatedCostUSD      string `json:"estimatedCostUSD"`
	EstimatedCostINR      string `json:"estimatedCostINR"`
}

// NewStats derives the cost estimate from t.
func NewStats(t Totals) Stats {
	usd := float64(t.TotalTokens) / 1e6 * USDPerMillionTokens
	return Stats{
		TotalConsultations:    t.Consultations,
		TotalPromptTokens:     t.PromptTokens,
		TotalCompletionTokens: t.CompletionTokens,
		TotalTokens:           t.TotalTokens,
		EstimatedCostUSD:      fmt.Sprintf("%.4f", usd),
		EstimatedCostINR:      fmt.Sprintf("%.2f", usd*INRPerUSD),
	}
}

type TokenUsage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	TotalTokens      int64 `json:"totalTokens"`
}

// UserRef is the subset of the user shown next to a consultation.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Consultation maps to the consultations table. User is nil once the
// account has been deleted.
type Consultation struct {
	ID              uuid.UUID  `json:"id"`
	User            *UserRef   `json:"user"`
	Date            time.Time  `json:"date"`
	Symptoms        string     `json:"symptoms"`
	Urgency         *string    `json:"urgency,omitempty"`
	AISummary       *string    `json:"aiSummary,omitempty"`
	Actions         []string   `json:"actions"`
	LifestyleAdvice []string   `json:"lifestyleAdvice"`
	TokenUsage      TokenUsage `json:"tokenUsage"`
}
