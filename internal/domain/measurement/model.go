package measurement

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/domain/owner"
	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

const (
	TypeGlucose       = "glucose"
	TypeBloodPressure = "bloodPressure"
	TypeWeight        = "weight"
	TypeHeartRate     = "heartRate"
	TypeSpO2          = "spo2"
	TypeOther         = "other"
)

var validTypes = map[string]bool{
	TypeGlucose: true, TypeBloodPressure: true, TypeWeight: true,
	TypeHeartRate: true, TypeSpO2: true, TypeOther: true,
}

// Measurement maps to the measurements table: one row per (owner, day)
// holding that day's readings in a jsonb array.
type Measurement struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Date      time.Time `json:"date"`
	Readings  []Reading `json:"readings"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reading is one sample. Value is a number, or {systolic, diastolic} for
// blood pressure.
type Reading struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
	Unit      *string         `json:"unit,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
}

// ReadingInput is a reading as submitted by a client. Timestamp defaults to
// the time of the request. ID only matters when replacing a row's readings:
// it keeps the identity of a reading already on the row.
type ReadingInput struct {
	ID        *uuid.UUID      `json:"id"`
	Type      string          `json:"type"`
	Timestamp *string         `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
	Unit      *string         `json:"unit"`
	Notes     *string         `json:"notes"`
}

// CreateInput is the POST /measurements body.
type CreateInput struct {
	OwnerID  string         `json:"ownerId"`
	Date     string         `json:"date"`
	Readings []ReadingInput `json:"readings"`
}

// AddReadingInput is the POST /measurements/:id/reading body.
type AddReadingInput struct {
	Reading *ReadingInput `json:"reading"`
}

// ReadingPatch replaces only the fields present.
type ReadingPatch struct {
	Type      *string         `json:"type"`
	Timestamp *string         `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
	Unit      *string         `json:"unit"`
	Notes     *string         `json:"notes"`
}

// Patch is the PUT /measurements/:id body.
type Patch struct {
	owner.Stored
	Date     *string         `json:"date"`
	Readings *[]ReadingInput `json:"readings"`
}

// DayOf truncates t to midnight of its UTC calendar day, so every reading
// taken on one day lands in the same row whatever offset the client sent.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type bloodPressure struct {
	Systolic  *float64 `json:"systolic"`
	Diastolic *float64 `json:"diastolic"`
}

// validateValue checks value against the shape its reading type requires.
func validateValue(readingType string, value json.RawMessage) error {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return apperr.InvalidInput("reading value is required")
	}

	switch readingType {
	case TypeOther:
		if !json.Valid(trimmed) {
			return apperr.InvalidInput("reading value is not valid JSON")
		}
		return nil
	case TypeBloodPressure:
		var bp bloodPressure
		if err := json.Unmarshal(trimmed, &bp); err != nil || bp.Systolic == nil || bp.Diastolic == nil {
			return apperr.InvalidInput("bloodPressure value must be an object with numeric systolic and diastolic")
		}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return apperr.InvalidInput("%s value must be a number", readingType)
		}
		return nil
	}
}
