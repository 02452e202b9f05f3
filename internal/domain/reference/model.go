package reference

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// StringList decodes either a JSON array of strings or a single
// comma-joined string. A string is split, trimmed and stripped of empty
// parts; an array is kept as sent.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitList(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// SplitList turns "a, b,,c" into [a b c].
func SplitList(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}

func orEmpty(l StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// Medicine maps to the medicines table.
type Medicine struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Brand        *string   `json:"brand,omitempty"`
	DosageInfo   *string   `json:"dosageInfo,omitempty"`
	Manufacturer *string   `json:"manufacturer,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Uses         []string  `json:"uses"`
	SideEffects  []string  `json:"sideEffects"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MedicineInput is used for both create and update. On update, absent
// fields keep their stored value.
type MedicineInput struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Brand        *string    `json:"brand"`
	DosageInfo   *string    `json:"dosageInfo"`
	Manufacturer *string    `json:"manufacturer"`
	Category     *string    `json:"category"`
	Uses         StringList `json:"uses"`
	SideEffects  StringList `json:"sideEffects"`
}

// LabTest maps to the lab_tests table.
type LabTest struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	NormalRange          *string   `json:"normalRange,omitempty"`
	Preparation          *string   `json:"preparation,omitempty"`
	ClinicalSignificance *string   `json:"clinicalSignificance,omitempty"`
	Category             *string   `json:"category,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type LabTestInput struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	NormalRange          *string `json:"normalRange"`
	Preparation          *string `json:"preparation"`
	ClinicalSignificance *string `json:"clinicalSignificance"`
	Category             *string `json:"category"`
}
