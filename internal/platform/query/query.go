// Package query composes SQL filters for the per-owner time-series record
// tables. A Builder only produces SQL text and positional arguments; executing
// them is the repository's job.
package query

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

// dateLayouts are tried in order. Date-only values are UTC midnight; local
// date-times without a zone are read in the server's location.
var dateLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// ParseDate parses an ISO-8601 value. field names the parameter in the error.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, l := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, raw, time.Local)
		} else {
			t, err = time.Parse(l.layout, raw)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.InvalidInput("invalid %s: %q is not an ISO-8601 date", field, raw)
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Range is an inclusive date interval; a nil bound is unconstrained.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange builds a Range from the startDate/endDate query parameters.
// start > end is accepted and matches nothing.
func ParseRange(start, end string) (Range, error) {
	var r Range
	var err error
	if r.Start, err = ParseOptionalDate("startDate", start); err != nil {
		return Range{}, err
	}
	if r.End, err = ParseOptionalDate("endDate", end); err != nil {
		return Range{}, err
	}
	return r, nil
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool { return r.Start == nil && r.End == nil }

// Filter is the common input of every owner-scoped listing.
type Filter struct {
	OwnerID uuid.UUID
	Range   Range
}

// Builder accumulates WHERE clauses with numbered placeholders.
type Builder struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
	limit   int
}

// New creates a Builder selecting cols from table.
func New(table, cols string) *Builder {
	return &Builder{table: table, cols: cols, idx: 1}
}

// Records pins the owner and applies the date range to dateColumn. This is the
// shared starting point of every record listing.
func Records(table, cols, dateColumn string, f Filter) *Builder {
	return New(table, cols).Eq("owner_id", f.OwnerID).DateRange(dateColumn, f.Range)
}

// Idx returns the next available placeholder index.
func (b *Builder) Idx() int { return b.idx }

// Add appends a raw clause. Placeholders in clause must start at Idx().
func (b *Builder) Add(clause string, args ...interface{}) *Builder {
	b.where += " AND " + clause
	b.args = append(b.args, args...)
	b.idx += len(args)
	return b
}

// Eq adds column = value.
func (b *Builder) Eq(column string, value interface{}) *Builder {
	return b.Add(fmt.Sprintf("%s = $%d", column, b.idx), value)
}

// DateRange adds inclusive bounds on column for whichever ends are set.
func (b *Builder) DateRange(column string, r Range) *Builder {
	if r.Start != nil {
		b.Add(fmt.Sprintf("%s >= $%d", column, b.idx), *r.Start)
	}
	if r.End != nil {
		b.Add(fmt.Sprintf("%s <= $%d", column, b.idx), *r.End)
	}
	return b
}

// OnOrAfter adds column >= t.
func (b *Builder) OnOrAfter(column string, t time.Time) *Builder {
	return b.Add(fmt.Sprintf("%s >= $%d", column, b.idx), t)
}

// ArrayContains matches rows whose text[] column holds value.
func (b *Builder) ArrayContains(column, value string) *Builder {
	return b.Add(fmt.Sprintf("$%d = ANY(%s)", b.idx, column), value)
}

// Contains is a case-insensitive literal substring match.
func (b *Builder) Contains(column, value string) *Builder {
	return b.Add(fmt.Sprintf(`%s ILIKE '%%' || $%d || '%%' ESCAPE '\'`, column, b.idx), EscapeLike(value))
}

// JSONContains matches rows whose jsonb column contains doc (the @> operator).
func (b *Builder) JSONContains(column string, doc interface{}) *Builder {
	raw, err := json.Marshal(doc)
	if err != nil {
		// doc is always built from plain maps and slices by the callers.
		panic(fmt.Sprintf("query: marshal containment document: %v", err))
	}
	return b.Add(fmt.Sprintf("%s @> $%d::jsonb", column, b.idx), string(raw))
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (b *Builder) OrderBy(orderBy string) *Builder {
	b.orderBy = orderBy
	return b
}

// Limit caps the number of rows; zero means no cap.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Where returns the WHERE clause including the keyword.
func (b *Builder) Where() string {
	return "WHERE 1=1" + b.where
}

// SQL returns the full SELECT statement.
func (b *Builder) SQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s %s", b.cols, b.table, b.Where())
	if b.orderBy != "" {
		sql += " ORDER BY " + b.orderBy
	}
	if b.limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", b.limit)
	}
	return sql
}

// CountSQL returns a COUNT(*) statement over the same filter.
func (b *Builder) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s %s", b.table, b.Where())
}

// Args returns the positional arguments in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
