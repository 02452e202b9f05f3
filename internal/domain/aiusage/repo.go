package aiusage

import "context"

// LogLimit is how many consultations the console shows.
const LogLimit = 20

type Repository interface {
	Totals(ctx context.Context) (Totals, error)
	// Recent returns the newest consultations first.
	Recent(ctx context.Context, limit int) ([]*Consultation, error)
}
