package news

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single feed attempt.
const DefaultTimeout = 5 * time.Second

// ErrEmptyFeed is reported for a feed that parsed but had no items.
var ErrEmptyFeed = errors.New("feed has no items")

const exhaustedMessage = "Unable to fetch news from any source. Please try again later."

// Result is the GET /news body. Data is never null.
type Result struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    []Article `json:"data"`
}

// Aggregator tries its sources in order.
type Aggregator struct {
	sources []Source
	timeout time.Duration
	logger  zerolog.Logger
	fetches *prometheus.CounterVec
}

type Option func(*Aggregator)

// WithTimeout sets the per-source timeout. The whole call is bounded by
// timeout times the number of sources.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithMetrics counts fetch attempts per source and outcome on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(a *Aggregator) {
		a.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifedoc",
			Subsystem: "news",
			Name:      "fetch_total",
			Help:      "News feed fetch attempts by source and outcome.",
		}, []string{"source", "outcome"})
		reg.MustRegister(a.fetches)
	}
}

func NewAggregator(sources []Source, opts ...Option) *Aggregator {
	a := &Aggregator{sources: sources, timeout: DefaultTimeout, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewRSSAggregator builds an aggregator over the given feed URLs.
func NewRSSAggregator(urls []string, opts ...Option) *Aggregator {
	a := NewAggregator(nil, opts...)
	for _, u := range urls {
		a.sources = append(a.sources, NewRSSSource(u, a.timeout))
	}
	return a
}

func (a *Aggregator) record(source, outcome string) {
	if a.fetches != nil {
		a.fetches.WithLabelValues(source, outcome).Inc()
	}
}

// Headlines returns the first non-empty feed's articles. It never fails:
// when every source errors or is empty the result has Success false.
func (a *Aggregator) Headlines(ctx context.Context) Result {
	budget, cancel := context.WithTimeout(ctx, a.timeout*time.Duration(len(a.sources)))
	defer cancel()

	for _, src := range a.sources {
		if budget.Err() != nil {
			break
		}
		articles, err := a.try(budget, src)
		if err != nil {
			a.logger.Warn().Err(err).Str("source", src.Name()).Msg("news source failed")
			continue
		}
		return Result{Success: true, Data: articles}
	}

	a.logger.Error().Int("sources", len(a.sources)).Msg("all news sources failed")
	return Result{Success: false, Message: exhaustedMessage, Data: []Article{}}
}

func (a *Aggregator) try(ctx context.Context, src Source) ([]Article, error) {
	attempt, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	feed, err := src.Fetch(attempt)
	switch {
	case err != nil:
		a.record(src.Name(), "error")
		return nil, err
	case feed == nil || len(feed.Items) == 0:
		a.record(src.Name(), "empty")
		return nil, ErrEmptyFeed
	}
	a.record(src.Name(), "ok")
	return normalize(feed), nil
}
