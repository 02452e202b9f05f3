// Package news proxies a short list of health headlines from public RSS
// feeds. Feeds are tried in order and the first one that yields items wins.
package news

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// userAgent is sent with every fetch; several publishers reject the default
// Go client string.
const userAgent = "Mozilla/5.0 (compatible; LifeDocNews/1.0; +https://lifedoc.app)"

// Source is one headline provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*gofeed.Feed, error)
}

// RSSSource fetches and parses an RSS or Atom document.
type RSSSource struct {
	url    string
	client *resty.Client
	parser *gofeed.Parser
}

// NewRSSSource builds a source for url. The per-request deadline comes from
// the context passed to Fetch; timeout is only a backstop.
func NewRSSSource(url string, timeout time.Duration) *RSSSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	return &RSSSource{url: url, client: client, parser: gofeed.NewParser()}
}

func (s *RSSSource) Name() string { return s.url }

func (s *RSSSource) Fetch(ctx context.Context) (*gofeed.Feed, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode())
	}
	feed, err := s.parser.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.url, err)
	}
	return feed, nil
}
