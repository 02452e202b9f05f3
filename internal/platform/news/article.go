package news

import (
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	// MaxArticles is how many headlines a response carries.
	MaxArticles = 3

	defaultSource  = "Health News"
	noSummary      = "No summary available."
	undatedArticle = "Recent"
)

// Article is one normalized headline.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Link    string `json:"link"`
	Date    string `json:"date"`
}

// stripPolicy drops every element. The sanitizer's output is HTML-escaped,
// so plainText unescapes it afterwards.
var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// plainText strips markup and collapses whitespace.
func plainText(s string) string {
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalize converts at most MaxArticles items of feed.
func normalize(feed *gofeed.Feed) []Article {
	source := firstNonEmpty(strings.TrimSpace(feed.Title), defaultSource)
	n := len(feed.Items)
	if n > MaxArticles {
		n = MaxArticles
	}

	out := make([]Article, 0, n)
	for _, item := range feed.Items[:n] {
		date := undatedArticle
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.Format("2006-01-02")
		}
		out = append(out, Article{
			ID:      firstNonEmpty(item.GUID, item.Link, uuid.NewString()),
			Title:   strings.TrimSpace(item.Title),
			Snippet: firstNonEmpty(plainText(item.Description), plainText(item.Content), noSummary),
			Source:  source,
			Link:    item.Link,
			Date:    date,
		})
	}
	return out
}
