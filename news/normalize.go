package news

import (
	"strings"
	"time"

	"newsdesk/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Normalize maps a parsed feed item onto an Article for the given source
func Normalize(src models.FeedSource, item *gofeed.Item) models.Article {
	return models.Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Source:      src.Name,
		SourceId:    src.Id,
		PublishedAt: publishedAt(item),
		Description: snippetOf(item),
	}
}

// publishedAt prefers the item's publish date and falls back to its update
// date. Items with neither stay nil.
func publishedAt(item *gofeed.Item) *time.Time {
	var t *time.Time
	switch {
	case item.PublishedParsed != nil:
		t = item.PublishedParsed
	case item.UpdatedParsed != nil:
		t = item.UpdatedParsed
	default:
		return nil
	}
	utc := t.UTC()
	return &utc
}

func snippetOf(item *gofeed.Item) string {
	if s := Snippet(item.Content); s != "" {
		return s
	}
	return Snippet(item.Description)
}

// Snippet reduces an HTML fragment to plain text with collapsed whitespace
func Snippet(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}
