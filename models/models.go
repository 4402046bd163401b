package models

import "time"

// FeedSource is one upstream RSS/Atom endpoint
type FeedSource struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
}

// Article is a feed item normalized into the shape the page renders
type Article struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	SourceId    string     `json:"sourceId"`
	PublishedAt *time.Time `json:"publishedAt"` // nil when the item carries no date
	Description string     `json:"description"`
}

type NewsResponse struct {
	Articles    []Article `json:"articles"`
	LastUpdated int64     `json:"lastUpdated"` // Unix millis
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
