package rss

import (
	"time"

	"github.com/mmcdole/gofeed"
)

// Source is one configured feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Entry is a raw feed item. Empty strings and nil times mean the feed did not provide the field.
type Entry struct {
	Title   string
	Link    string
	Summary string
	Source  string
	Content []string
	Tags    []string

	Published *time.Time
	Updated   *time.Time
}

// fromItem maps a gofeed item, labelling it with the item's own dc:source when present.
func fromItem(item *gofeed.Item, sourceName string) Entry {
	e := Entry{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   item.Description,
		Source:    sourceName,
		Tags:      item.Categories,
		Published: item.PublishedParsed,
		Updated:   item.UpdatedParsed,
	}

	if e.Link == "" && len(item.Links) > 0 {
		e.Link = item.Links[0]
	}
	if item.Content != "" {
		e.Content = []string{item.Content}
	}
	if dc := item.DublinCoreExt; dc != nil && len(dc.Source) > 0 && dc.Source[0] != "" {
		e.Source = dc.Source[0]
	}

	return e
}
