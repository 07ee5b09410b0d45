// Package article turns raw feed entries into canonical article records and
// keeps only those published inside a calendar-date window.
package article

import (
	"fmt"
	"time"
)

// Sentinels substituted for missing textual fields.
const (
	NoTitle       = "No title"
	NoLink        = "No link"
	UnknownSource = "Unknown source"
	NoSummary     = "No summary"
)

const dateLayout = "2006-01-02"

// Article is the record every stage after normalization works with.
// All fields are resolved; nothing downstream checks for presence.
type Article struct {
	Title       string
	URL         string
	Source      string
	Summary     string // feed-provided synopsis, not an AI summary
	PublishedAt time.Time
	Content     []string
	Keywords    []string
}

// Date returns the publication date as YYYY-MM-DD.
func (a Article) Date() string {
	return a.PublishedAt.Format(dateLayout)
}

// Window is an inclusive range of calendar dates in Location.
type Window struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// NewWindow keeps only the calendar dates of start and end.
func NewWindow(start, end time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	w := Window{
		Start:    midnight(start, loc),
		End:      midnight(end, loc),
		Location: loc,
	}
	if w.Start.After(w.End) {
		return Window{}, fmt.Errorf("window start %s is after end %s", w.Start.Format(dateLayout), w.End.Format(dateLayout))
	}
	return w, nil
}

// LastDays is the window [today-days, today] as seen from now in loc.
func LastDays(now time.Time, days int, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	if days < 0 {
		days = 0
	}
	today := midnight(now.In(loc), loc)
	return Window{
		Start:    today.AddDate(0, 0, -days),
		End:      today,
		Location: loc,
	}
}

// ParseDate reads a YYYY-MM-DD date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// Contains reports whether t falls on a date inside the window. Time of day is ignored.
func (w Window) Contains(t time.Time) bool {
	d := midnight(t.In(w.location()), w.location())
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) String() string {
	return w.Start.Format(dateLayout) + " to " + w.End.Format(dateLayout)
}

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
