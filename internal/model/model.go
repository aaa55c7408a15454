package model

import (
	"slices"
	"time"
)

// ViewType is one of the calendar granularities.
type ViewType string

const (
	ViewDay   ViewType = "day"
	ViewWeek  ViewType = "week"
	ViewMonth ViewType = "month"
	ViewYear  ViewType = "year"
)

// Views lists every granularity in header order.
var Views = []ViewType{ViewDay, ViewWeek, ViewMonth, ViewYear}

// Valid reports whether v is a known granularity.
func (v ViewType) Valid() bool {
	return slices.Contains(Views, v)
}

// Sentinel category. It always exists, cannot be edited or deleted, and is
// excluded from the category cap and from reordering.
const (
	NoCategoryID    = "no-category"
	NoCategoryName  = "No category"
	NoCategoryColor = "#808080"
)

// MaxCategories is the cap on user categories (sentinel not counted).
const MaxCategories = 10

// NoCategory returns the sentinel category.
func NoCategory() Category {
	return Category{ID: NoCategoryID, Name: NoCategoryName, Color: NoCategoryColor}
}

// Category is a color-coded label for events.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// IsSentinel reports whether c is the sentinel category.
func (c Category) IsSentinel() bool {
	return c.ID == NoCategoryID
}

// RegularCount returns the number of non-sentinel categories in cats.
func RegularCount(cats []Category) int {
	n := 0
	for _, c := range cats {
		if !c.IsSentinel() {
			n++
		}
	}
	return n
}

// Recurrence is stored with an event but never expanded into occurrences.
type Recurrence struct {
	Days  []time.Weekday `json:"days"`
	Until time.Time      `json:"until"`
}

// Valid reports whether every day is Sunday through Saturday.
func (r Recurrence) Valid() bool {
	for _, d := range r.Days {
		if d < time.Sunday || d > time.Saturday {
			return false
		}
	}
	return true
}

// Event is a time-boxed schedule entry.
//
// Start < End is not enforced anywhere.
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	CategoryID  string      `json:"categoryId"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
	GroupID     *string     `json:"groupId,omitempty"`
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// InGroup reports whether the event belongs to group id.
func (e Event) InGroup(id string) bool {
	return e.GroupID != nil && *e.GroupID == id
}

// Clone returns a deep copy so callers never share optional fields.
func (e Event) Clone() Event {
	out := e
	if e.Description != nil {
		d := *e.Description
		out.Description = &d
	}
	if e.GroupID != nil {
		g := *e.GroupID
		out.GroupID = &g
	}
	if e.Recurrence != nil {
		r := Recurrence{Days: slices.Clone(e.Recurrence.Days), Until: e.Recurrence.Until}
		out.Recurrence = &r
	}
	return out
}

// EventGroup ties events together. CreateGroup stamps the group's id on
// each member's GroupID and UngroupEvents clears it, but UpdateEvent stores
// the caller's GroupID as given, so EventIDs and the members' GroupID can
// disagree after an update.
type EventGroup struct {
	ID         string   `json:"id"`
	EventIDs   []string `json:"eventIds"`
	Title      string   `json:"title"`
	CategoryID string   `json:"categoryId"`
}

// Clone returns a deep copy.
func (g EventGroup) Clone() EventGroup {
	g.EventIDs = slices.Clone(g.EventIDs)
	return g
}

// Ptr returns a pointer to v. Handy for the optional event fields.
func Ptr[T any](v T) *T {
	return &v
}
