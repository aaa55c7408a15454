package view

import (
	"fmt"
	"time"

	"calgrid/internal/model"
)

// Direction is a navigation step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

func (d Direction) String() string {
	if d < 0 {
		return "prev"
	}
	return "next"
}

// ParseDirection accepts "prev" or "next".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "prev":
		return Prev, nil
	case "next":
		return Next, nil
	default:
		return 0, fmt.Errorf("parse direction %q: want prev or next", s)
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in b's
// location.
func SameDay(a, b time.Time) bool {
	return keyOf(a.In(b.Location())) == keyOf(b)
}

// Navigate moves date one unit of v in dir: a day, seven days, a month or a
// year. Month and year steps clamp to the last day of the target month, so
// January 31 + 1 month is the last day of February.
func Navigate(v model.ViewType, date time.Time, dir Direction) time.Time {
	n := int(dir)
	switch v {
	case model.ViewDay:
		return date.AddDate(0, 0, n)
	case model.ViewWeek:
		return date.AddDate(0, 0, 7*n)
	case model.ViewMonth:
		return addMonths(date, n)
	case model.ViewYear:
		return addMonths(date, 12*n)
	default:
		return date
	}
}

func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// CreateAt is the start proposed for a new event created from a cell
// anchored at anchor. Hourly cells use the anchor itself; whole-day cells
// propose DefaultCreateHour.
func CreateAt(v model.ViewType, anchor time.Time) time.Time {
	switch v {
	case model.ViewMonth, model.ViewYear:
		return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), DefaultCreateHour, 0, 0, 0, anchor.Location())
	default:
		return anchor
	}
}

// Title is the header label for v at date.
func Title(v model.ViewType, date time.Time) string {
	switch v {
	case model.ViewDay:
		return date.Format("Monday 2 January 2006")
	case model.ViewWeek:
		_, week := date.ISOWeek()
		return fmt.Sprintf("Week %d - %s", week, date.Format("January 2006"))
	case model.ViewMonth:
		return date.Format("January 2006")
	case model.ViewYear:
		return date.Format("2006")
	default:
		return ""
	}
}
