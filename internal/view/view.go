// Package view projects events onto the cell grid of a calendar
// granularity. Everything here is pure: the same inputs always give the same
// grid, and input slices are never modified.
package view

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"calgrid/internal/model"
)

var ErrUnknownView = errors.New("unknown view")

const (
	HoursPerDay = 24
	DaysPerWeek = 7

	// Day view splits its 24 hours into two presentational columns.
	DayColumns = 2

	MonthRows  = 6
	MonthCells = MonthRows * DaysPerWeek

	// MonthMaxVisible events are listed per month cell; the rest are
	// summarized by Cell.Overflow.
	MonthMaxVisible = 3
	// YearMaxVisible events are listed per mini-grid cell, with no overflow.
	YearMaxVisible = 2

	// DefaultCreateHour is the time proposed when creating an event from a
	// whole-day cell.
	DefaultCreateHour = 9
	// DefaultEventDuration is the proposed length of a new event.
	DefaultEventDuration = time.Hour
)

// Cell is one slot of a grid.
type Cell struct {
	Anchor time.Time     `json:"anchor"`
	Row    int           `json:"row"`
	Col    int           `json:"col"`
	Events []model.Event `json:"events"`
	// Overflow counts events not listed in Events (month view only).
	Overflow int `json:"overflow,omitempty"`
	// Dimmed marks days outside the target month.
	Dimmed bool `json:"dimmed,omitempty"`
}

// Month is a single month laid out as a Monday-first 6x7 day grid.
type Month struct {
	Start time.Time `json:"start"`
	Cells []Cell    `json:"cells"`
}

// Grid is the projection of one view. Cells are in chronological order;
// Row and Col give the layout position. For the year view Cells is the
// concatenation of the twelve Months.
type Grid struct {
	View   model.ViewType `json:"view"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Rows   int            `json:"rows"`
	Cols   int            `json:"cols"`
	Cells  []Cell         `json:"cells"`
	Months []Month        `json:"months,omitempty"`
}

// At returns the cell at row/col, if any.
func (g Grid) At(row, col int) (Cell, bool) {
	for _, c := range g.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Project maps v and the reference date onto a populated grid. Events are
// first filtered by selected category, then by the view's date range, then
// bucketed by start only; End never affects placement. All calendar math
// happens in date's location.
func Project(v model.ViewType, date time.Time, events []model.Event, selected []string) (Grid, error) {
	visible := filterSelected(events, selected)
	switch v {
	case model.ViewDay:
		return projectDay(date, visible), nil
	case model.ViewWeek:
		return projectWeek(date, visible), nil
	case model.ViewMonth:
		return projectMonth(date, visible), nil
	case model.ViewYear:
		return projectYear(date, visible), nil
	default:
		return Grid{}, fmt.Errorf("project %q: %w", v, ErrUnknownView)
	}
}

func filterSelected(events []model.Event, selected []string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if slices.Contains(selected, e.CategoryID) {
			out = append(out, e)
		}
	}
	return out
}

func projectDay(date time.Time, events []model.Event) Grid {
	day := StartOfDay(date)
	loc := date.Location()
	perColumn := HoursPerDay / DayColumns

	g := Grid{
		View:  model.ViewDay,
		Start: day,
		End:   day.AddDate(0, 0, 1),
		Rows:  perColumn,
		Cols:  DayColumns,
		Cells: make([]Cell, 0, HoursPerDay),
	}
	byHour := bucketByHour(events, day, loc)
	for h := 0; h < HoursPerDay; h++ {
		g.Cells = append(g.Cells, Cell{
			Anchor: hourOf(day, h),
			Row:    h % perColumn,
			Col:    h / perColumn,
			Events: byHour[h],
		})
	}
	return g
}

func projectWeek(date time.Time, events []model.Event) Grid {
	start := StartOfWeek(date)
	loc := date.Location()

	g := Grid{
		View:  model.ViewWeek,
		Start: start,
		End:   start.AddDate(0, 0, DaysPerWeek),
		Rows:  HoursPerDay,
		Cols:  DaysPerWeek,
		Cells: make([]Cell, 0, HoursPerDay*DaysPerWeek),
	}
	for d := 0; d < DaysPerWeek; d++ {
		day := start.AddDate(0, 0, d)
		byHour := bucketByHour(events, day, loc)
		for h := 0; h < HoursPerDay; h++ {
			g.Cells = append(g.Cells, Cell{
				Anchor: hourOf(day, h),
				Row:    h,
				Col:    d,
				Events: byHour[h],
			})
		}
	}
	return g
}

func projectMonth(date time.Time, events []model.Event) Grid {
	first := StartOfMonth(date)
	start := StartOfWeek(first)
	end := start.AddDate(0, 0, MonthCells)

	inRange := make([]model.Event, 0, len(events))
	for _, e := range events {
		if within(e.Start.In(date.Location()), start, end) {
			inRange = append(inRange, e)
		}
	}

	cells := monthCells(first, inRange, MonthMaxVisible, true)
	return Grid{
		View:  model.ViewMonth,
		Start: start,
		End:   end,
		Rows:  MonthRows,
		Cols:  DaysPerWeek,
		Cells: cells,
	}
}

func projectYear(date time.Time, events []model.Event) Grid {
	yearStart := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	g := Grid{
		View:   model.ViewYear,
		Start:  yearStart,
		End:    yearEnd,
		Rows:   MonthRows,
		Cols:   DaysPerWeek,
		Months: make([]Month, 0, 12),
		Cells:  make([]Cell, 0, 12*MonthCells),
	}
	for m := 0; m < 12; m++ {
		first := yearStart.AddDate(0, m, 0)
		next := first.AddDate(0, 1, 0)

		// Mini-grids only show the month's own events; leading and
		// trailing days of neighbouring months stay empty.
		own := make([]model.Event, 0)
		for _, e := range events {
			if within(e.Start.In(date.Location()), first, next) {
				own = append(own, e)
			}
		}
		cells := monthCells(first, own, YearMaxVisible, false)
		g.Months = append(g.Months, Month{Start: first, Cells: cells})
		g.Cells = append(g.Cells, cells...)
	}
	return g
}

// monthCells lays out the 42 days starting at the Monday on or before
// first and fills each with the events starting that day.
func monthCells(first time.Time, events []model.Event, maxVisible int, overflow bool) []Cell {
	start := StartOfWeek(first)
	loc := first.Location()

	byDay := make(map[dayKey][]model.Event)
	for _, e := range events {
		k := keyOf(e.Start.In(loc))
		byDay[k] = append(byDay[k], e.Clone())
	}

	cells := make([]Cell, 0, MonthCells)
	for i := 0; i < MonthCells; i++ {
		day := start.AddDate(0, 0, i)
		dayEvents := byDay[keyOf(day)]
		c := Cell{
			Anchor: day,
			Row:    i / DaysPerWeek,
			Col:    i % DaysPerWeek,
			Dimmed: day.Month() != first.Month(),
			Events: []model.Event{},
		}
		if len(dayEvents) > maxVisible {
			if overflow {
				c.Overflow = len(dayEvents) - maxVisible
			}
			dayEvents = dayEvents[:maxVisible]
		}
		if dayEvents != nil {
			c.Events = dayEvents
		}
		cells = append(cells, c)
	}
	return cells
}

// bucketByHour returns the events starting on day, keyed by start hour.
// Every hour key is present so cells never carry a nil slice.
func bucketByHour(events []model.Event, day time.Time, loc *time.Location) map[int][]model.Event {
	out := make(map[int][]model.Event, HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		out[h] = []model.Event{}
	}
	k := keyOf(day)
	for _, e := range events {
		start := e.Start.In(loc)
		if keyOf(start) != k {
			continue
		}
		out[start.Hour()] = append(out[start.Hour()], e.Clone())
	}
	return out
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func hourOf(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
