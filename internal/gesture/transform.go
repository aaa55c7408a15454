// Package gesture turns pointer interactions on the calendar into store
// mutations. The pure helpers compute the resulting objects; Session drives
// a single gesture from begin to end and emits at most one mutation.
package gesture

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"calgrid/internal/model"
)

var (
	ErrGestureActive    = errors.New("gesture already in progress")
	ErrNoGesture        = errors.New("no gesture in progress")
	ErrUnknownEvent     = errors.New("unknown event")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrSentinelCategory = errors.New("sentinel category cannot be reordered")
	ErrCategoryLimit    = fmt.Errorf("maximum %d categories allowed", model.MaxCategories)
	ErrInvalidEdge      = errors.New("resize edge must be start or end")
)

// Edge names the event boundary moved by a resize.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// ParseEdge accepts "start" or "end".
func ParseEdge(s string) (Edge, error) {
	switch Edge(s) {
	case EdgeStart, EdgeEnd:
		return Edge(s), nil
	default:
		return "", fmt.Errorf("parse edge %q: %w", s, ErrInvalidEdge)
	}
}

// Snap quantizes vertical pointer movement into fixed minute steps.
type Snap struct {
	PixelsPerStep  int
	MinutesPerStep int
}

// DefaultSnap is one 15-minute step per 20px.
var DefaultSnap = Snap{PixelsPerStep: 20, MinutesPerStep: 15}

// Minutes returns round(deltaPx/PixelsPerStep) * MinutesPerStep. Halves
// round toward positive infinity, so -10px is zero steps and +10px is one.
func (s Snap) Minutes(deltaPx float64) int {
	if s.PixelsPerStep <= 0 || s.MinutesPerStep <= 0 {
		s = DefaultSnap
	}
	steps := math.Floor(deltaPx/float64(s.PixelsPerStep) + 0.5)
	return int(steps) * s.MinutesPerStep
}

// Move places ev at drop keeping its duration exactly.
func Move(ev model.Event, drop time.Time) model.Event {
	out := ev.Clone()
	d := ev.Duration()
	out.Start = drop
	out.End = drop.Add(d)
	return out
}

// Resize shifts only the named boundary by minutes. Boundaries are allowed
// to cross.
func Resize(ev model.Event, edge Edge, minutes int) model.Event {
	out := ev.Clone()
	shift := time.Duration(minutes) * time.Minute
	switch edge {
	case EdgeStart:
		out.Start = out.Start.Add(shift)
	case EdgeEnd:
		out.End = out.End.Add(shift)
	}
	return out
}

// MoveCategory moves activeID to overID's position among the non-sentinel
// categories (array-move semantics) and returns the full new ordering. The
// sentinel keeps its own position.
func MoveCategory(cats []model.Category, activeID, overID string) ([]model.Category, error) {
	if activeID == model.NoCategoryID || overID == model.NoCategoryID {
		return nil, ErrSentinelCategory
	}
	regular := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		if !c.IsSentinel() {
			regular = append(regular, c)
		}
	}
	from := slices.IndexFunc(regular, func(c model.Category) bool { return c.ID == activeID })
	to := slices.IndexFunc(regular, func(c model.Category) bool { return c.ID == overID })
	if from < 0 || to < 0 {
		return nil, ErrUnknownCategory
	}

	moved := regular[from]
	regular = slices.Delete(regular, from, from+1)
	regular = slices.Insert(regular, to, moved)

	out := make([]model.Category, 0, len(cats))
	next := 0
	for _, c := range cats {
		if c.IsSentinel() {
			out = append(out, c)
			continue
		}
		out = append(out, regular[next])
		next++
	}
	return out, nil
}

// CategoryGuard is the cap check exposed by the store.
type CategoryGuard interface {
	CanAddCategory() bool
}

// OpenAddCategory checks the category cap before the "add category"
// affordance opens. The store checks again when the category is added.
func OpenAddCategory(g CategoryGuard) error {
	if !g.CanAddCategory() {
		return ErrCategoryLimit
	}
	return nil
}
