// Package store owns the canonical schedule collections (categories, events,
// groups) and the session's view state. Every mutation goes through a Store
// method; invalid mutations are rejected silently and reported only through
// the returned "applied" flag.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/view"
)

// Operation names reported to the Recorder.
const (
	OpAddEvent          = "add_event"
	OpUpdateEvent       = "update_event"
	OpDeleteEvent       = "delete_event"
	OpAddCategory       = "add_category"
	OpUpdateCategory    = "update_category"
	OpDeleteCategory    = "delete_category"
	OpReorderCategories = "reorder_categories"
	OpCreateGroup       = "create_group"
	OpUngroupEvents     = "ungroup_events"
	OpToggleCategory    = "toggle_category"
	OpSetView           = "set_view"
	OpSetSelectedDate   = "set_selected_date"
	OpToggleSidebar     = "toggle_sidebar"
)

// Recorder observes every mutation attempt.
type Recorder interface {
	Mutation(op string, applied bool)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string, bool) {}

// State is the full read surface. Values returned by Store are deep copies.
type State struct {
	Events             []model.Event      `json:"events"`
	Categories         []model.Category   `json:"categories"`
	Groups             []model.EventGroup `json:"groups"`
	SelectedDate       time.Time          `json:"selectedDate"`
	View               model.ViewType     `json:"view"`
	SelectedCategories []string           `json:"selectedCategories"`
	SidebarOpen        bool               `json:"isSidebarOpen"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Events = make([]model.Event, len(s.Events))
	for i, e := range s.Events {
		out.Events[i] = e.Clone()
	}
	out.Categories = slices.Clone(s.Categories)
	out.Groups = make([]model.EventGroup, len(s.Groups))
	for i, g := range s.Groups {
		out.Groups[i] = g.Clone()
	}
	out.SelectedCategories = slices.Clone(s.SelectedCategories)
	return out
}

// Store is the in-memory entity store. It is safe for concurrent use; the
// lock only serializes whole operations, last write wins.
type Store struct {
	mu    sync.RWMutex
	state State

	now   func() time.Time
	newID func() string
	rec   Recorder
}

// Option configures a Store at construction.
type Option func(*Store)

// WithClock sets the clock used for the initial selected date and Today.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithRecorder attaches a mutation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.rec = r
		}
	}
}

// WithCategories seeds the user categories placed after the sentinel.
// Sentinel entries are ignored and at most model.MaxCategories are kept.
func WithCategories(cats []model.Category) Option {
	return func(s *Store) {
		seeded := []model.Category{model.NoCategory()}
		for _, c := range cats {
			if c.IsSentinel() {
				continue
			}
			if model.RegularCount(seeded) >= model.MaxCategories {
				appLog.Warn("default category dropped, cap reached", "id", c.ID, "cap", model.MaxCategories)
				continue
			}
			seeded = append(seeded, c)
		}
		s.state.Categories = seeded
	}
}

// WithView sets the initial granularity.
func WithView(v model.ViewType) Option {
	return func(s *Store) { s.state.View = v }
}

// WithSidebar sets the initial sidebar state.
func WithSidebar(open bool) Option {
	return func(s *Store) { s.state.SidebarOpen = open }
}

// New returns a store holding the sentinel category plus any seeded
// categories, all of them selected, in week view with the sidebar open.
func New(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
		rec:   nopRecorder{},
		state: State{
			Events:      []model.Event{},
			Categories:  []model.Category{model.NoCategory()},
			Groups:      []model.EventGroup{},
			View:        model.ViewWeek,
			SidebarOpen: true,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.SelectedDate = s.now()
	s.state.SelectedCategories = make([]string, 0, len(s.state.Categories))
	for _, c := range s.state.Categories {
		s.state.SelectedCategories = append(s.state.SelectedCategories, c.ID)
	}
	return s
}

// record reports the outcome of op and logs rejections.
func (s *Store) record(op string, applied bool, kv ...any) bool {
	s.rec.Mutation(op, applied)
	if applied {
		appLog.Debug("store mutation applied", append([]any{"op", op}, kv...)...)
	} else {
		appLog.Debug("store mutation rejected", append([]any{"op", op}, kv...)...)
	}
	return applied
}

// Snapshot returns a deep copy of the whole read surface.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Events returns a copy of the event collection in insertion order.
func (s *Store) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.state.Events))
	for i, e := range s.state.Events {
		out[i] = e.Clone()
	}
	return out
}

// Event looks up a single event by id.
func (s *Store) Event(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.eventIndex(id); i >= 0 {
		return s.state.Events[i].Clone(), true
	}
	return model.Event{}, false
}

// Categories returns the ordered category collection, sentinel included.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Categories)
}

// Groups returns a copy of the group collection.
func (s *Store) Groups() []model.EventGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.EventGroup, len(s.state.Groups))
	for i, g := range s.state.Groups {
		out[i] = g.Clone()
	}
	return out
}

// SelectedCategories returns the visibility filter.
func (s *Store) SelectedCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.SelectedCategories)
}

// SelectedDate returns the reference date for projection.
func (s *Store) SelectedDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedDate
}

// View returns the current granularity.
func (s *Store) View() model.ViewType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.View
}

// SidebarOpen reports the sidebar state.
func (s *Store) SidebarOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SidebarOpen
}

// CellsFor projects the current events and category filter onto the grid
// for v around date.
func (s *Store) CellsFor(v model.ViewType, date time.Time) (view.Grid, error) {
	s.mu.RLock()
	events := s.state.Events
	selected := s.state.SelectedCategories
	grid, err := view.Project(v, date, events, selected)
	s.mu.RUnlock()
	return grid, err
}

// CurrentCells projects using the store's own view and selected date.
func (s *Store) CurrentCells() (view.Grid, error) {
	s.mu.RLock()
	v, date := s.state.View, s.state.SelectedDate
	s.mu.RUnlock()
	return s.CellsFor(v, date)
}

func (s *Store) eventIndex(id string) int {
	return slices.IndexFunc(s.state.Events, func(e model.Event) bool { return e.ID == id })
}

func (s *Store) categoryIndex(id string) int {
	return slices.IndexFunc(s.state.Categories, func(c model.Category) bool { return c.ID == id })
}

func (s *Store) groupIndex(id string) int {
	return slices.IndexFunc(s.state.Groups, func(g model.EventGroup) bool { return g.ID == id })
}
