package store

import (
	"time"

	"calgrid/internal/model"
	"calgrid/internal/view"
)

// SetView sets the granularity. It is a plain setter.
func (s *Store) SetView(v model.ViewType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View = v
	return s.record(OpSetView, true, "view", v)
}

// SetSelectedDate sets the projection reference date.
func (s *Store) SetSelectedDate(date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedDate = date
	return s.record(OpSetSelectedDate, true, "date", date)
}

// ToggleSidebar flips the sidebar state.
func (s *Store) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SidebarOpen = !s.state.SidebarOpen
	return s.record(OpToggleSidebar, true, "open", s.state.SidebarOpen)
}

// Navigate moves the selected date one unit of the current view in dir.
func (s *Store) Navigate(dir view.Direction) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedDate = view.Navigate(s.state.View, s.state.SelectedDate, dir)
	s.record(OpSetSelectedDate, true, "date", s.state.SelectedDate, "direction", dir)
	return s.state.SelectedDate
}

// Today resets the selected date to the store clock's now.
func (s *Store) Today() time.Time {
	now := s.now()
	s.SetSelectedDate(now)
	return now
}
