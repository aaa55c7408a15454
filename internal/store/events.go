package store

import (
	"slices"

	"calgrid/internal/model"
)

// AddEvent stores a copy of ev under a fresh id and returns it. ev.ID is
// ignored. An empty CategoryID becomes the sentinel. Nothing else is
// validated, including Start < End.
func (s *Store) AddEvent(ev model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := ev.Clone()
	stored.ID = s.newID()
	if stored.CategoryID == "" {
		stored.CategoryID = model.NoCategoryID
	}
	s.state.Events = append(s.state.Events, stored)
	s.record(OpAddEvent, true, "id", stored.ID)
	return stored.Clone()
}

// UpdateEvent replaces the event with the same id in place. The caller
// supplies the complete object; there is no field merging. Unknown ids are
// a no-op.
func (s *Store) UpdateEvent(ev model.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(ev.ID)
	if i < 0 {
		return s.record(OpUpdateEvent, false, "id", ev.ID, "reason", "unknown event")
	}
	stored := ev.Clone()
	if stored.CategoryID == "" {
		stored.CategoryID = model.NoCategoryID
	}
	s.state.Events[i] = stored
	return s.record(OpUpdateEvent, true, "id", ev.ID)
}

// DeleteEvent removes the event and drops its id from every group. Groups
// left with fewer than two members are kept.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return s.record(OpDeleteEvent, false, "id", id, "reason", "unknown event")
	}
	s.state.Events = slices.Delete(s.state.Events, i, i+1)
	for gi := range s.state.Groups {
		g := &s.state.Groups[gi]
		g.EventIDs = slices.DeleteFunc(g.EventIDs, func(eid string) bool { return eid == id })
	}
	return s.record(OpDeleteEvent, true, "id", id)
}
