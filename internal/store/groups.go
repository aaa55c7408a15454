package store

import (
	"slices"

	"calgrid/internal/model"
)

// CreateGroup groups the given events. Ids are deduplicated and unknown ids
// dropped, keeping the caller's order; fewer than two resolved events is a
// no-op. The group copies title and category from the member stored
// earliest, whatever the caller's order, and every member gets the new
// GroupID. A member that already belonged to
// another group is removed from that group's member list.
func (s *Store) CreateGroup(eventIDs []string) (model.EventGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := make([]int, 0, len(eventIDs))
	members := make([]string, 0, len(eventIDs))
	for _, id := range eventIDs {
		if slices.Contains(members, id) {
			continue
		}
		i := s.eventIndex(id)
		if i < 0 {
			continue
		}
		resolved = append(resolved, i)
		members = append(members, id)
	}
	if len(resolved) < 2 {
		s.record(OpCreateGroup, false, "requested", len(eventIDs), "resolved", len(resolved), "reason", "fewer than two events")
		return model.EventGroup{}, false
	}

	first := s.state.Events[slices.Min(resolved)]
	g := model.EventGroup{
		ID:         s.newID(),
		EventIDs:   members,
		Title:      first.Title,
		CategoryID: first.CategoryID,
	}
	if g.CategoryID == "" {
		g.CategoryID = model.NoCategoryID
	}

	for _, i := range resolved {
		ev := &s.state.Events[i]
		if ev.GroupID != nil {
			s.detach(*ev.GroupID, ev.ID)
		}
		gid := g.ID
		ev.GroupID = &gid
	}
	s.state.Groups = append(s.state.Groups, g)
	s.record(OpCreateGroup, true, "id", g.ID, "members", len(members))
	return g.Clone(), true
}

// UngroupEvents removes the group and clears GroupID on its members. The
// member events themselves are kept.
func (s *Store) UngroupEvents(groupID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for i := range s.state.Events {
		if s.state.Events[i].InGroup(groupID) {
			s.state.Events[i].GroupID = nil
			cleared++
		}
	}
	gi := s.groupIndex(groupID)
	if gi < 0 {
		return s.record(OpUngroupEvents, false, "id", groupID, "reason", "unknown group", "cleared", cleared)
	}
	s.state.Groups = slices.Delete(s.state.Groups, gi, gi+1)
	return s.record(OpUngroupEvents, true, "id", groupID, "cleared", cleared)
}

// detach removes eventID from group groupID's member list.
func (s *Store) detach(groupID, eventID string) {
	if gi := s.groupIndex(groupID); gi >= 0 {
		g := &s.state.Groups[gi]
		g.EventIDs = slices.DeleteFunc(g.EventIDs, func(id string) bool { return id == eventID })
	}
}
