package store

import (
	"slices"

	"calgrid/internal/model"
)

// CanAddCategory reports whether another user category fits under the cap.
// UI collaborators call it before opening the "add category" affordance;
// AddCategory enforces the same rule on its own.
func (s *Store) CanAddCategory() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.RegularCount(s.state.Categories) < model.MaxCategories
}

// AddCategory appends a category and selects it. It is rejected once
// model.MaxCategories user categories exist.
func (s *Store) AddCategory(name, color string) (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if model.RegularCount(s.state.Categories) >= model.MaxCategories {
		s.record(OpAddCategory, false, "name", name, "reason", "category cap reached")
		return model.Category{}, false
	}
	c := model.Category{ID: s.newID(), Name: name, Color: color}
	s.state.Categories = append(s.state.Categories, c)
	s.state.SelectedCategories = append(s.state.SelectedCategories, c.ID)
	s.record(OpAddCategory, true, "id", c.ID)
	return c, true
}

// UpdateCategory renames and recolors a category in place. The sentinel and
// unknown ids are left untouched.
func (s *Store) UpdateCategory(id, name, color string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == model.NoCategoryID {
		return s.record(OpUpdateCategory, false, "id", id, "reason", "sentinel category")
	}
	i := s.categoryIndex(id)
	if i < 0 {
		return s.record(OpUpdateCategory, false, "id", id, "reason", "unknown category")
	}
	s.state.Categories[i].Name = name
	s.state.Categories[i].Color = color
	return s.record(OpUpdateCategory, true, "id", id)
}

// DeleteCategory removes a category, unselects it, and reassigns every
// event that referenced it to the sentinel. Events are never deleted.
func (s *Store) DeleteCategory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == model.NoCategoryID {
		return s.record(OpDeleteCategory, false, "id", id, "reason", "sentinel category")
	}
	i := s.categoryIndex(id)
	if i < 0 {
		return s.record(OpDeleteCategory, false, "id", id, "reason", "unknown category")
	}
	s.state.Categories = slices.Delete(s.state.Categories, i, i+1)
	s.state.SelectedCategories = slices.DeleteFunc(s.state.SelectedCategories, func(c string) bool { return c == id })

	reassigned := 0
	for ei := range s.state.Events {
		if s.state.Events[ei].CategoryID == id {
			s.state.Events[ei].CategoryID = model.NoCategoryID
			reassigned++
		}
	}
	return s.record(OpDeleteCategory, true, "id", id, "reassigned", reassigned)
}

// ReorderCategories replaces the category collection with cats as given.
// The caller must pass a permutation of the current collection; it is not
// checked.
func (s *Store) ReorderCategories(cats []model.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Categories = slices.Clone(cats)
	return s.record(OpReorderCategories, true, "count", len(cats))
}

// ToggleCategory flips id's membership in the visibility filter.
func (s *Store) ToggleCategory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.state.SelectedCategories, id); i >= 0 {
		s.state.SelectedCategories = slices.Delete(s.state.SelectedCategories, i, i+1)
		return s.record(OpToggleCategory, true, "id", id, "selected", false)
	}
	s.state.SelectedCategories = append(s.state.SelectedCategories, id)
	return s.record(OpToggleCategory, true, "id", id, "selected", true)
}
