package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"calgrid/internal/gesture"
	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/view"
)

type cellsResponse struct {
	Title string `json:"title"`
	view.Grid
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// handleCells projects ?view= and ?date= (defaulting to the session's
// current view and selected date) through the visibility filter.
func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "" && r.URL.Query().Get("date") == "" {
		v, date := s.store.View(), s.store.SelectedDate()
		grid, err := s.store.CurrentCells()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cellsResponse{Title: view.Title(v, date), Grid: grid})
		return
	}

	v := s.store.View()
	if q := r.URL.Query().Get("view"); q != "" {
		v = model.ViewType(q)
	}
	date := s.store.SelectedDate()
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := s.dates.Parse(q, date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = d
	}

	grid, err := s.store.CellsFor(v, date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cellsResponse{Title: view.Title(v, date), Grid: grid})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode event: %v", err))
		return
	}
	if err := checkRecurrence(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ev.End.IsZero() && !ev.Start.IsZero() {
		ev.End = ev.Start.Add(view.DefaultEventDuration)
	}
	writeJSON(w, http.StatusCreated, s.store.AddEvent(ev))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var ev model.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode event: %v", err))
		return
	}
	if err := checkRecurrence(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev.ID = chi.URLParam(r, "id")
	s.applied(w, s.store.UpdateEvent(ev), "unknown event")
}

// checkRecurrence rejects weekdays outside 0 (Sunday) to 6 (Saturday).
func checkRecurrence(ev model.Event) error {
	if ev.Recurrence != nil && !ev.Recurrence.Valid() {
		return fmt.Errorf("recurrence days must be 0 (Sunday) to 6 (Saturday), got %v", ev.Recurrence.Days)
	}
	return nil
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.applied(w, s.store.DeleteEvent(chi.URLParam(r, "id")), "unknown event")
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := gesture.OpenAddCategory(s.store); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode category: %v", err))
		return
	}
	cat, ok := s.store.AddCategory(req.Name, req.Color)
	if !ok {
		writeError(w, http.StatusConflict, gesture.ErrCategoryLimit.Error())
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode category: %v", err))
		return
	}
	s.applied(w, s.store.UpdateCategory(chi.URLParam(r, "id"), req.Name, req.Color), "category cannot be updated")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.applied(w, s.store.DeleteCategory(chi.URLParam(r, "id")), "category cannot be deleted")
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var cats []model.Category
	if err := decodeJSON(w, r, &cats); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode categories: %v", err))
		return
	}
	s.applied(w, s.store.ReorderCategories(cats), "reorder rejected")
}

func (s *Server) handleToggleCategory(w http.ResponseWriter, r *http.Request) {
	s.applied(w, s.store.ToggleCategory(chi.URLParam(r, "id")), "toggle rejected")
}

type groupRequest struct {
	EventIDs []string `json:"eventIds"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode group: %v", err))
		return
	}
	g, ok := s.store.CreateGroup(req.EventIDs)
	if !ok {
		writeError(w, http.StatusConflict, "a group needs at least two known events")
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUngroup(w http.ResponseWriter, r *http.Request) {
	s.applied(w, s.store.UngroupEvents(chi.URLParam(r, "id")), "unknown group")
}

type viewRequest struct {
	View model.ViewType `json:"view"`
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode view: %v", err))
		return
	}
	if !req.View.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %q", view.ErrUnknownView, req.View))
		return
	}
	s.applied(w, s.store.SetView(req.View), "view rejected")
}

type dateRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleSetDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode date: %v", err))
		return
	}
	d, err := s.dates.Parse(req.Date, s.store.SelectedDate())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applied(w, s.store.SetSelectedDate(d), "date rejected")
}

func (s *Server) handleToggleSidebar(w http.ResponseWriter, _ *http.Request) {
	s.applied(w, s.store.ToggleSidebar(), "toggle rejected")
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

type navigateResponse struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode navigate: %v", err))
		return
	}
	dir, err := view.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := s.store.Navigate(dir)
	writeJSON(w, http.StatusOK, navigateResponse{Date: d, Title: view.Title(s.store.View(), d)})
}

func (s *Server) handleToday(w http.ResponseWriter, _ *http.Request) {
	d := s.store.Today()
	writeJSON(w, http.StatusOK, navigateResponse{Date: d, Title: view.Title(s.store.View(), d)})
}

// gestureStatus maps gesture errors to HTTP status codes.
func gestureStatus(err error) int {
	switch {
	case errors.Is(err, gesture.ErrUnknownEvent), errors.Is(err, gesture.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, gesture.ErrSentinelCategory), errors.Is(err, gesture.ErrGestureActive):
		return http.StatusConflict
	default:
		appLog.Debug("gesture request rejected", "err", err)
		return http.StatusBadRequest
	}
}
