package web

import (
	"fmt"
	"net/http"
	"time"

	"calgrid/internal/gesture"
	"calgrid/internal/model"
)

// The gesture endpoints replay a whole pointer interaction in one request.
// Each request drives its own gesture.Session from begin to end, so a
// request emits at most one store mutation.

type moveRequest struct {
	EventID string    `json:"eventId"`
	Slot    time.Time `json:"slot"`
	// DryRun returns the resulting event without storing it.
	DryRun bool `json:"dryRun,omitempty"`
}

func (s *Server) handleGestureMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode move: %v", err))
		return
	}
	sess := gesture.NewSession(s.store, s.snap)
	if err := sess.BeginDrag(req.EventID); err != nil {
		writeError(w, gestureStatus(err), err.Error())
		return
	}
	if req.Slot.IsZero() {
		sess.Leave()
	} else {
		sess.Over(gesture.Slot(req.Slot))
	}
	s.finishGesture(w, sess, req.DryRun)
}

type resizeRequest struct {
	EventID string  `json:"eventId"`
	Edge    string  `json:"edge"`
	DeltaPx float64 `json:"deltaPx"`
	DryRun  bool    `json:"dryRun,omitempty"`
}

func (s *Server) handleGestureResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode resize: %v", err))
		return
	}
	edge, err := gesture.ParseEdge(req.Edge)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := gesture.NewSession(s.store, s.snap)
	if err := sess.BeginResize(nil, req.EventID, edge, 0); err != nil {
		writeError(w, gestureStatus(err), err.Error())
		return
	}
	sess.Move(req.DeltaPx)
	s.finishGesture(w, sess, req.DryRun)
}

type categoryGestureRequest struct {
	CategoryID string `json:"categoryId"`
	OverID     string `json:"overId,omitempty"`
	Trash      bool   `json:"trash,omitempty"`
}

func (s *Server) handleGestureCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryGestureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode category gesture: %v", err))
		return
	}
	sess := gesture.NewSession(s.store, s.snap)
	if err := sess.BeginCategoryDrag(req.CategoryID); err != nil {
		writeError(w, gestureStatus(err), err.Error())
		return
	}
	switch {
	case req.Trash:
		sess.Over(gesture.Trash())
	case req.OverID != "":
		sess.Over(gesture.OverCategory(req.OverID))
	}
	s.endGesture(w, sess)
}

type gestureResponse struct {
	Applied bool `json:"applied"`
	// Event is the previewed result of a dry run, if the gesture has one.
	Event *model.Event `json:"event,omitempty"`
}

// finishGesture ends sess, or on a dry run reports its preview and
// cancels it.
func (s *Server) finishGesture(w http.ResponseWriter, sess *gesture.Session, dryRun bool) {
	if !dryRun {
		s.endGesture(w, sess)
		return
	}
	resp := gestureResponse{}
	if ev, ok := sess.Preview(); ok {
		resp.Event = &ev
	}
	sess.Cancel()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) endGesture(w http.ResponseWriter, sess *gesture.Session) {
	applied, err := sess.End()
	if err != nil {
		writeError(w, gestureStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{Applied: applied})
}
