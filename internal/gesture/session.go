package gesture

import (
	"time"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// Store is the subset of the entity store a gesture mutates.
type Store interface {
	Event(id string) (model.Event, bool)
	UpdateEvent(ev model.Event) bool
	Categories() []model.Category
	ReorderCategories(cats []model.Category) bool
	DeleteCategory(id string) bool
}

// Pointer delivers pointer-move and pointer-release notifications for a
// resize. Listen registers both callbacks until stop is called.
type Pointer interface {
	Listen(onMove func(y float64), onRelease func()) (stop func())
}

// Phase is the state of a Session.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Resizing
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// TargetKind identifies what the pointer is over during a drag.
type TargetKind int

const (
	NoTarget TargetKind = iota
	SlotTarget
	CategoryTarget
	TrashTarget
)

// Target is a registered drop target.
type Target struct {
	Kind       TargetKind
	At         time.Time
	CategoryID string
}

// Slot is a time cell anchored at at.
func Slot(at time.Time) Target { return Target{Kind: SlotTarget, At: at} }

// OverCategory is another entry of the sortable category list.
func OverCategory(id string) Target { return Target{Kind: CategoryTarget, CategoryID: id} }

// Trash is the category delete target.
func Trash() Target { return Target{Kind: TrashTarget} }

type subject int

const (
	subjectEvent subject = iota
	subjectCategory
)

// Session runs one gesture at a time:
//
//	idle -> dragging (BeginDrag / BeginCategoryDrag) -> idle (End / Cancel)
//	idle -> resizing (BeginResize) -> idle (End / Cancel / pointer release)
//
// End emits at most one store mutation. Listeners acquired by BeginResize
// are released on every path back to idle.
type Session struct {
	store Store
	snap  Snap

	phase   Phase
	subject subject
	id      string
	target  Target

	origin  model.Event
	edge    Edge
	originY float64
	deltaPx float64
	stop    func()
}

// NewSession returns an idle session over st.
func NewSession(st Store, snap Snap) *Session {
	return &Session{store: st, snap: snap}
}

// Phase reports the current state.
func (s *Session) Phase() Phase {
	return s.phase
}

// BeginDrag starts dragging an event.
func (s *Session) BeginDrag(eventID string) error {
	if s.phase != Idle {
		return ErrGestureActive
	}
	if _, ok := s.store.Event(eventID); !ok {
		return ErrUnknownEvent
	}
	s.phase = Dragging
	s.subject = subjectEvent
	s.id = eventID
	return nil
}

// BeginCategoryDrag starts dragging a category in the sortable list. The
// sentinel cannot be dragged.
func (s *Session) BeginCategoryDrag(categoryID string) error {
	if s.phase != Idle {
		return ErrGestureActive
	}
	if categoryID == model.NoCategoryID {
		return ErrSentinelCategory
	}
	known := false
	for _, c := range s.store.Categories() {
		if c.ID == categoryID {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownCategory
	}
	s.phase = Dragging
	s.subject = subjectCategory
	s.id = categoryID
	return nil
}

// Over registers the target under the pointer. Ignored unless dragging.
func (s *Session) Over(t Target) {
	if s.phase == Dragging {
		s.target = t
	}
}

// Leave clears the registered target.
func (s *Session) Leave() {
	if s.phase == Dragging {
		s.target = Target{}
	}
}

// BeginResize starts resizing edge of an event from pointer height originY.
// Pointer moves and the release are taken from p until the gesture ends.
// Ordinary drags are refused while resizing.
func (s *Session) BeginResize(p Pointer, eventID string, edge Edge, originY float64) error {
	if s.phase != Idle {
		return ErrGestureActive
	}
	if edge != EdgeStart && edge != EdgeEnd {
		return ErrInvalidEdge
	}
	ev, ok := s.store.Event(eventID)
	if !ok {
		return ErrUnknownEvent
	}
	s.phase = Resizing
	s.id = eventID
	s.origin = ev
	s.edge = edge
	s.originY = originY
	s.deltaPx = 0
	if p != nil {
		s.stop = p.Listen(s.Move, func() {
			if _, err := s.End(); err != nil {
				appLog.Debug("resize release ignored", "err", err)
			}
		})
	}
	return nil
}

// Move records the pointer height during a resize.
func (s *Session) Move(y float64) {
	if s.phase == Resizing {
		s.deltaPx = y - s.originY
	}
}

// Preview returns the event as it would be stored if the gesture ended now.
func (s *Session) Preview() (model.Event, bool) {
	switch s.phase {
	case Resizing:
		return Resize(s.origin, s.edge, s.snap.Minutes(s.deltaPx)), true
	case Dragging:
		if s.subject != subjectEvent || s.target.Kind != SlotTarget {
			return model.Event{}, false
		}
		ev, ok := s.store.Event(s.id)
		if !ok {
			return model.Event{}, false
		}
		return Move(ev, s.target.At), true
	default:
		return model.Event{}, false
	}
}

// End completes the gesture and emits its mutation, if any. It reports
// whether the store applied a change.
func (s *Session) End() (bool, error) {
	if s.phase == Idle {
		return false, ErrNoGesture
	}
	defer s.reset()

	switch s.phase {
	case Resizing:
		return s.endResize(), nil
	case Dragging:
		if s.subject == subjectCategory {
			return s.endCategoryDrag()
		}
		return s.endDrag(), nil
	}
	return false, nil
}

// Cancel abandons the gesture without touching the store. Safe to call
// when idle.
func (s *Session) Cancel() {
	if s.phase != Idle {
		appLog.Debug("gesture cancelled", "phase", s.phase.String(), "id", s.id)
	}
	s.reset()
}

func (s *Session) endResize() bool {
	minutes := s.snap.Minutes(s.deltaPx)
	if minutes == 0 {
		return false
	}
	return s.store.UpdateEvent(Resize(s.origin, s.edge, minutes))
}

func (s *Session) endDrag() bool {
	if s.target.Kind != SlotTarget {
		return false
	}
	ev, ok := s.store.Event(s.id)
	if !ok {
		return false
	}
	return s.store.UpdateEvent(Move(ev, s.target.At))
}

func (s *Session) endCategoryDrag() (bool, error) {
	switch s.target.Kind {
	case TrashTarget:
		return s.store.DeleteCategory(s.id), nil
	case CategoryTarget:
		if s.target.CategoryID == s.id {
			return false, nil
		}
		reordered, err := MoveCategory(s.store.Categories(), s.id, s.target.CategoryID)
		if err != nil {
			return false, err
		}
		return s.store.ReorderCategories(reordered), nil
	default:
		return false, nil
	}
}

// reset releases listeners and returns to idle.
func (s *Session) reset() {
	if s.stop != nil {
		stop := s.stop
		s.stop = nil
		stop()
	}
	s.phase = Idle
	s.id = ""
	s.target = Target{}
	s.origin = model.Event{}
	s.edge = ""
	s.originY = 0
	s.deltaPx = 0
}
