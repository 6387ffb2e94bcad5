package tasks

import (
	"strings"

	"github.com/desertthunder/tinytasks/internal/models"
)

// marker records that op is pending for one task identity.
type marker struct {
	id string
	op Op
}

// snapshot is the whole collection captured before an optimistic mutation.
//
// It is only read by the rollback path of the operation that took it.
type snapshot struct {
	tasks []models.Task
}

// state is everything the engine owns. Guarded by Engine.mu.
type state struct {
	tasks          []models.Task
	draftTitle     string
	draftEditTitle string
	editingID      string
	loading        bool
	saving         bool
	updating       bool
	markers        map[marker]struct{}
	err            error
	errMsg         string
}

func newState() state {
	return state{
		tasks:   []models.Task{},
		loading: true,
		markers: make(map[marker]struct{}),
	}
}

func (s *state) snapshot() snapshot {
	return snapshot{tasks: s.tasks}
}

func (s *state) restore(snap snapshot) {
	s.tasks = snap.tasks
}

func (s *state) mark(id string, op Op)    { s.markers[marker{id, op}] = struct{}{} }
func (s *state) unmark(id string, op Op)  { delete(s.markers, marker{id, op}) }
func (s *state) pending(id string, op Op) bool {
	_, ok := s.markers[marker{id, op}]
	return ok
}

func (s *state) clearError() {
	s.err = nil
	s.errMsg = ""
}

// setError overwrites the error slot.
func (s *state) setError(op Op, err error) {
	s.err = err
	s.errMsg = err.Error()
	if strings.TrimSpace(s.errMsg) == "" {
		s.errMsg = op.fallback()
	}
}

func (s *state) exitEdit() {
	s.editingID = ""
	s.draftEditTitle = ""
}

// without returns a new slice lacking the task with id.
func without(tasks []models.Task, id string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// toggled returns a new slice with the completed flag of the task at i flipped.
func toggled(tasks []models.Task, i int) []models.Task {
	out := models.Clone(tasks)
	out[i].Completed = !out[i].Completed
	return out
}

// View is a copy of the engine state for rendering.
type View struct {
	Tasks          []models.Task
	DraftTitle     string
	DraftEditTitle string
	EditingID      string
	Loading        bool
	Saving         bool // a create is in flight
	Updating       bool // a rename is in flight
	Deleting       map[string]bool
	Toggling       map[string]bool
	Renaming       map[string]bool
	Error          string
}

func (s *state) view() View {
	v := View{
		Tasks:          models.Clone(s.tasks),
		DraftTitle:     s.draftTitle,
		DraftEditTitle: s.draftEditTitle,
		EditingID:      s.editingID,
		Loading:        s.loading,
		Saving:         s.saving,
		Updating:       s.updating,
		Deleting:       map[string]bool{},
		Toggling:       map[string]bool{},
		Renaming:       map[string]bool{},
		Error:          s.errMsg,
	}
	for m := range s.markers {
		switch m.op {
		case OpDelete:
			v.Deleting[m.id] = true
		case OpToggle:
			v.Toggling[m.id] = true
		case OpRename:
			v.Renaming[m.id] = true
		}
	}
	return v
}

// IsEditing reports whether id is the task currently in edit mode.
func (v View) IsEditing(id string) bool {
	return id != "" && v.EditingID == id
}

// Busy reports whether any operation is pending for id.
func (v View) Busy(id string) bool {
	return v.Deleting[id] || v.Toggling[id] || v.Renaming[id]
}

// Find returns the task with id.
func (v View) Find(id string) (models.Task, bool) {
	if i := models.IndexOf(v.Tasks, id); i >= 0 {
		return v.Tasks[i], true
	}
	return models.Task{}, false
}
