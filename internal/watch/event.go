// Package watch keeps the runtime tree in sync with the source tree by
// routing filesystem changes to the smallest rebuild action that covers them.
package watch

// EventKind is the kind of a filesystem change.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventDeleted  EventKind = "deleted"
	EventModified EventKind = "modified"
	EventMoved    EventKind = "moved"
)

// ChangeEvent is one filesystem change below the source root. DestPath is
// only set for moves whose destination is known.
type ChangeEvent struct {
	Path     string
	Kind     EventKind
	DestPath string
}
