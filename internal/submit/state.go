// internal/submit/state.go
//
// Submission lifecycle states.
//
//	Idle ──submit(valid)──▶ Pending ──2xx──────▶ Succeeded
//	  ▲                        └──error/non-2xx─▶ Failed
//	  └──────submit(invalid)── Succeeded / Failed
//
// Succeeded and Failed accept a fresh gesture; Pending does not.

package submit

import "fmt"

// Status is the coarse lifecycle position of a controller.
type Status int

const (
	Idle Status = iota
	Pending
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is Status plus the user-facing message that goes with it.  Message is
// set for Failed and, when the form declares one, for Succeeded.
type State struct {
	Status  Status
	Message string
}

func (s State) String() string {
	if s.Message == "" {
		return s.Status.String()
	}
	return s.Status.String() + ": " + s.Message
}

// Navigator moves the application to another route.  Navigate runs while
// the controller holds its transition lock; like Observer it must not call
// Submit or Unmount.
type Navigator interface {
	Navigate(route string)
}

// Observer receives every state transition, in order.  It runs while the
// controller holds its transition lock, so it must not call Submit or
// Unmount.  State and FieldErrors are safe to call.
type Observer func(State)
