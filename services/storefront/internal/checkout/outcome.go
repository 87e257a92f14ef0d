package checkout

import (
	"fmt"
	"sync/atomic"
)

// State is the submitter's position in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateIdle, StateSubmitting, StateSucceeded, StateFailed} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown checkout state %q", text)
}

// Reason explains a failed submission.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonValidationFailed   Reason = "validation_failed"
	ReasonSubmissionRejected Reason = "submission_rejected"
	ReasonSubmissionTimedOut Reason = "submission_timed_out"
)

// Outcome is the terminal result of one Submit call.
type Outcome struct {
	State  State  `json:"state"`
	Reason Reason `json:"reason,omitempty"`
	// OrderID is set when the order desk returned one.
	OrderID string `json:"order_id,omitempty"`

	// Diagnostics below are logged and never rendered to the shopper.

	// StatusCode is the order desk's HTTP status, zero when no response arrived.
	StatusCode int `json:"-"`
	// Message is the order desk's diagnostic or DefaultDiagnostic.
	Message string `json:"-"`
	// Fields names the blank customer fields of a failed validation.
	Fields []string `json:"-"`
	Err    error    `json:"-"`
}

// Succeeded reports whether the order was accepted.
func (o Outcome) Succeeded() bool { return o.State == StateSucceeded }

type atomicState struct{ v atomic.Int32 }

func (a *atomicState) Load() State   { return State(a.v.Load()) }
func (a *atomicState) Store(s State) { a.v.Store(int32(s)) }

func (a *atomicState) CompareAndSwap(from, to State) bool {
	return a.v.CompareAndSwap(int32(from), int32(to))
}
