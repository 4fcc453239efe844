// Package fsm implements a small, reusable finite-state-machine validator
// for token streams. Transitions are table-driven data, not a switch
// inside a closure, so a rejection state maps directly to a diagnostic.
package fsm

// State identifies a machine state. The zero value is the sentinel
// meaning "rejected here" and must never appear in a machine's states.
type State uint32

const Reject State = 0

// Item is anything a Machine can consult to decide its next state; the
// analyzer's token kinds satisfy this directly.
type Item interface {
	comparable
}

// Machine is a generic grammar validator: an initial state, a set of
// accepting states, and a pure transition function. Next returning Reject
// means the input is invalid from that state.
type Machine[I Item] struct {
	Initial    State
	Accepting  map[State]bool
	Next       func(state State, item I) State
}

// Result describes where a Run stopped.
type Result[I Item] struct {
	Accepted bool
	// State is the last state reached before stopping.
	State State
	// FailedAt is the offending item, valid only when !Accepted and the
	// stream was non-empty.
	FailedAt I
	// HasFailedAt reports whether FailedAt is meaningful (false when the
	// stream was exhausted in a non-accepting state with nothing left to
	// blame).
	HasFailedAt bool
}

// Run steps the machine across items, stopping at the first rejection or
// after exhausting the stream. It accepts iff the machine never rejects
// and the final state is an accepting state. When the stream is exhausted
// in a non-accepting state, the error is attributed to the last item
// consumed (there is nothing else to blame for "the grammar ran out of
// input too early").
func Run[I Item](m Machine[I], items []I) Result[I] {
	state := m.Initial
	var last I
	hasLast := false

	for _, item := range items {
		next := m.Next(state, item)
		if next == Reject {
			return Result[I]{Accepted: false, State: state, FailedAt: item, HasFailedAt: true}
		}
		state = next
		last = item
		hasLast = true
	}

	if m.Accepting[state] {
		return Result[I]{Accepted: true, State: state}
	}
	return Result[I]{Accepted: false, State: state, FailedAt: last, HasFailedAt: hasLast}
}
