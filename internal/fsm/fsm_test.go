package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A tiny machine accepting "a+b" over a 2-symbol alphabet, used to exercise
// Run's three outcomes (accept, mid-stream reject, exhausted-non-accepting).
type sym int

const (
	symA sym = iota
	symB
)

func abMachine() Machine[sym] {
	return Machine[sym]{
		Initial:   1,
		Accepting: map[State]bool{3: true},
		Next: func(state State, item sym) State {
			switch {
			case state == 1 && item == symA:
				return 2
			case state == 2 && item == symA:
				return 2
			case state == 2 && item == symB:
				return 3
			default:
				return Reject
			}
		},
	}
}

func TestRunAccepts(t *testing.T) {
	r := Run(abMachine(), []sym{symA, symA, symB})
	require.True(t, r.Accepted)
}

func TestRunRejectsMidStream(t *testing.T) {
	r := Run(abMachine(), []sym{symB})
	require.False(t, r.Accepted)
	require.True(t, r.HasFailedAt)
	require.Equal(t, symB, r.FailedAt)
	require.Equal(t, State(1), r.State)
}

func TestRunExhaustedNonAccepting(t *testing.T) {
	r := Run(abMachine(), []sym{symA})
	require.False(t, r.Accepted)
	require.True(t, r.HasFailedAt)
	require.Equal(t, symA, r.FailedAt)
}

func TestRunEmptyStreamNotAccepting(t *testing.T) {
	r := Run(abMachine(), nil)
	require.False(t, r.Accepted)
	require.False(t, r.HasFailedAt)
}
