package analyzer

import "fmt"

// State is a step of the live/simulated adapter
type State int

const (
	StateInit State = iota
	StateAttempting
	StateSuccess
	StateFailure
	StateSimulated
	StateDone
)

var stateNames = [...]string{
	StateInit:       "init",
	StateAttempting: "attempting",
	StateSuccess:    "success",
	StateFailure:    "failure",
	StateSimulated:  "simulated",
	StateDone:       "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// transitions lists the legal moves. Init may go straight to Simulated when
// no live collaborator is configured.
var transitions = map[State][]State{
	StateInit:       {StateAttempting, StateSimulated},
	StateAttempting: {StateSuccess, StateFailure},
	StateSuccess:    {StateDone},
	StateFailure:    {StateSimulated},
	StateSimulated:  {StateDone},
}

// Observer receives adapter events. Implementations must be safe for
// concurrent use.
type Observer interface {
	Transition(kind InputKind, from, to State)
	LiveFailure(failure *LiveAdapterFailure)
}

type nopObserver struct{}

func (nopObserver) Transition(InputKind, State, State) {}
func (nopObserver) LiveFailure(*LiveAdapterFailure)    {}

// run tracks the state of a single invocation
type run struct {
	kind     InputKind
	state    State
	observer Observer
	path     []State
}

func newRun(kind InputKind, observer Observer) *run {
	return &run{kind: kind, state: StateInit, observer: observer, path: []State{StateInit}}
}

func (r *run) to(next State) {
	for _, allowed := range transitions[r.state] {
		if allowed == next {
			r.observer.Transition(r.kind, r.state, next)
			r.state = next
			r.path = append(r.path, next)
			return
		}
	}
	panic(fmt.Sprintf("analyzer: illegal transition %s -> %s", r.state, next))
}

func (r *run) fail(f *LiveAdapterFailure) {
	r.observer.LiveFailure(f)
	r.to(StateFailure)
}
