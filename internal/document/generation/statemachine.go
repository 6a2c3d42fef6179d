// internal/document/generation/statemachine.go
package generation

import "fmt"

// State names one stage of a generation request.
type State string

const (
	StateIdle               State = "idle"
	StateValidatingTemplate State = "validating-template"
	StateResolvingData      State = "resolving-data"
	StateRendering          State = "rendering"
	StateValidatingContent  State = "validating-content"
	StatePersisting         State = "persisting"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

type transition struct {
	From State
	To   State
}

// allowedTransitions is the closed set of legal stage moves. The pipeline is
// strictly linear; any non-terminal state may move to failed.
var allowedTransitions = buildTransitions()

func buildTransitions() map[transition]bool {
	allowed := map[transition]bool{
		{StateIdle, StateValidatingTemplate}:          true,
		{StateValidatingTemplate, StateResolvingData}: true,
		{StateResolvingData, StateRendering}:          true,
		{StateRendering, StateValidatingContent}:      true,
		{StateValidatingContent, StatePersisting}:     true,
		{StatePersisting, StateDone}:                  true,
	}
	for _, s := range []State{
		StateIdle, StateValidatingTemplate, StateResolvingData,
		StateRendering, StateValidatingContent, StatePersisting,
	} {
		allowed[transition{s, StateFailed}] = true
	}
	return allowed
}

// InvalidStateTransitionError reports a stage move outside the allowed set.
type InvalidStateTransitionError struct {
	From State
	To   State
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid generation state transition: %s -> %s", e.From, e.To)
}

// requestState tracks one generation request through the pipeline.
type requestState struct {
	current State
}

func newRequestState() *requestState {
	return &requestState{current: StateIdle}
}

func (r *requestState) Current() State {
	return r.current
}

// advance moves to the next stage, rejecting any move the transition table
// does not allow.
func (r *requestState) advance(to State) error {
	if !allowedTransitions[transition{r.current, to}] {
		return &InvalidStateTransitionError{From: r.current, To: to}
	}
	r.current = to
	return nil
}

// fail marks the request failed. Calling it on a terminal state is a no-op so
// error paths do not need to track terminality themselves.
func (r *requestState) fail() {
	if IsTerminal(r.current) {
		return
	}
	r.current = StateFailed
}

// IsTerminal reports whether a state accepts no further transitions.
func IsTerminal(s State) bool {
	return s == StateDone || s == StateFailed
}
