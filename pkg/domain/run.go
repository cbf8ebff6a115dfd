package domain

// Run is the output of one producer invocation: the snapshot before any step
// and the ordered steps. A Run is immutable once built.
type Run struct {
	Algorithm string      `json:"algorithmId"`
	Initial   VisualState `json:"initialState"`
	Steps     []Step      `json:"steps"`
}

// Len returns the number of steps.
func (r *Run) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Steps)
}

// At returns the step at index and the state to display for it.
// Index -1, or any index out of range, yields a nil step and the initial state.
func (r *Run) At(index int) (*Step, VisualState) {
	if index < 0 || index >= r.Len() {
		if r == nil {
			return nil, VisualState{}
		}
		return nil, r.Initial
	}
	return &r.Steps[index], r.Steps[index].State
}

// Final returns the state after the last step, or the initial state of an empty run.
func (r *Run) Final() VisualState {
	_, state := r.At(r.Len() - 1)
	return state
}

// CountKind returns how many steps have the given kind.
func (r *Run) CountKind(kind StepKind) int {
	n := 0
	for _, s := range r.Steps {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the run. A nil run stays nil.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	out := &Run{Algorithm: r.Algorithm, Initial: r.Initial.Clone()}
	if r.Steps != nil {
		out.Steps = make([]Step, len(r.Steps))
		for i, s := range r.Steps {
			out.Steps[i] = s.Clone()
		}
	}
	return out
}
