package recorder

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
)

// Entry describes the step to push. The snapshot is passed separately.
type Entry struct {
	// ID defaults to "<kind>-<n>" when empty.
	ID          string
	Kind        domain.StepKind
	Line        int
	Description string
	Vars        domain.Vars

	// Stack, when set, is snapshotted into the step's call stack.
	Stack *CallStack
}

// Recorder accumulates the steps of one producer invocation.
// It is not safe for concurrent use; a producer owns its Recorder.
type Recorder struct {
	initial domain.VisualState
	steps   []domain.Step
	seen    map[string]int
}

// New creates an empty Recorder. The initial snapshot is copied immediately,
// before the producer starts mutating its working memory.
func New(initial domain.VisualState) *Recorder {
	return &Recorder{initial: initial.Clone(), seen: make(map[string]int)}
}

// Push appends a step. The state, variables and call stack are deep-copied
// here, so later mutations of the producer's working memory cannot reach an
// already recorded step. A repeated ID gets a "#n" suffix to stay unique
// within the run.
func (r *Recorder) Push(e Entry, state domain.VisualState) {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", e.Kind, len(r.steps))
	}
	if n := r.seen[id]; n > 0 {
		r.seen[id] = n + 1
		id = fmt.Sprintf("%s#%d", id, n)
	} else {
		r.seen[id] = 1
	}
	step := domain.Step{
		ID:          id,
		Kind:        e.Kind,
		Description: e.Description,
		SourceLine:  e.Line,
		Variables:   e.Vars.Clone(),
		State:       state.Clone(),
	}
	if e.Stack != nil {
		step.CallStack = e.Stack.Snapshot()
	}
	r.steps = append(r.steps, step)
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// Run materializes the recorded steps into a Run. The Recorder must not be
// used afterwards.
func (r *Recorder) Run(algorithm string) *domain.Run {
	steps := r.steps
	if steps == nil {
		steps = []domain.Step{}
	}
	r.steps = nil
	return &domain.Run{
		Algorithm: algorithm,
		Initial:   r.initial,
		Steps:     steps,
	}
}
