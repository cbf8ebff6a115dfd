package recorder

import "github.com/aretw0/algotrace/pkg/domain"

// CallStack is a shadow stack of frames owned by the producer and passed by
// pointer into each recursive call. The function that emits an invocation's
// entry step calls Enter before it, and Leave after its final step.
type CallStack struct {
	frames []domain.Frame
}

// NewCallStack returns an empty stack.
func NewCallStack() *CallStack {
	return &CallStack{}
}

// Enter pushes a frame.
func (s *CallStack) Enter(name string, params domain.Vars, returnLine int) {
	s.frames = append(s.frames, domain.Frame{Name: name, Params: params.Clone(), ReturnLine: returnLine})
}

// Leave pops the innermost frame. Leaving an empty stack is a no-op.
func (s *CallStack) Leave() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of active frames.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Contains reports whether any active frame satisfies match.
func (s *CallStack) Contains(match func(domain.Frame) bool) bool {
	for _, f := range s.frames {
		if match(f) {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the active frames, outermost first.
func (s *CallStack) Snapshot() []domain.Frame {
	out := domain.CloneFrames(s.frames)
	if out == nil {
		out = []domain.Frame{}
	}
	return out
}
