package domain

// StepKind classifies a Step for styling and filtering.
// It never affects playback semantics.
type StepKind string

const (
	KindCompare   StepKind = "compare"
	KindSwap      StepKind = "swap"
	KindWrite     StepKind = "write"
	KindRead      StepKind = "read"
	KindVisit     StepKind = "visit"
	KindEnqueue   StepKind = "enqueue"
	KindDequeue   StepKind = "dequeue"
	KindPush      StepKind = "push"
	KindPop       StepKind = "pop"
	KindMerge     StepKind = "merge"
	KindPartition StepKind = "partition"
	KindRecurse   StepKind = "recurse"
	KindReturn    StepKind = "return"
	KindMark      StepKind = "mark"
	KindInfo      StepKind = "info"
)

// StepKinds lists every valid kind in declaration order.
var StepKinds = []StepKind{
	KindCompare, KindSwap, KindWrite, KindRead, KindVisit,
	KindEnqueue, KindDequeue, KindPush, KindPop, KindMerge,
	KindPartition, KindRecurse, KindReturn, KindMark, KindInfo,
}

// Valid reports whether k is one of the known kinds.
func (k StepKind) Valid() bool {
	for _, known := range StepKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Step is an immutable record of one primitive operation.
type Step struct {
	// ID is unique within a Run. Used for identity and debugging only.
	ID string `json:"id"`

	Kind StepKind `json:"kind"`

	// Description is a human-readable sentence for display.
	Description string `json:"description"`

	// SourceLine points into the reference listing of the algorithm. Cosmetic.
	SourceLine int `json:"sourceLine"`

	// Variables holds only the bindings introduced or updated by this operation.
	Variables Vars `json:"variables,omitempty"`

	// CallStack is present for recursive producers only, outermost frame first.
	CallStack []Frame `json:"callStack,omitempty"`

	// State is a complete snapshot. It must render correctly on its own.
	State VisualState `json:"state"`
}

// Frame is one entry of a recursive producer's shadow call stack.
type Frame struct {
	Name   string `json:"name"`
	Params Vars   `json:"params,omitempty"`

	// ReturnLine is an opaque annotation for code highlighting.
	// It carries no control-flow meaning.
	ReturnLine int `json:"returnLine,omitempty"`
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := s
	out.Variables = s.Variables.Clone()
	out.CallStack = CloneFrames(s.CallStack)
	out.State = s.State.Clone()
	return out
}

// CloneFrames deep-copies a call stack. A nil stack stays nil.
func CloneFrames(frames []Frame) []Frame {
	if frames == nil {
		return nil
	}
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = Frame{Name: f.Name, Params: f.Params.Clone(), ReturnLine: f.ReturnLine}
	}
	return out
}
