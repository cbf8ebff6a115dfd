package playback

import "github.com/aretw0/algotrace/pkg/domain"

// VariableMode selects how the variables of an Emission are accumulated.
type VariableMode int

const (
	// VarsReplay folds the variables of steps 0..cursor, so stepping back
	// forgets bindings introduced later.
	VarsReplay VariableMode = iota
	// VarsLeaky merges the variables of every emitted step into one running
	// view that is only cleared by Load. Stepping back keeps later bindings.
	VarsLeaky
)

func (m VariableMode) String() string {
	switch m {
	case VarsReplay:
		return "replay"
	case VarsLeaky:
		return "leaky"
	default:
		return "unknown"
	}
}

// accumulator tracks the effective variable view. Step variables are only
// read, never written.
type accumulator struct {
	mode VariableMode
	vars domain.Vars
	upTo int // last index folded into vars, replay mode only
}

func newAccumulator(mode VariableMode) accumulator {
	return accumulator{mode: mode, upTo: -1}
}

func (a *accumulator) clear() {
	a.vars = nil
	a.upTo = -1
}

// moveTo updates the view for cursor index of run.
func (a *accumulator) moveTo(run *domain.Run, index int) {
	if a.mode == VarsLeaky {
		if step, _ := run.At(index); step != nil {
			a.vars = a.vars.Merge(step.Variables)
		}
		return
	}

	if index == a.upTo+1 {
		if step, _ := run.At(index); step != nil {
			a.vars = a.vars.Merge(step.Variables)
		}
		a.upTo = index
		return
	}

	a.clear()
	for i := 0; i <= index; i++ {
		if step, _ := run.At(i); step != nil {
			a.vars = a.vars.Merge(step.Variables)
		}
	}
	a.upTo = index
}

func (a *accumulator) view() domain.Vars {
	return a.vars.Clone()
}
