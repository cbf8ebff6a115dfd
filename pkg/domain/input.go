package domain

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Input is the structured input of a producer. A nil field means "use the
// documented default"; a present but empty slice is honored as empty input.
type Input struct {
	Array   []int       `json:"array,omitempty" yaml:"array,omitempty" mapstructure:"array"`
	Graph   *GraphInput `json:"graph,omitempty" yaml:"graph,omitempty" mapstructure:"graph"`
	List    []int       `json:"list,omitempty" yaml:"list,omitempty" mapstructure:"list"`
	Stack   []int       `json:"stack,omitempty" yaml:"stack,omitempty" mapstructure:"stack"`
	Queue   []int       `json:"queue,omitempty" yaml:"queue,omitempty" mapstructure:"queue"`
	Tree    []int       `json:"tree,omitempty" yaml:"tree,omitempty" mapstructure:"tree"`
	NQueens *int        `json:"nQueens,omitempty" yaml:"nQueens,omitempty" mapstructure:"nQueens"`
	N       *int        `json:"n,omitempty" yaml:"n,omitempty" mapstructure:"n"`
	Coins   []int       `json:"coins,omitempty" yaml:"coins,omitempty" mapstructure:"coins"`
	Amount  *int        `json:"amount,omitempty" yaml:"amount,omitempty" mapstructure:"amount"`
	Target  *int        `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
}

// GraphInput is a node list plus an undirected edge list.
type GraphInput struct {
	Nodes []string `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Edges []Edge   `json:"edges" yaml:"edges" mapstructure:"edges"`

	// Start defaults to the first node when empty or unknown.
	Start string `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
}

// Edge is an unordered pair of node IDs, encoded as a two element array.
type Edge [2]string

// IntPtr is a convenience for building Inputs with optional integers.
func IntPtr(v int) *int { return &v }

// WithDefaults returns a copy of in where every nil field is taken from def.
func (in Input) WithDefaults(def Input) Input {
	out := in.Clone()
	d := def.Clone()
	if out.Array == nil {
		out.Array = d.Array
	}
	if out.Graph == nil {
		out.Graph = d.Graph
	}
	if out.List == nil {
		out.List = d.List
	}
	if out.Stack == nil {
		out.Stack = d.Stack
	}
	if out.Queue == nil {
		out.Queue = d.Queue
	}
	if out.Tree == nil {
		out.Tree = d.Tree
	}
	if out.NQueens == nil {
		out.NQueens = d.NQueens
	}
	if out.N == nil {
		out.N = d.N
	}
	if out.Coins == nil {
		out.Coins = d.Coins
	}
	if out.Amount == nil {
		out.Amount = d.Amount
	}
	if out.Target == nil {
		out.Target = d.Target
	}
	return out
}

// Clone returns a deep copy of the input.
func (in Input) Clone() Input {
	out := Input{
		Array: cloneInts(in.Array),
		List:  cloneInts(in.List),
		Stack: cloneInts(in.Stack),
		Queue: cloneInts(in.Queue),
		Tree:  cloneInts(in.Tree),
		Coins: cloneInts(in.Coins),
	}
	if in.Graph != nil {
		g := GraphInput{
			Nodes: cloneStrings(in.Graph.Nodes),
			Edges: slices.Clone(in.Graph.Edges),
			Start: in.Graph.Start,
		}
		out.Graph = &g
	}
	out.NQueens = cloneIntPtr(in.NQueens)
	out.N = cloneIntPtr(in.N)
	out.Amount = cloneIntPtr(in.Amount)
	out.Target = cloneIntPtr(in.Target)
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	return IntPtr(*p)
}

// DecodeInput converts loosely typed data (CLI flags, MCP arguments, YAML
// documents) into an Input. Scalars are weakly typed ("5" becomes 5), comma
// separated strings become slices and "A-B" strings become edges.
func DecodeInput(raw map[string]any) (Input, error) {
	var in Input
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToEdgeHook(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Input{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in, nil
}

func stringToEdgeHook() mapstructure.DecodeHookFuncType {
	edgeType := reflect.TypeOf(Edge{})
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != edgeType {
			return data, nil
		}
		a, b, ok := strings.Cut(strings.TrimSpace(data.(string)), "-")
		if !ok || a == "" || b == "" {
			return nil, fmt.Errorf("edge %q: expected FROM-TO", data)
		}
		return Edge{strings.TrimSpace(a), strings.TrimSpace(b)}, nil
	}
}
