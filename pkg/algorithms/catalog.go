package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/algotrace/pkg/domain"
)

// Algorithm IDs.
const (
	IDBubbleSort           = "bubble-sort"
	IDMergeSort            = "merge-sort"
	IDQuickSort            = "quick-sort"
	IDBFS                  = "bfs"
	IDDFS                  = "dfs"
	IDReverseList          = "linked-list-reverse"
	IDReverseListRecursive = "linked-list-reverse-recursive"
	IDStack                = "stack"
	IDQueue                = "queue"
	IDTreeInorder          = "tree-traversal"
	IDTreeHeight           = "tree-height"
	IDNQueens              = "n-queens"
	IDClimbStairs          = "climb-stairs"
	IDCoinChange           = "coin-change"
	IDTwoSum               = "two-sum"
	IDContainerWater       = "container-water"
)

// InputKind names the field of domain.Input an algorithm reads.
type InputKind string

const (
	InputArray  InputKind = "array"
	InputGraph  InputKind = "graph"
	InputList   InputKind = "list"
	InputStack  InputKind = "stack"
	InputQueue  InputKind = "queue"
	InputTree   InputKind = "tree"
	InputBoard  InputKind = "nqueen"
	InputStairs InputKind = "stairs"
	InputCoins  InputKind = "coins"
	InputTarget InputKind = "target"
)

// Producer turns an input into a recorded run.
type Producer func(domain.Input) *domain.Run

// Definition is one catalog entry.
type Definition struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Category    string       `json:"category" yaml:"category"`
	Description string       `json:"description" yaml:"description"`
	InputKind   InputKind    `json:"inputKind" yaml:"inputKind"`
	Defaults    domain.Input `json:"defaults" yaml:"defaults"`
	Produce     Producer     `json:"-" yaml:"-"`
}

var exampleGraph = &domain.GraphInput{
	Nodes: []string{"A", "B", "C", "D", "E", "F"},
	Edges: []domain.Edge{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}, {"C", "E"}, {"D", "F"}},
	Start: "A",
}

var exampleTree = []int{7, 3, 9, 1, 5, 8, 10}

// Defaults holds the documented default input of every producer.
var Defaults = struct {
	BubbleSort, MergeSort, QuickSort, BFS, DFS, ReverseList, ReverseListRecursive,
	Stack, Queue, TreeInorder, TreeHeight, NQueens, ClimbStairs, CoinChange, TwoSum, ContainerWater domain.Input
}{
	BubbleSort:           domain.Input{Array: []int{5, 1, 4, 2, 8, 3}},
	MergeSort:            domain.Input{Array: []int{1, 2, 3, 5, 4, 6}},
	QuickSort:            domain.Input{Array: []int{9, 8, 7, 6, 5, 4}},
	BFS:                  domain.Input{Graph: exampleGraph},
	DFS:                  domain.Input{Graph: exampleGraph},
	ReverseList:          domain.Input{List: []int{3, 1, 4, 1, 5}},
	ReverseListRecursive: domain.Input{List: []int{3, 1, 4, 1, 5}},
	Stack:                domain.Input{Stack: []int{1, 2, 3}},
	Queue:                domain.Input{Queue: []int{7, 8, 9}},
	TreeInorder:          domain.Input{Tree: exampleTree},
	TreeHeight:           domain.Input{Tree: exampleTree},
	NQueens:              domain.Input{NQueens: domain.IntPtr(4)},
	ClimbStairs:          domain.Input{N: domain.IntPtr(5)},
	CoinChange:           domain.Input{Coins: []int{1, 2, 5}, Amount: domain.IntPtr(11)},
	TwoSum:               domain.Input{Array: []int{2, 7, 11, 15}, Target: domain.IntPtr(9)},
	ContainerWater:       domain.Input{Array: []int{1, 8, 6, 2, 5, 4, 8, 3, 7}},
}

var catalog = []Definition{
	{ID: IDBubbleSort, Name: "Bubble Sort", Category: "Arrays", Description: "Simple adjacent swap sorting", InputKind: InputArray, Defaults: Defaults.BubbleSort, Produce: BubbleSort},
	{ID: IDMergeSort, Name: "Merge Sort", Category: "Arrays", Description: "Divide and conquer stable sort", InputKind: InputArray, Defaults: Defaults.MergeSort, Produce: MergeSort},
	{ID: IDQuickSort, Name: "Quick Sort", Category: "Arrays", Description: "In-place partition sort", InputKind: InputArray, Defaults: Defaults.QuickSort, Produce: QuickSort},
	{ID: IDTwoSum, Name: "Two Sum", Category: "Arrays", Description: "One-pass hash map lookup", InputKind: InputTarget, Defaults: Defaults.TwoSum, Produce: TwoSum},
	{ID: IDContainerWater, Name: "Container With Most Water", Category: "Arrays", Description: "Two-pointer max area", InputKind: InputArray, Defaults: Defaults.ContainerWater, Produce: ContainerWater},
	{ID: IDReverseList, Name: "Reverse Linked List", Category: "Linked List", Description: "Pointer rewiring walk", InputKind: InputList, Defaults: Defaults.ReverseList, Produce: ReverseList},
	{ID: IDReverseListRecursive, Name: "Reverse Linked List (Recursive)", Category: "Linked List", Description: "Recursive pointer reversal", InputKind: InputList, Defaults: Defaults.ReverseListRecursive, Produce: ReverseListRecursive},
	{ID: IDStack, Name: "Stack Push/Pop", Category: "Stacks & Queues", Description: "LIFO push/pop demo", InputKind: InputStack, Defaults: Defaults.Stack, Produce: Stack},
	{ID: IDQueue, Name: "Queue Enqueue/Dequeue", Category: "Stacks & Queues", Description: "FIFO enqueue/dequeue demo", InputKind: InputQueue, Defaults: Defaults.Queue, Produce: Queue},
	{ID: IDTreeInorder, Name: "Binary Tree Traversal (Inorder)", Category: "Trees", Description: "Inorder traversal of a binary tree", InputKind: InputTree, Defaults: Defaults.TreeInorder, Produce: TreeInorder},
	{ID: IDTreeHeight, Name: "Binary Tree Height", Category: "Trees", Description: "Recursive max depth", InputKind: InputTree, Defaults: Defaults.TreeHeight, Produce: TreeHeight},
	{ID: IDBFS, Name: "Breadth-First Search", Category: "Graphs", Description: "Layered traversal", InputKind: InputGraph, Defaults: Defaults.BFS, Produce: BFS},
	{ID: IDDFS, Name: "Depth-First Search", Category: "Graphs", Description: "Recursive traversal", InputKind: InputGraph, Defaults: Defaults.DFS, Produce: DFS},
	{ID: IDNQueens, Name: "N-Queens", Category: "Backtracking", Description: "Row-by-row placement with conflict sets", InputKind: InputBoard, Defaults: Defaults.NQueens, Produce: NQueens},
	{ID: IDClimbStairs, Name: "Climbing Stairs", Category: "Dynamic Programming", Description: "Bottom-up count of climbing paths", InputKind: InputStairs, Defaults: Defaults.ClimbStairs, Produce: ClimbStairs},
	{ID: IDCoinChange, Name: "Coin Change", Category: "Dynamic Programming", Description: "Bottom-up minimum coins", InputKind: InputCoins, Defaults: Defaults.CoinChange, Produce: CoinChange},
}

// All returns the catalog in display order.
func All() []Definition {
	return slices.Clone(catalog)
}

// Lookup finds a definition by ID.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// MustLookup is Lookup for IDs known at compile time.
func MustLookup(id string) Definition {
	d, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("algorithms: unknown id %q", id))
	}
	return d
}

// Categories returns the distinct categories in catalog order.
func Categories() []string {
	var out []string
	for _, d := range catalog {
		if !slices.Contains(out, d.Category) {
			out = append(out, d.Category)
		}
	}
	return out
}

// Build runs the producer for id. The returned run carries the ID.
func Build(id string, in domain.Input) (*domain.Run, error) {
	d, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAlgorithmNotFound, id)
	}
	return d.Produce(in), nil
}
