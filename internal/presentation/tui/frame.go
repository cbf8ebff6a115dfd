package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/playback"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	kindStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f472b6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	hotStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#facc15"))
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6366f1")).Padding(0, 1)
)

// Frame renders emissions as framed terminal panels.
type Frame struct {
	// Title names the algorithm in the header.
	Title string

	// Width caps the panel width; 0 means unbounded.
	Width int
}

// Render draws one emission: header, snapshot, variables and call stack.
func (f Frame) Render(e playback.Emission, status string) string {
	var blocks []string
	blocks = append(blocks, f.header(e, status))

	if body := renderState(e.State); body != "" {
		blocks = append(blocks, f.section(body))
	}
	if len(e.Variables) > 0 {
		blocks = append(blocks, f.section(dimStyle.Render("vars ")+e.Variables.String()))
	}
	if e.Step != nil && len(e.Step.CallStack) > 0 {
		blocks = append(blocks, f.section(renderCallStack(e.Step.CallStack)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (f Frame) header(e playback.Emission, status string) string {
	position := "initial state"
	if e.Index >= 0 {
		position = fmt.Sprintf("step %d/%d", e.Index+1, e.Total)
	}
	line := titleStyle.Render(f.Title) + " " + dimStyle.Render(position)
	if status != "" {
		line += " " + dimStyle.Render("("+status+")")
	}
	if e.Step != nil {
		line += "\n" + kindStyle.Render("["+string(e.Step.Kind)+"]") + " " + e.Step.Description
	}
	return line
}

func (f Frame) section(body string) string {
	style := sectionStyle
	if f.Width > 0 {
		style = style.Width(f.Width)
	}
	return style.Render(body)
}

func renderState(s domain.VisualState) string {
	var lines []string
	var hl domain.Highlight
	if s.Highlight != nil {
		hl = *s.Highlight
	}

	if s.Array != nil {
		lines = append(lines, renderInts(s.Array, hl.Indices))
	}
	if s.List != nil {
		lines = append(lines, renderList(s.List))
	}
	if s.Stack != nil {
		lines = append(lines, "stack  "+renderInts(s.Stack, nil)+" <- top")
	}
	if s.Queue != nil {
		lines = append(lines, "queue  front -> "+renderInts(s.Queue, nil)+" <- back")
	}
	if s.Table != nil {
		lines = append(lines, renderTable(s.Table))
	}
	if s.Board != nil {
		lines = append(lines, renderBoard(s.Board))
	}
	if s.Graph != nil {
		lines = append(lines, renderGraph(s.Graph))
	}
	if s.Tree != nil {
		lines = append(lines, renderTree(s.Tree))
	}
	if len(s.Counters) > 0 {
		lines = append(lines, dimStyle.Render(renderCounters(s.Counters)))
	}
	if s.Legend != "" {
		lines = append(lines, dimStyle.Render(s.Legend))
	}
	return strings.Join(lines, "\n")
}

// renderInts prints values in brackets; highlighted positions are marked
// with a star so they survive on terminals without color.
func renderInts(values []int, highlight []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		cell := strconv.Itoa(v)
		if slices.Contains(highlight, i) {
			cell = hotStyle.Render("*" + cell)
		}
		parts[i] = cell
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func renderList(nodes []domain.ListNode) string {
	byID := make(map[string]domain.ListNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		cell := strconv.Itoa(n.Value)
		if n.Role != "" {
			cell = hotStyle.Render(cell + "(" + string(n.Role) + ")")
		}
		next := "null"
		if target, ok := byID[n.Next]; ok {
			next = strconv.Itoa(target.Value)
		}
		parts = append(parts, cell+" -> "+next)
	}
	return "list   " + strings.Join(parts, ", ")
}

func renderTable(entries []domain.TableEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%d:%d", e.Key, e.Value)
	}
	return "table  {" + strings.Join(parts, ", ") + "}"
}

func renderBoard(b *domain.Board) string {
	grid := make([][]byte, b.Size)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", b.Size))
	}
	if b.Attempt != nil && inBoard(b, b.Attempt.Row, b.Attempt.Col) {
		grid[b.Attempt.Row][b.Attempt.Col] = '?'
	}
	for _, q := range b.Queens {
		if !inBoard(b, q.Row, q.Col) {
			continue
		}
		mark := byte('Q')
		if q.Conflict {
			mark = 'X'
		}
		grid[q.Row][q.Col] = mark
	}
	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = strings.Join(strings.Split(string(row), ""), " ")
	}
	if b.Solved {
		rows = append(rows, hotStyle.Render("solved"))
	}
	return strings.Join(rows, "\n")
}

func inBoard(b *domain.Board, row, col int) bool {
	return row >= 0 && row < b.Size && col >= 0 && col < b.Size
}

func renderGraph(g *domain.GraphView) string {
	var current, visited, frontier, idle []string
	for _, n := range g.Nodes {
		name := n.ID
		if n.Label != "" {
			name = n.Label
		}
		switch {
		case n.Active:
			current = append(current, name)
		case n.Frontier:
			frontier = append(frontier, name)
		case n.Visited:
			visited = append(visited, name)
		default:
			idle = append(idle, name)
		}
	}
	lines := []string{
		"current  " + hotStyle.Render(joinOrDash(current)),
		"visited  " + joinOrDash(visited),
		"frontier " + joinOrDash(frontier),
		dimStyle.Render("unseen   " + joinOrDash(idle)),
	}
	return strings.Join(lines, "\n")
}

func renderTree(t *domain.TreeView) string {
	levels := map[int][]string{}
	maxLevel := 0
	for _, n := range t.Nodes {
		label := n.Label
		if n.Active {
			label = hotStyle.Render("*" + label)
		} else if n.Visited {
			label += "'"
		}
		levels[n.Level] = append(levels[n.Level], label)
		maxLevel = max(maxLevel, n.Level)
	}
	if len(t.Nodes) == 0 {
		return "tree   (empty)"
	}
	lines := make([]string, 0, maxLevel+1)
	for l := 0; l <= maxLevel; l++ {
		lines = append(lines, fmt.Sprintf("L%d  %s", l, strings.Join(levels[l], "  ")))
	}
	return strings.Join(lines, "\n")
}

func renderCounters(counters map[string]int) string {
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counters[name])
	}
	return strings.Join(parts, " ")
}

func renderCallStack(frames []domain.Frame) string {
	lines := make([]string, 0, len(frames)+1)
	lines = append(lines, dimStyle.Render("call stack (outermost first)"))
	for depth, f := range frames {
		line := strings.Repeat("  ", depth) + f.Name + "(" + f.Params.String() + ")"
		if depth == len(frames)-1 {
			line = hotStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, " ")
}
