package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

// NQueensMin and NQueensMax bound the board size. The full backtracking
// search is recorded, so the step count grows quickly with n.
const (
	NQueensMin = 4
	NQueensMax = 8
)

var queensLines = struct {
	solve, setup, guard, forLoop, conflictCheck, place, markCol, markDiag1, markDiag2,
	recurse, unplace, unmarkCol, unmarkDiag1, unmarkDiag2, done, returnBoard int
}{
	solve: 1, setup: 2, guard: 8, forLoop: 11, conflictCheck: 12, place: 13, markCol: 14,
	markDiag1: 15, markDiag2: 16, recurse: 17, unplace: 18, unmarkCol: 19, unmarkDiag1: 20,
	unmarkDiag2: 21, done: 26, returnBoard: 27,
}

type queensSolver struct {
	n         int
	queens    []domain.Cell
	cols      map[int]bool
	diag1     map[int]bool
	diag2     map[int]bool
	solutions int
	rec       *recorder.Recorder
	stack     *recorder.CallStack
}

// NQueens records a row-by-row backtracking search counting every solution.
// The board size is clamped to [NQueensMin, NQueensMax].
func NQueens(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.NQueens)
	s := &queensSolver{
		n:     clamp(valueOr(in.NQueens, NQueensMin), NQueensMin, NQueensMax),
		cols:  make(map[int]bool),
		diag1: make(map[int]bool),
		diag2: make(map[int]bool),
		stack: recorder.NewCallStack(),
	}
	s.rec = recorder.New(s.capture(nil, false, false))

	s.push("start-solve", domain.KindInfo, queensLines.solve, fmt.Sprintf("Start solveNQueens with n=%d", s.n), nil, nil)
	s.push("init-sets", domain.KindInfo, queensLines.setup, "Initialize tracking sets", domain.NewVars("n", s.n), nil)

	s.backtrack(0)

	if s.solutions == 0 {
		s.push("no-solution", domain.KindInfo, queensLines.done, "No solution found", domain.NewVars("n", s.n), nil)
	} else {
		plural := ""
		if s.solutions > 1 {
			plural = "s"
		}
		s.pushSolved("done", domain.KindReturn, queensLines.done,
			fmt.Sprintf("Completed with %d solution%s", s.solutions, plural), domain.NewVars("solutions", s.solutions))
	}

	s.rec.Push(recorder.Entry{
		ID:          "return-board",
		Kind:        domain.KindReturn,
		Line:        queensLines.returnBoard,
		Description: "Return board positions",
		Vars:        domain.NewVars("solutions", s.solutions),
	}, s.capture(nil, false, s.solutions > 0))

	return s.rec.Run(IDNQueens)
}

func (s *queensSolver) conflicts(row, col int) bool {
	return s.cols[col] || s.diag1[row-col] || s.diag2[row+col]
}

// capture renders the board. With conflict set, queens that attack the
// attempted cell are flagged.
func (s *queensSolver) capture(attempt *domain.Cell, conflict, solved bool) domain.VisualState {
	queens := make([]domain.Queen, len(s.queens))
	for i, q := range s.queens {
		queens[i] = domain.Queen{Row: q.Row, Col: q.Col, Active: i == len(s.queens)-1}
		if conflict && attempt != nil {
			queens[i].Conflict = q.Col == attempt.Col ||
				q.Row-q.Col == attempt.Row-attempt.Col ||
				q.Row+q.Col == attempt.Row+attempt.Col
		}
	}
	var cell *domain.Cell
	if attempt != nil {
		c := *attempt
		cell = &c
	}
	return domain.VisualState{
		Board:    &domain.Board{Size: s.n, Queens: queens, Attempt: cell, Solved: solved},
		Legend:   "N-Queens backtracking",
		Counters: counters("queens", len(s.queens), "solutions", s.solutions),
	}
}

func (s *queensSolver) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, attempt *domain.Cell) {
	s.rec.Push(recorder.Entry{ID: id, Kind: kind, Line: line, Description: desc, Vars: vars, Stack: s.stack},
		s.capture(attempt, kind == domain.KindCompare, false))
}

func (s *queensSolver) pushSolved(id string, kind domain.StepKind, line int, desc string, vars domain.Vars) {
	s.rec.Push(recorder.Entry{ID: id, Kind: kind, Line: line, Description: desc, Vars: vars, Stack: s.stack},
		s.capture(nil, false, true))
}

func (s *queensSolver) placed() []int {
	cols := make([]int, len(s.queens))
	for i, q := range s.queens {
		cols[i] = q.Col
	}
	return cols
}

func (s *queensSolver) backtrack(row int) {
	s.stack.Enter("backtrack", domain.NewVars("row", row), queensLines.forLoop)
	defer s.stack.Leave()

	s.push(fmt.Sprintf("enter-%d", row), domain.KindInfo, queensLines.solve, fmt.Sprintf("Explore row %d", row), domain.NewVars("row", row), nil)

	if row == s.n {
		s.solutions++
		s.pushSolved(fmt.Sprintf("solution-%d", s.solutions), domain.KindReturn, queensLines.guard,
			fmt.Sprintf("Solution #%d found", s.solutions), domain.NewVars("solutions", s.solutions, "board", s.placed()))
		return
	}

	for col := 0; col < s.n; col++ {
		attempt := &domain.Cell{Row: row, Col: col}
		pos := fmt.Sprintf("%d-%d", row, col)

		if s.conflicts(row, col) {
			s.push("try-"+pos, domain.KindCompare, queensLines.conflictCheck,
				fmt.Sprintf("Conflict at (%d, %d)", row, col), domain.NewVars("row", row, "col", col), attempt)
			continue
		}
		s.push("try-"+pos, domain.KindInfo, queensLines.forLoop,
			fmt.Sprintf("Try placing at (%d, %d)", row, col), domain.NewVars("row", row, "col", col), attempt)

		s.push("place-line-"+pos, domain.KindInfo, queensLines.place,
			fmt.Sprintf("Place queen at (%d, %d)", row, col), domain.NewVars("row", row, "col", col), attempt)

		s.queens = append(s.queens, domain.Cell{Row: row, Col: col})
		s.cols[col], s.diag1[row-col], s.diag2[row+col] = true, true, true

		s.push("place-"+pos, domain.KindWrite, queensLines.place,
			fmt.Sprintf("Place queen at row %d, col %d", row, col), domain.NewVars("row", row, "col", col), nil)
		s.push("mark-col-"+pos, domain.KindMark, queensLines.markCol,
			fmt.Sprintf("Mark column %d", col), domain.NewVars("col", col), nil)
		s.push("mark-diag1-"+pos, domain.KindMark, queensLines.markDiag1,
			fmt.Sprintf("Mark diag1 %d", row-col), domain.NewVars("diag1", row-col), nil)
		s.push("mark-diag2-"+pos, domain.KindMark, queensLines.markDiag2,
			fmt.Sprintf("Mark diag2 %d", row+col), domain.NewVars("diag2", row+col), nil)
		s.push("recurse-"+pos, domain.KindRecurse, queensLines.recurse,
			fmt.Sprintf("Recurse to row %d", row+1), domain.NewVars("nextRow", row+1), nil)

		s.backtrack(row + 1)

		s.push("unplace-line-"+pos, domain.KindInfo, queensLines.unplace,
			fmt.Sprintf("Backtrack from (%d, %d)", row, col), domain.NewVars("row", row, "col", col), nil)

		s.queens = s.queens[:len(s.queens)-1]
		delete(s.cols, col)
		delete(s.diag1, row-col)
		delete(s.diag2, row+col)

		s.push("backtrack-"+pos, domain.KindPop, queensLines.unplace,
			fmt.Sprintf("Remove queen from row %d, col %d", row, col), domain.NewVars("row", row, "col", col), nil)
		s.push("unmark-col-"+pos, domain.KindInfo, queensLines.unmarkCol,
			fmt.Sprintf("Unmark column %d", col), domain.NewVars("col", col), nil)
		s.push("unmark-diag1-"+pos, domain.KindInfo, queensLines.unmarkDiag1,
			fmt.Sprintf("Unmark diag1 %d", row-col), domain.NewVars("diag1", row-col), nil)
		s.push("unmark-diag2-"+pos, domain.KindInfo, queensLines.unmarkDiag2,
			fmt.Sprintf("Unmark diag2 %d", row+col), domain.NewVars("diag2", row+col), nil)
	}
}
