package disjunctive

import (
	"errors"
	"reflect"
	"testing"

	"jobShop/internal/jobshop"
)

func mustBuild(t *testing.T, times, routing [][]int) *jobshop.Instance {
	t.Helper()
	inst, err := jobshop.Build(times, routing)
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return inst
}

// scenarioB: job0 [3,2] on [0,1], job1 [2,4] on [1,0].
func scenarioB(t *testing.T) *jobshop.Instance {
	return mustBuild(t, [][]int{{3, 2}, {2, 4}}, [][]int{{0, 1}, {1, 0}})
}

func TestBuild_ArcsAndPairs(t *testing.T) {
	inst := mustBuild(t,
		[][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
		[][]int{{0, 1, 2}, {1, 0, 2}, {0, 2, 1}},
	)
	arcs, pairs := Build(inst)

	wantArcs := []Arc{{0, 1}, {1, 2}, {3, 4}, {4, 5}, {6, 7}, {7, 8}}
	if !reflect.DeepEqual(arcs, wantArcs) {
		t.Errorf("expected arcs %v, got %v", wantArcs, arcs)
	}

	// machine 0: ops 0,4,6; machine 1: ops 1,3,8; machine 2: ops 2,5,7
	wantPairs := []Pair{
		{0, 0, 4}, {0, 0, 6}, {0, 4, 6},
		{1, 1, 3}, {1, 1, 8}, {1, 3, 8},
		{2, 2, 5}, {2, 2, 7}, {2, 5, 7},
	}
	if !reflect.DeepEqual(pairs, wantPairs) {
		t.Errorf("expected pairs %v, got %v", wantPairs, pairs)
	}
}

func TestBuild_SameJobOnSameMachine(t *testing.T) {
	inst := mustBuild(t, [][]int{{5, 7, 10}}, [][]int{{0, 0, 0}})
	_, pairs := Build(inst)
	want := []Pair{{0, 0, 1}, {0, 0, 2}, {0, 1, 2}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("expected pairs %v, got %v", want, pairs)
	}
}

func TestGraph_PropagateHeadsTails(t *testing.T) {
	inst := scenarioB(t)
	g := NewGraph(inst, Conjunctive(inst))
	if !g.Propagate() {
		t.Fatal("conjunctive graph must be acyclic")
	}
	// Longest job is job1 with 2+4.
	if g.Makespan() != 6 {
		t.Errorf("expected makespan 6, got %d", g.Makespan())
	}
	if g.Head(1) != 3 || g.Tail(0) != 2 || g.Head(3) != 2 || g.Tail(2) != 4 {
		t.Errorf("unexpected heads/tails: heads=%v", g.Heads())
	}

	// Machine 0: op0 before op3 -> job1 stage1 starts at 3.
	g.Push(Arc{From: 0, To: 3})
	if !g.Propagate() {
		t.Fatal("expected acyclic graph")
	}
	if g.Head(3) != 3 || g.Makespan() != 7 {
		t.Errorf("expected head(3)=3 makespan 7, got %d %d", g.Head(3), g.Makespan())
	}
	if g.Tail(0) != 4 {
		t.Errorf("expected tail(0)=4, got %d", g.Tail(0))
	}

	g.Pop()
	if g.Depth() != 0 {
		t.Fatalf("expected empty stack, got %d", g.Depth())
	}
	if !g.Propagate() || g.Makespan() != 6 {
		t.Errorf("expected rollback to makespan 6, got %d", g.Makespan())
	}
}

func TestGraph_DetectsCycle(t *testing.T) {
	inst := scenarioB(t)
	g := NewGraph(inst, Conjunctive(inst))
	// op1 (job0 stage1) before op2 (job1 stage0), op3 (job1 stage1) before op0
	// (job0 stage0): 0->1->2->3->0.
	g.Push(Arc{From: 1, To: 2})
	g.Push(Arc{From: 3, To: 0})
	if g.Propagate() {
		t.Fatal("expected cycle to be detected")
	}
	g.Truncate(1)
	if !g.Propagate() {
		t.Error("expected acyclic graph after truncation")
	}
	if got := g.Pushed(); !reflect.DeepEqual(got, []Arc{{1, 2}}) {
		t.Errorf("expected remaining arc [{1 2}], got %v", got)
	}
}

func TestValidateSequences(t *testing.T) {
	inst := scenarioB(t)
	tests := []struct {
		name string
		seqs [][]int
		ok   bool
	}{
		{"valid", [][]int{{0, 3}, {2, 1}}, true},
		{"missing machine", [][]int{{0, 3}}, false},
		{"wrong machine", [][]int{{0, 1}, {2, 3}}, false},
		{"duplicate", [][]int{{0, 0}, {2, 1}}, false},
		{"out of range", [][]int{{0, 9}, {2, 1}}, false},
		{"short", [][]int{{0}, {2, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSequences(inst, tt.seqs)
			if tt.ok != (err == nil) {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestEvaluator_MakespanAndSchedule(t *testing.T) {
	inst := scenarioB(t)
	e, err := NewEvaluator(inst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms, err := e.Makespan([][]int{{0, 3}, {2, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms != 7 {
		t.Errorf("expected makespan 7, got %d", ms)
	}

	s, err := e.Schedule([][]int{{0, 3}, {2, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := s.Starts(), []int{0, 3, 0, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected starts %v, got %v", want, got)
	}
	if err := s.Verify(); err != nil {
		t.Errorf("decoded schedule must be feasible: %v", err)
	}

	// Machine 0: op3 before op0, machine 1: op1 before op2 -> cycle.
	if _, err := e.Makespan([][]int{{3, 0}, {1, 2}}); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
	if e.CriticalPath() != nil {
		t.Error("expected no critical path after a failed evaluation")
	}
}

func TestEvaluator_CriticalBlocksAndMoves(t *testing.T) {
	// Three jobs, all starting on machine 0 then machine 1.
	inst := mustBuild(t,
		[][]int{{4, 1}, {4, 1}, {4, 1}},
		[][]int{{0, 1}, {0, 1}, {0, 1}},
	)
	e, _ := NewEvaluator(inst)
	seqs := [][]int{{0, 2, 4}, {1, 3, 5}}
	ms, err := e.Makespan(seqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms != 13 {
		t.Fatalf("expected makespan 13, got %d", ms)
	}
	if got, want := e.CriticalPath(), []int{0, 2, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected critical path %v, got %v", want, got)
	}
	if got, want := e.CriticalBlocks(), [][]int{{0, 2, 4}}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected blocks %v, got %v", want, got)
	}
	if got, want := e.NeighborhoodN1(), []Move{{0, 0}, {0, 1}}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected N1 %v, got %v", want, got)
	}
	if got, want := e.NeighborhoodN5(), []Move{{0, 0}, {0, 1}}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected N5 %v, got %v", want, got)
	}

	mv := Move{Machine: 0, Pos: 1}
	a, b := mv.Ops(seqs)
	if a != 2 || b != 4 {
		t.Errorf("expected ops (2,4), got (%d,%d)", a, b)
	}
	mv.Apply(seqs)
	if !reflect.DeepEqual(seqs[0], []int{0, 4, 2}) {
		t.Errorf("expected swapped sequence, got %v", seqs[0])
	}
}
