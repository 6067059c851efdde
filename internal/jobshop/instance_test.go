package jobshop

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestBuild_Valid(t *testing.T) {
	times := [][]int{{3, 2}, {2, 4}}
	routing := [][]int{{0, 1}, {1, 0}}

	inst, err := Build(times, routing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Jobs() != 2 || inst.Stages() != 2 || inst.Machines() != 2 {
		t.Fatalf("expected 2x2 on 2 machines, got %dx%d on %d", inst.Jobs(), inst.Stages(), inst.Machines())
	}
	if got := inst.Op(inst.OpID(1, 0)); got.Machine != 1 || got.Duration != 2 || got.Job != 1 || got.Stage != 0 {
		t.Errorf("unexpected op (1,0): %+v", got)
	}
	if got := inst.MachineOps(0); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Errorf("expected machine 0 ops [0 3], got %v", got)
	}
	if !reflect.DeepEqual(inst.ProcessingTimes(), times) {
		t.Errorf("processing times round trip mismatch: %v", inst.ProcessingTimes())
	}
	if !reflect.DeepEqual(inst.Routing(), routing) {
		t.Errorf("routing round trip mismatch: %v", inst.Routing())
	}
	if inst.TotalWork() != 11 {
		t.Errorf("expected total work 11, got %d", inst.TotalWork())
	}
}

func TestBuild_MachineCountFromMaxRoutingID(t *testing.T) {
	// Machine 1 is never used; M is still 1 + max id.
	inst, err := Build([][]int{{1, 1}}, [][]int{{0, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Machines() != 3 {
		t.Errorf("expected 3 machines, got %d", inst.Machines())
	}
	if len(inst.MachineOps(1)) != 0 {
		t.Errorf("expected machine 1 to be idle, got %v", inst.MachineOps(1))
	}
}

func TestBuild_RevisitSameMachine(t *testing.T) {
	inst, err := Build([][]int{{5, 7, 10}}, [][]int{{0, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Machines() != 1 {
		t.Errorf("expected 1 machine, got %d", inst.Machines())
	}
	if len(inst.MachineOps(0)) != 3 {
		t.Errorf("expected 3 ops on machine 0, got %d", len(inst.MachineOps(0)))
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		times   [][]int
		routing [][]int
		matrix  string
		job     int
		stage   int
	}{
		{"no jobs", [][]int{}, [][]int{}, MatrixProcessingTimes, -1, -1},
		{"no stages", [][]int{{}}, [][]int{{}}, MatrixProcessingTimes, 0, -1},
		{"row count mismatch", [][]int{{1}}, [][]int{{0}, {0}}, MatrixRouting, -1, -1},
		{"ragged times", [][]int{{1, 2}, {1}}, [][]int{{0, 1}, {0, 1}}, MatrixProcessingTimes, 1, -1},
		{"ragged routing", [][]int{{1, 2}, {1, 2}}, [][]int{{0, 1}, {0}}, MatrixRouting, 1, -1},
		{"zero duration", [][]int{{1, 2}, {3, 0}}, [][]int{{0, 1}, {1, 0}}, MatrixProcessingTimes, 1, 1},
		{"negative duration", [][]int{{-4}}, [][]int{{0}}, MatrixProcessingTimes, 0, 0},
		{"negative machine", [][]int{{1, 2}}, [][]int{{0, -1}}, MatrixRouting, 0, 1},
		{"total work overflow", [][]int{{1, math.MaxInt / 2}, {math.MaxInt/2 + 1, 1}}, [][]int{{0, 0}, {0, 0}}, MatrixProcessingTimes, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := Build(tt.times, tt.routing)
			if inst != nil {
				t.Fatalf("expected no instance, got %+v", inst)
			}
			if !errors.Is(err, ErrInvalidInstance) {
				t.Fatalf("expected ErrInvalidInstance, got %v", err)
			}
			var ie *InvalidInstanceError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InvalidInstanceError, got %T", err)
			}
			if ie.Matrix != tt.matrix || ie.Job != tt.job || ie.Stage != tt.stage {
				t.Errorf("expected %s[%d][%d], got %s[%d][%d] (%v)", tt.matrix, tt.job, tt.stage, ie.Matrix, ie.Job, ie.Stage, err)
			}
		})
	}
}

func TestBuild_TotalWorkAtLimit(t *testing.T) {
	inst, err := Build([][]int{{math.MaxInt / 2, math.MaxInt/2 + 1}}, [][]int{{0, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.TotalWork() != math.MaxInt {
		t.Errorf("expected total work %d, got %d", math.MaxInt, inst.TotalWork())
	}
}

func TestBuild_Deterministic(t *testing.T) {
	times := [][]int{{5, 7, 10}, {9, 5, 3}, {5, 8, 2}}
	routing := [][]int{{1, 0, 2}, {0, 1, 2}, {2, 1, 0}}
	a, err := Build(times, routing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Build(times, routing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical instances from identical input")
	}
}

func TestBuild_CopiesInput(t *testing.T) {
	times := [][]int{{4, 2}}
	routing := [][]int{{0, 1}}
	inst, err := Build(times, routing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	times[0][0] = 99
	routing[0][1] = 0
	if inst.Time(0, 0) != 4 || inst.MachineOf(0, 1) != 1 {
		t.Error("instance must not alias caller matrices")
	}
	inst.MachineOps(0)[0] = 7
	if inst.MachineOps(0)[0] != 0 {
		t.Error("MachineOps must return a copy")
	}
}

func TestFromMachineTimes(t *testing.T) {
	// Job 0 visits machines 1,0,2 with per-machine times 5,7,10.
	inst, err := FromMachineTimes([][]int{{5, 7, 10}}, [][]int{{1, 0, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]int{{7, 5, 10}}
	if !reflect.DeepEqual(inst.ProcessingTimes(), want) {
		t.Errorf("expected stage times %v, got %v", want, inst.ProcessingTimes())
	}

	_, err = FromMachineTimes([][]int{{5, 7}}, [][]int{{0, 2}})
	if !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("expected ErrInvalidInstance for missing machine column, got %v", err)
	}
}

func TestRandom(t *testing.T) {
	inst := Random(6, 4, 1, 9, rand.New(rand.NewSource(7)))
	if inst.Jobs() != 6 || inst.Stages() != 4 || inst.Machines() != 4 {
		t.Fatalf("unexpected shape %dx%d on %d", inst.Jobs(), inst.Stages(), inst.Machines())
	}
	for j := 0; j < inst.Jobs(); j++ {
		seen := make([]bool, inst.Machines())
		for k := 0; k < inst.Stages(); k++ {
			m := inst.MachineOf(j, k)
			if seen[m] {
				t.Fatalf("job %d visits machine %d twice", j, m)
			}
			seen[m] = true
			if d := inst.Time(j, k); d < 1 || d > 9 {
				t.Fatalf("duration %d out of bounds", d)
			}
		}
	}
	again := Random(6, 4, 1, 9, rand.New(rand.NewSource(7)))
	if !reflect.DeepEqual(inst, again) {
		t.Error("expected same seed to generate the same instance")
	}
}
