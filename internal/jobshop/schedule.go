package jobshop

import (
	"errors"
	"fmt"
	"slices"
)

// Slot - операция расписания с найденным интервалом.
type Slot struct {
	Job      int
	Stage    int
	Machine  int
	Duration int
	Start    int
	End      int
}

// Schedule сопоставляет каждой операции смещение старта. После построения не изменяется.
type Schedule struct {
	inst   *Instance
	starts []int
}

// NewSchedule копирует starts (по ID операции). Проверяется только форма,
// допустимость проверяет Verify.
func NewSchedule(inst *Instance, starts []int) (*Schedule, error) {
	if inst == nil {
		return nil, errors.New("задача не задана (nil)")
	}
	if len(starts) != inst.NumOps() {
		return nil, fmt.Errorf("длина starts должна быть %d (получено %d)", inst.NumOps(), len(starts))
	}
	for i, s := range starts {
		if s < 0 {
			return nil, fmt.Errorf("starts[%d] должно быть >= 0 (получено %d)", i, s)
		}
	}
	return &Schedule{inst: inst, starts: slices.Clone(starts)}, nil
}

// Sequential выполняет операции по одной в порядке (job, stage).
// Допустимо для любой задачи.
func Sequential(inst *Instance) *Schedule {
	starts := make([]int, inst.NumOps())
	t := 0
	for id := range starts {
		starts[id] = t
		t += inst.ops[id].Duration
	}
	return &Schedule{inst: inst, starts: starts}
}

func (s *Schedule) Instance() *Instance { return s.inst }

func (s *Schedule) Start(op int) int { return s.starts[op] }

func (s *Schedule) End(op int) int { return s.starts[op] + s.inst.ops[op].Duration }

// Starts возвращает копию смещений старта по ID операции.
func (s *Schedule) Starts() []int { return slices.Clone(s.starts) }

func (s *Schedule) Makespan() int {
	ms := 0
	for id := range s.starts {
		if e := s.End(id); e > ms {
			ms = e
		}
	}
	return ms
}

// Slots возвращает все операции в порядке ID.
func (s *Schedule) Slots() []Slot {
	out := make([]Slot, len(s.starts))
	for id, op := range s.inst.ops {
		out[id] = Slot{
			Job:      op.Job,
			Stage:    op.Stage,
			Machine:  op.Machine,
			Duration: op.Duration,
			Start:    s.starts[id],
			End:      s.starts[id] + op.Duration,
		}
	}
	return out
}

// MachineSequences возвращает для каждой машины ID операций по времени старта
// (при равенстве по ID).
func (s *Schedule) MachineSequences() [][]int {
	seqs := make([][]int, s.inst.machines)
	for m := range seqs {
		seq := slices.Clone(s.inst.machineOps[m])
		slices.SortStableFunc(seq, func(a, b int) int {
			if s.starts[a] != s.starts[b] {
				return s.starts[a] - s.starts[b]
			}
			return a - b
		})
		seqs[m] = seq
	}
	return seqs
}

// Verify проверяет порядок стадий внутри работ и то, что машина
// не выполняет две операции одновременно.
func (s *Schedule) Verify() error {
	inst := s.inst
	for j := 0; j < inst.jobs; j++ {
		for k := 0; k+1 < inst.stages; k++ {
			cur, next := inst.OpID(j, k), inst.OpID(j, k+1)
			if s.starts[next] < s.End(cur) {
				return fmt.Errorf("работа %d: стадия %d начинается в %d раньше окончания стадии %d в %d",
					j, k+1, s.starts[next], k, s.End(cur))
			}
		}
	}
	for m, seq := range s.MachineSequences() {
		for i := 0; i+1 < len(seq); i++ {
			a, b := seq[i], seq[i+1]
			if s.starts[b] < s.End(a) {
				oa, ob := inst.ops[a], inst.ops[b]
				return fmt.Errorf("машина %d: работа %d стадия %d [%d,%d) пересекается с работой %d стадия %d [%d,%d)",
					m, oa.Job, oa.Stage, s.starts[a], s.End(a), ob.Job, ob.Stage, s.starts[b], s.End(b))
			}
		}
	}
	return nil
}

// Equal сообщает, совпадают ли смещения старта у обоих расписаний.
func (s *Schedule) Equal(o *Schedule) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.Equal(s.starts, o.starts)
}
