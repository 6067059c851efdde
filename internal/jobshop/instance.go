package jobshop

import "math"

// Operation - одна стадия работы. ID = job*Stages+stage, поэтому порядок по ID
// совпадает с порядком по (job, stage).
type Operation struct {
	ID       int
	Job      int
	Stage    int
	Machine  int
	Duration int
}

// Instance - проверенная задача. После Build не изменяется,
// методы, возвращающие срезы, отдают копии.
type Instance struct {
	jobs     int
	stages   int
	machines int

	ops        []Operation
	machineOps [][]int
}

// Build проверяет матрицы длительностей и маршрутов (строка - работа,
// столбец - стадия) и строит Instance.
func Build(times, routing [][]int) (*Instance, error) {
	jobs := len(times)
	if jobs == 0 {
		return nil, invalid(MatrixProcessingTimes, -1, -1, "нужна хотя бы одна работа")
	}
	if len(routing) != jobs {
		return nil, invalid(MatrixRouting, -1, -1, "должно быть %d строк, как в матрице длительностей (получено %d)", jobs, len(routing))
	}
	stages := len(times[0])
	if stages == 0 {
		return nil, invalid(MatrixProcessingTimes, 0, -1, "нужна хотя бы одна стадия")
	}

	// Любой путь в графе не длиннее суммы всех длительностей,
	// поэтому достаточно проверить переполнение суммы.
	machines, total := 0, 0
	for j := 0; j < jobs; j++ {
		if len(times[j]) != stages {
			return nil, invalid(MatrixProcessingTimes, j, -1, "в строке должно быть %d стадий (получено %d)", stages, len(times[j]))
		}
		if len(routing[j]) != stages {
			return nil, invalid(MatrixRouting, j, -1, "в строке должно быть %d стадий (получено %d)", stages, len(routing[j]))
		}
		for k := 0; k < stages; k++ {
			d := times[j][k]
			if d <= 0 {
				return nil, invalid(MatrixProcessingTimes, j, k, "длительность должна быть > 0 (получено %d)", d)
			}
			if total > math.MaxInt-d {
				return nil, invalid(MatrixProcessingTimes, j, k, "суммарная длительность переполняет int")
			}
			total += d
			m := routing[j][k]
			if m < 0 {
				return nil, invalid(MatrixRouting, j, k, "номер машины должен быть >= 0 (получено %d)", m)
			}
			if m+1 > machines {
				machines = m + 1
			}
		}
	}

	inst := &Instance{
		jobs:       jobs,
		stages:     stages,
		machines:   machines,
		ops:        make([]Operation, jobs*stages),
		machineOps: make([][]int, machines),
	}
	for j := 0; j < jobs; j++ {
		for k := 0; k < stages; k++ {
			id := j*stages + k
			m := routing[j][k]
			inst.ops[id] = Operation{ID: id, Job: j, Stage: k, Machine: m, Duration: times[j][k]}
			inst.machineOps[m] = append(inst.machineOps[m], id)
		}
	}
	return inst, nil
}

// FromMachineTimes строит задачу по матрице длительностей, индексированной
// машиной (times[j][m] - длительность работы j на машине m), а не стадией.
// Для каждой машины из маршрута должен быть столбец.
func FromMachineTimes(timesByMachine, routing [][]int) (*Instance, error) {
	if len(routing) != len(timesByMachine) {
		return nil, invalid(MatrixRouting, -1, -1, "должно быть %d строк, как в матрице длительностей (получено %d)", len(timesByMachine), len(routing))
	}
	times := make([][]int, len(routing))
	for j, route := range routing {
		times[j] = make([]int, len(route))
		for k, m := range route {
			if m < 0 {
				return nil, invalid(MatrixRouting, j, k, "номер машины должен быть >= 0 (получено %d)", m)
			}
			if m >= len(timesByMachine[j]) {
				return nil, invalid(MatrixRouting, j, k, "для машины %d нет столбца длительностей (столбцов %d)", m, len(timesByMachine[j]))
			}
			times[j][k] = timesByMachine[j][m]
		}
	}
	return Build(times, routing)
}

func (inst *Instance) Jobs() int     { return inst.jobs }
func (inst *Instance) Stages() int   { return inst.stages }
func (inst *Instance) Machines() int { return inst.machines }

// NumOps возвращает Jobs()*Stages().
func (inst *Instance) NumOps() int { return len(inst.ops) }

func (inst *Instance) OpID(job, stage int) int { return job*inst.stages + stage }

func (inst *Instance) Op(id int) Operation { return inst.ops[id] }

func (inst *Instance) Time(job, stage int) int {
	return inst.ops[job*inst.stages+stage].Duration
}

func (inst *Instance) MachineOf(job, stage int) int {
	return inst.ops[job*inst.stages+stage].Machine
}

// Durations возвращает длительности, индексированные ID операции.
func (inst *Instance) Durations() []int {
	out := make([]int, len(inst.ops))
	for i, op := range inst.ops {
		out[i] = op.Duration
	}
	return out
}

// MachineOps возвращает ID операций машины m по возрастанию.
func (inst *Instance) MachineOps(m int) []int {
	out := make([]int, len(inst.machineOps[m]))
	copy(out, inst.machineOps[m])
	return out
}

// ProcessingTimes возвращает копию матрицы длительностей по стадиям.
func (inst *Instance) ProcessingTimes() [][]int {
	out := make([][]int, inst.jobs)
	for j := range out {
		out[j] = make([]int, inst.stages)
		for k := range out[j] {
			out[j][k] = inst.Time(j, k)
		}
	}
	return out
}

// Routing возвращает копию матрицы маршрутов.
func (inst *Instance) Routing() [][]int {
	out := make([][]int, inst.jobs)
	for j := range out {
		out[j] = make([]int, inst.stages)
		for k := range out[j] {
			out[j][k] = inst.MachineOf(j, k)
		}
	}
	return out
}

// TotalWork - сумма всех длительностей.
func (inst *Instance) TotalWork() int {
	sum := 0
	for _, op := range inst.ops {
		sum += op.Duration
	}
	return sum
}
