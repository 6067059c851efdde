// Package bound вычисляет нижние оценки оптимального makespan.
package bound

import (
	"jobShop/internal/disjunctive"
	"jobShop/internal/jobshop"
)

// MachineLoad - наибольшая суммарная длительность на одной машине.
func MachineLoad(inst *jobshop.Instance) int {
	loads := make([]int, inst.Machines())
	for id := 0; id < inst.NumOps(); id++ {
		op := inst.Op(id)
		loads[op.Machine] += op.Duration
	}
	best := 0
	for _, l := range loads {
		if l > best {
			best = l
		}
	}
	return best
}

// CriticalPath - длиннейшая цепочка конъюнктивных дуг,
// то есть наибольшая суммарная длительность работы.
func CriticalPath(inst *jobshop.Instance) int {
	best := 0
	for j := 0; j < inst.Jobs(); j++ {
		sum := 0
		for k := 0; k < inst.Stages(); k++ {
			sum += inst.Time(j, k)
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

// Root объединяет обе статические оценки.
func Root(inst *jobshop.Instance) int {
	return max(MachineLoad(inst), CriticalPath(inst))
}

// Residual оценивает любое достраивание частично разрешённого графа.
// Для g должен быть успешно выполнен Propagate. machineOps[m] - операции
// машины m. Вклады машин (min head + load + min tail) пишутся в dst
// длины len(machineOps).
func Residual(g *disjunctive.Graph, machineOps [][]int, dst []int) int {
	lb := g.Makespan()
	for m, ops := range machineOps {
		c := Machine(g, ops)
		dst[m] = c
		if c > lb {
			lb = c
		}
	}
	return lb
}

// Machine - одномашинная оценка: ни одна операция из ops не начнётся раньше
// наименьшей головы, машина обработает их все, после последней
// останется хотя бы наименьший хвост.
func Machine(g *disjunctive.Graph, ops []int) int {
	if len(ops) == 0 {
		return 0
	}
	minHead, minTail := g.Head(ops[0]), g.Tail(ops[0])
	load := 0
	for _, op := range ops {
		load += g.Duration(op)
		if h := g.Head(op); h < minHead {
			minHead = h
		}
		if t := g.Tail(op); t < minTail {
			minTail = t
		}
	}
	return minHead + load + minTail
}
