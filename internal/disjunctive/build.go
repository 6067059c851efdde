package disjunctive

import "jobShop/internal/jobshop"

// Arc - ограничение предшествования: start(To) >= start(From) + duration(From).
type Arc struct {
	From int
	To   int
}

// Pair - неразрешённая пара операций на машине Machine. A < B
// по ID операции, то есть по (job, stage).
type Pair struct {
	Machine int
	A       int
	B       int
}

// Forward - дуга A -> B.
func (p Pair) Forward() Arc { return Arc{From: p.A, To: p.B} }

// Backward - дуга B -> A.
func (p Pair) Backward() Arc { return Arc{From: p.B, To: p.A} }

// Build возвращает конъюнктивные дуги (стадия k -> k+1 каждой работы)
// и дизъюнктивные пары в порядке (machine, A, B). Порядок пар задаёт
// порядок ветвления.
func Build(inst *jobshop.Instance) ([]Arc, []Pair) {
	return Conjunctive(inst), Disjunctive(inst)
}

func Conjunctive(inst *jobshop.Instance) []Arc {
	arcs := make([]Arc, 0, inst.Jobs()*(inst.Stages()-1))
	for j := 0; j < inst.Jobs(); j++ {
		for k := 0; k+1 < inst.Stages(); k++ {
			arcs = append(arcs, Arc{From: inst.OpID(j, k), To: inst.OpID(j, k+1)})
		}
	}
	return arcs
}

func Disjunctive(inst *jobshop.Instance) []Pair {
	var pairs []Pair
	for m := 0; m < inst.Machines(); m++ {
		ops := inst.MachineOps(m)
		for i := 0; i < len(ops); i++ {
			for j := i + 1; j < len(ops); j++ {
				pairs = append(pairs, Pair{Machine: m, A: ops[i], B: ops[j]})
			}
		}
	}
	return pairs
}
