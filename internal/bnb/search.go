package bnb

import (
	"context"
	"slices"
	"time"

	"jobShop/internal/bound"
	"jobShop/internal/disjunctive"
	"jobShop/internal/jobshop"
)

// tree - неизменяемое описание дерева поиска, общее для всех воркеров.
type tree struct {
	inst       *jobshop.Instance
	conj       []disjunctive.Arc
	pairs      []disjunctive.Pair
	byMachine  [][]int // индексы пар по станкам, в порядке pairs
	machineOps [][]int
	pairOf     map[disjunctive.Arc]int
}

func newTree(inst *jobshop.Instance) *tree {
	conj, pairs := disjunctive.Build(inst)
	t := &tree{
		inst:       inst,
		conj:       conj,
		pairs:      pairs,
		byMachine:  make([][]int, inst.Machines()),
		machineOps: make([][]int, inst.Machines()),
		pairOf:     make(map[disjunctive.Arc]int, 2*len(pairs)),
	}
	for i, p := range pairs {
		t.byMachine[p.Machine] = append(t.byMachine[p.Machine], i)
		t.pairOf[p.Forward()] = i
		t.pairOf[p.Backward()] = i
	}
	for m := range t.machineOps {
		t.machineOps[m] = inst.MachineOps(m)
	}
	return t
}

// search - контекст одного обхода: граф, разрешённые пары и счётчики.
// Рекорд и дедлайн общие, всё остальное принадлежит одному воркеру.
type search struct {
	t    *tree
	g    *disjunctive.Graph
	best *incumbent

	ctx      context.Context
	deadline time.Time

	resolved []bool
	open     []int // число неразрешённых пар на станке
	contrib  []int

	// Глубина, на которой узлы откладываются во frontier (0 - без деления)
	split    int
	frontier [][]disjunctive.Arc

	nodes        int
	propagations int
	stopped      bool

	// Scratch для проверки перекрытий
	byHead []int
}

func newSearch(ctx context.Context, t *tree, best *incumbent, deadline time.Time) *search {
	s := &search{
		t:        t,
		g:        disjunctive.NewGraph(t.inst, t.conj),
		best:     best,
		ctx:      ctx,
		deadline: deadline,
		resolved: make([]bool, len(t.pairs)),
		open:     make([]int, len(t.byMachine)),
		contrib:  make([]int, len(t.byMachine)),
	}
	for m, idx := range t.byMachine {
		s.open[m] = len(idx)
	}
	return s
}

// replay восстанавливает узел по пути из дуг. false - путь противоречив.
func (s *search) replay(path []disjunctive.Arc) bool {
	for _, a := range path {
		s.push(a)
	}
	s.propagations++
	return s.g.Propagate()
}

func (s *search) push(a disjunctive.Arc) {
	i := s.t.pairOf[a]
	s.g.Push(a)
	s.resolved[i] = true
	s.open[s.t.pairs[i].Machine]--
}

func (s *search) pop() {
	a := s.g.Pop()
	i := s.t.pairOf[a]
	s.resolved[i] = false
	s.open[s.t.pairs[i].Machine]++
}

func (s *search) expired() bool {
	if s.stopped {
		return true
	}
	if s.ctx.Err() != nil || !time.Now().Before(s.deadline) {
		s.stopped = true
	}
	return s.stopped
}

// node обрабатывает узел, для которого граф уже успешно пересчитан.
func (s *search) node(depth int) {
	if s.expired() {
		return
	}
	s.nodes++

	lb := bound.Residual(s.g, s.t.machineOps, s.contrib)
	if lb >= s.best.value() {
		return
	}

	// Головы уже образуют допустимое расписание: оставшиеся пары
	// разрешаются порядком начала без изменения голов
	if s.disjointHeads() {
		s.best.offer(s.g.Heads(), s.g.Makespan(), "bnb")
		return
	}

	if s.split > 0 && depth == s.split {
		s.frontier = append(s.frontier, s.g.Pushed())
		return
	}

	m := s.branchMachine()
	if m < 0 {
		s.best.offer(s.g.Heads(), s.g.Makespan(), "bnb")
		return
	}
	p := s.t.pairs[s.firstOpen(m)]
	for _, a := range s.childOrder(p) {
		s.push(a)
		s.propagations++
		if s.g.Propagate() {
			s.node(depth + 1)
		}
		s.pop()
		if s.stopped {
			return
		}
	}
}

// branchMachine - станок с неразрешёнными парами и наибольшим вкладом в
// оценку, при равенстве наименьший id. -1, если все пары разрешены.
func (s *search) branchMachine() int {
	best := -1
	for m, n := range s.open {
		if n == 0 {
			continue
		}
		if best < 0 || s.contrib[m] > s.contrib[best] {
			best = m
		}
	}
	return best
}

func (s *search) firstOpen(m int) int {
	for _, i := range s.t.byMachine[m] {
		if !s.resolved[i] {
			return i
		}
	}
	panic("bnb: machine has no open pairs")
}

// childOrder ставит первым направление с меньшим путём через новую дугу.
// При равенстве первым идёт A→B.
func (s *search) childOrder(p disjunctive.Pair) [2]disjunctive.Arc {
	g := s.g
	ab := g.Head(p.A) + g.Duration(p.A) + g.Duration(p.B) + g.Tail(p.B)
	ba := g.Head(p.B) + g.Duration(p.B) + g.Duration(p.A) + g.Tail(p.A)
	if ba < ab {
		return [2]disjunctive.Arc{p.Backward(), p.Forward()}
	}
	return [2]disjunctive.Arc{p.Forward(), p.Backward()}
}

// disjointHeads сообщает, что ни на одном станке интервалы по головам не
// пересекаются.
func (s *search) disjointHeads() bool {
	g := s.g
	for _, ops := range s.t.machineOps {
		s.byHead = append(s.byHead[:0], ops...)
		slices.SortFunc(s.byHead, func(a, b int) int { return g.Head(a) - g.Head(b) })
		for i := 1; i < len(s.byHead); i++ {
			prev := s.byHead[i-1]
			if g.Head(prev)+g.Duration(prev) > g.Head(s.byHead[i]) {
				return false
			}
		}
	}
	return true
}
