package disjunctive

import "jobShop/internal/jobshop"

// Graph - арена узлов-операций, индексированных ID операции. Базовые дуги
// (обычно конъюнктивные) неизменны, остальные кладутся в стек
// и снимаются в порядке LIFO при откате поиска.
type Graph struct {
	dur  []int
	succ [][]int
	pred [][]int

	stack []Arc

	// Буферы для Propagate.
	indeg []int
	order []int

	heads    []int
	tails    []int
	makespan int
}

// NewGraph создаёт граф по операциям inst с неизменными дугами base.
func NewGraph(inst *jobshop.Instance, base []Arc) *Graph {
	n := inst.NumOps()
	g := &Graph{
		dur:   inst.Durations(),
		succ:  make([][]int, n),
		pred:  make([][]int, n),
		indeg: make([]int, n),
		order: make([]int, 0, n),
		heads: make([]int, n),
		tails: make([]int, n),
	}
	for _, a := range base {
		g.link(a)
	}
	return g
}

func (g *Graph) link(a Arc) {
	g.succ[a.From] = append(g.succ[a.From], a.To)
	g.pred[a.To] = append(g.pred[a.To], a.From)
}

func (g *Graph) Len() int { return len(g.dur) }

// Depth - число добавленных (небазовых) дуг.
func (g *Graph) Depth() int { return len(g.stack) }

// Pushed возвращает копию добавленных дуг, начиная с самой старой.
func (g *Graph) Pushed() []Arc {
	out := make([]Arc, len(g.stack))
	copy(out, g.stack)
	return out
}

// Push добавляет дугу. Головы и хвосты устаревают до вызова Propagate.
func (g *Graph) Push(a Arc) {
	g.link(a)
	g.stack = append(g.stack, a)
}

// Pop снимает последнюю добавленную дугу.
func (g *Graph) Pop() Arc {
	a := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	g.succ[a.From] = g.succ[a.From][:len(g.succ[a.From])-1]
	g.pred[a.To] = g.pred[a.To][:len(g.pred[a.To])-1]
	return a
}

// Truncate снимает дуги до Depth() == depth.
func (g *Graph) Truncate(depth int) {
	for len(g.stack) > depth {
		g.Pop()
	}
}

// Propagate пересчитывает головы (ранние старты) и хвосты (длиннейший путь
// от окончания операции до конца) алгоритмом Кана. Возвращает false,
// если дуги образуют цикл, головы и хвосты тогда не определены.
func (g *Graph) Propagate() bool {
	n := len(g.dur)
	g.order = g.order[:0]
	for i := 0; i < n; i++ {
		g.indeg[i] = len(g.pred[i])
		if g.indeg[i] == 0 {
			g.order = append(g.order, i)
		}
	}
	for k := 0; k < len(g.order); k++ {
		u := g.order[k]
		for _, v := range g.succ[u] {
			g.indeg[v]--
			if g.indeg[v] == 0 {
				g.order = append(g.order, v)
			}
		}
	}
	if len(g.order) != n {
		return false
	}

	// Прямой проход: самое раннее начало
	for i := range g.heads {
		g.heads[i] = 0
	}
	g.makespan = 0
	for _, u := range g.order {
		end := g.heads[u] + g.dur[u]
		if end > g.makespan {
			g.makespan = end
		}
		for _, v := range g.succ[u] {
			if end > g.heads[v] {
				g.heads[v] = end
			}
		}
	}

	// Обратный проход: хвосты
	for i := range g.tails {
		g.tails[i] = 0
	}
	for k := n - 1; k >= 0; k-- {
		u := g.order[k]
		for _, v := range g.succ[u] {
			if t := g.dur[v] + g.tails[v]; t > g.tails[u] {
				g.tails[u] = t
			}
		}
	}
	return true
}

func (g *Graph) Head(op int) int     { return g.heads[op] }
func (g *Graph) Tail(op int) int     { return g.tails[op] }
func (g *Graph) Duration(op int) int { return g.dur[op] }

// Heads возвращает копию голов после последнего успешного Propagate.
func (g *Graph) Heads() []int {
	out := make([]int, len(g.heads))
	copy(out, g.heads)
	return out
}

// Makespan - длина длиннейшего пути после последнего успешного Propagate.
func (g *Graph) Makespan() int { return g.makespan }

// Successors возвращает преемников op. Срез изменять нельзя.
func (g *Graph) Successors(op int) []int { return g.succ[op] }
