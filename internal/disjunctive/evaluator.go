package disjunctive

import (
	"errors"
	"fmt"

	"jobShop/internal/jobshop"
)

// ErrCycle возвращается, если последовательности машин противоречат порядку стадий.
var ErrCycle = errors.New("последовательности машин образуют цикл")

// Move меняет местами соседние операции на позициях Pos и Pos+1
// в последовательности машины Machine.
type Move struct {
	Machine int
	Pos     int
}

// Evaluator декодирует последовательности машин в полуактивные расписания.
// Граф последней оценки хранится для запросов критического пути.
// Не безопасен для конкурентного использования.
type Evaluator struct {
	inst *jobshop.Instance
	g    *Graph

	last [][]int
	// pos[op] - позиция op в последовательности её машины.
	pos []int
}

func NewEvaluator(inst *jobshop.Instance) (*Evaluator, error) {
	if inst == nil {
		return nil, errors.New("задача не задана (nil)")
	}
	return &Evaluator{
		inst: inst,
		g:    NewGraph(inst, Conjunctive(inst)),
		pos:  make([]int, inst.NumOps()),
	}, nil
}

// Makespan оценивает seqs, ErrCycle означает недопустимые последовательности.
func (e *Evaluator) Makespan(seqs [][]int) (int, error) {
	if e == nil || e.inst == nil {
		return 0, fmt.Errorf("оценщик не инициализирован (nil)")
	}
	if err := ValidateSequences(e.inst, seqs); err != nil {
		return 0, err
	}
	return e.evaluate(seqs)
}

// evaluate без валидации: ходы эвристик сохраняют
// каждую последовательность перестановкой.
func (e *Evaluator) evaluate(seqs [][]int) (int, error) {
	e.g.Truncate(0)
	for _, seq := range seqs {
		for i, op := range seq {
			e.pos[op] = i
			if i > 0 {
				e.g.Push(Arc{From: seq[i-1], To: op})
			}
		}
	}
	e.last = seqs
	if !e.g.Propagate() {
		e.last = nil
		return 0, ErrCycle
	}
	return e.g.Makespan(), nil
}

// Evaluate - Makespan без валидации, для горячих циклов
// по заведомо корректным перестановкам.
func (e *Evaluator) Evaluate(seqs [][]int) (int, error) { return e.evaluate(seqs) }

// Schedule возвращает полуактивное расписание для seqs.
func (e *Evaluator) Schedule(seqs [][]int) (*jobshop.Schedule, error) {
	if _, err := e.Makespan(seqs); err != nil {
		return nil, err
	}
	return jobshop.NewSchedule(e.inst, e.g.Heads())
}

// CriticalPath возвращает один из длиннейших путей последней успешной оценки
// от истока к стоку. При равенстве выбирается меньший ID операции.
func (e *Evaluator) CriticalPath() []int {
	if e.last == nil {
		return nil
	}
	g := e.g
	cmax := g.Makespan()
	critical := func(op int) bool { return g.Head(op)+g.Duration(op)+g.Tail(op) == cmax }

	cur := -1
	for op := 0; op < g.Len(); op++ {
		if g.Head(op) == 0 && critical(op) {
			cur = op
			break
		}
	}
	if cur < 0 {
		return nil
	}
	path := []int{cur}
	for {
		next := -1
		end := g.Head(cur) + g.Duration(cur)
		for _, v := range g.Successors(cur) {
			if g.Head(v) == end && critical(v) && (next < 0 || v < next) {
				next = v
			}
		}
		if next < 0 {
			return path
		}
		path = append(path, next)
		cur = next
	}
}

// CriticalBlocks делит критический путь на максимальные участки соседних
// операций одной машины. Возвращаются только участки длины >= 2.
func (e *Evaluator) CriticalBlocks() [][]int {
	path := e.CriticalPath()
	var blocks [][]int
	var cur []int
	flush := func() {
		if len(cur) >= 2 {
			blocks = append(blocks, cur)
		}
		cur = nil
	}
	for i, op := range path {
		if i > 0 && e.machineAdjacent(path[i-1], op) {
			cur = append(cur, op)
			continue
		}
		flush()
		cur = []int{op}
	}
	flush()
	return blocks
}

func (e *Evaluator) machineAdjacent(a, b int) bool {
	oa, ob := e.inst.Op(a), e.inst.Op(b)
	return oa.Machine == ob.Machine && oa.Job != ob.Job && e.pos[b] == e.pos[a]+1
}

// NeighborhoodN1 возвращает все обмены соседних операций критических блоков.
func (e *Evaluator) NeighborhoodN1() []Move {
	var moves []Move
	for _, b := range e.CriticalBlocks() {
		m := e.inst.Op(b[0]).Machine
		for i := 0; i+1 < len(b); i++ {
			moves = append(moves, Move{Machine: m, Pos: e.pos[b[i]]})
		}
	}
	return moves
}

// NeighborhoodN5 оставляет из N1 только первую и последнюю пару каждого блока.
func (e *Evaluator) NeighborhoodN5() []Move {
	var moves []Move
	for _, b := range e.CriticalBlocks() {
		m := e.inst.Op(b[0]).Machine
		first := Move{Machine: m, Pos: e.pos[b[0]]}
		moves = append(moves, first)
		if last := (Move{Machine: m, Pos: e.pos[b[len(b)-2]]}); last != first {
			moves = append(moves, last)
		}
	}
	return moves
}

// Apply выполняет обмен на месте.
func (mv Move) Apply(seqs [][]int) {
	seq := seqs[mv.Machine]
	seq[mv.Pos], seq[mv.Pos+1] = seq[mv.Pos+1], seq[mv.Pos]
}

// Ops возвращает две операции хода в текущем порядке.
func (mv Move) Ops(seqs [][]int) (int, int) {
	return seqs[mv.Machine][mv.Pos], seqs[mv.Machine][mv.Pos+1]
}
