package bnb

import (
	"slices"
	"sync"
	"sync/atomic"
)

// incumbent - лучшее найденное расписание. Запись под мьютексом, makespan
// дублируется в атомике для чтения при отсечениях без блокировки.
type incumbent struct {
	mu       sync.Mutex
	makespan atomic.Int64
	starts   []int
	source   string
}

func newIncumbent() *incumbent {
	in := &incumbent{}
	in.makespan.Store(int64(maxInt))
	return in
}

// value возвращает текущий рекорд или maxInt, если рекорда нет.
func (in *incumbent) value() int { return int(in.makespan.Load()) }

// offer заменяет рекорд, только если makespan строго лучше.
func (in *incumbent) offer(starts []int, makespan int, source string) bool {
	if makespan >= in.value() {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if makespan >= int(in.makespan.Load()) {
		return false
	}
	in.starts = slices.Clone(starts)
	in.source = source
	in.makespan.Store(int64(makespan))
	return true
}

func (in *incumbent) snapshot() ([]int, int, string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.starts, int(in.makespan.Load()), in.source
}
