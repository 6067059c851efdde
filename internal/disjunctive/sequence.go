package disjunctive

import (
	"fmt"

	"jobShop/internal/jobshop"
)

// ValidateSequences проверяет, что для каждой машины m seqs[m] - перестановка
// операций, направленных на m.
func ValidateSequences(inst *jobshop.Instance, seqs [][]int) error {
	if len(seqs) != inst.Machines() {
		return fmt.Errorf("последовательности должны покрывать %d машин (получено %d)", inst.Machines(), len(seqs))
	}
	seen := make([]bool, inst.NumOps())
	for m, seq := range seqs {
		ops := inst.MachineOps(m)
		if len(seq) != len(ops) {
			return fmt.Errorf("машина %d: длина последовательности должна быть %d (получено %d)", m, len(ops), len(seq))
		}
		for i, op := range seq {
			if op < 0 || op >= inst.NumOps() {
				return fmt.Errorf("машина %d: seq[%d]=%d вне диапазона [0,%d)", m, i, op, inst.NumOps())
			}
			if inst.Op(op).Machine != m {
				return fmt.Errorf("машина %d: операция %d направлена на машину %d", m, op, inst.Op(op).Machine)
			}
			if seen[op] {
				return fmt.Errorf("машина %d: повтор операции %d", m, op)
			}
			seen[op] = true
		}
	}
	return nil
}

// CloneSequences глубоко копирует последовательности машин.
func CloneSequences(seqs [][]int) [][]int {
	out := make([][]int, len(seqs))
	for m, seq := range seqs {
		out[m] = make([]int, len(seq))
		copy(out[m], seq)
	}
	return out
}

// CopySequences копирует src в dst той же формы.
func CopySequences(dst, src [][]int) {
	for m := range src {
		copy(dst[m], src[m])
	}
}
