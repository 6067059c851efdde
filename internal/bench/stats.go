package bench

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number - допустимые типы выборок.
type Number interface {
	constraints.Integer | constraints.Float
}

// Stats - лучшее (минимальное) значение, среднее и выборочное отклонение.
type Stats[T Number] struct {
	N    int
	Best T
	Mean float64
	Std  float64
}

func Calc[T Number](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	sum := 0.0
	for _, v := range values {
		if v < best {
			best = v
		}
		sum += float64(v)
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range values {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	s.Best = best
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
