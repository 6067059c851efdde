package sa

import (
	"fmt"

	"jobShop/internal/dispatch"
)

// Тип окрестности
type Neighborhood string

const (
	// NeighborhoodN1 - обмен любых соседних операций критического блока.
	NeighborhoodN1 Neighborhood = "n1"
	// NeighborhoodN5 - обмен только первой и последней пары блока.
	NeighborhoodN5 Neighborhood = "n5"
)

type Config struct {
	Iterations      int
	IterationsPerOp int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	Neighborhood Neighborhood

	// Правило диспетчеризации для начального решения
	Initial dispatch.Rule
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 100,

		InitialTemp: 50.0,
		FinalTemp:   0.5,
		Alpha:       0.999,

		Neighborhood: NeighborhoodN1,
		Initial:      dispatch.RuleMWKR,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodN1, NeighborhoodN5:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return dispatch.Config{Rule: c.Initial}.Validate()
}
