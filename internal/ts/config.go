package ts

import (
	"fmt"

	"jobShop/internal/dispatch"
)

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	NeighborhoodN1 Neighborhood = "n1"
	NeighborhoodN5 Neighborhood = "n5"
)

type Config struct {
	Iterations      int
	IterationsPerOp int

	TabuTenure int

	TabuTenureRand int

	// Максимум ходов, оцениваемых за итерацию (случайная выборка, если ходов больше)
	NeighborsPerIter int

	Neighborhood Neighborhood

	Initial dispatch.Rule
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 20,

		TabuTenure:     8,
		TabuTenureRand: 4,

		NeighborsPerIter: 64,
		Neighborhood:     NeighborhoodN5,
		Initial:          dispatch.RuleMWKR,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
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
