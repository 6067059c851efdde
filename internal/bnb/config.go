package bnb

import (
	"fmt"
	"time"
)

// WarmStart выбирает эвристику, улучшающую начальный рекорд до поиска.
type WarmStart string

const (
	WarmStartNone     WarmStart = "none"
	WarmStartDispatch WarmStart = "dispatch"
	WarmStartSA       WarmStart = "sa"
	WarmStartTS       WarmStart = "ts"
)

// WarmStarts перечисляет допустимые значения в фиксированном порядке.
var WarmStarts = []WarmStart{WarmStartNone, WarmStartDispatch, WarmStartSA, WarmStartTS}

type Config struct {
	// Общий бюджет времени, включая разогрев
	TimeBudget time.Duration

	WarmStart WarmStart
	// Доля бюджета, доступная разогреву, (0,1]
	WarmStartShare float64

	// Workers > 1 включает параллельный обход поддеревьев
	Workers int
	// Глубина, на которой дерево делится между воркерами
	SplitDepth int

	// Seed для стохастических эвристик разогрева
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		TimeBudget: 5 * time.Second,

		WarmStart:      WarmStartTS,
		WarmStartShare: 0.25,

		Workers:    1,
		SplitDepth: 6,

		Seed: 1,
	}
}

func (c Config) Validate() error {
	if c.TimeBudget <= 0 {
		return fmt.Errorf(
			"TimeBudget должно быть > 0 (получено %s)",
			c.TimeBudget,
		)
	}
	switch c.WarmStart {
	case WarmStartNone, WarmStartDispatch, WarmStartSA, WarmStartTS:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип разогрева %q",
			c.WarmStart,
		)
	}
	if c.WarmStart != WarmStartNone && (c.WarmStartShare <= 0 || c.WarmStartShare > 1) {
		return fmt.Errorf(
			"WarmStartShare должно лежать в интервале (0,1] (получено %f)",
			c.WarmStartShare,
		)
	}
	if c.Workers <= 0 {
		return fmt.Errorf(
			"Workers должно быть > 0 (получено %d)",
			c.Workers,
		)
	}
	if c.Workers > 1 && c.SplitDepth <= 0 {
		return fmt.Errorf(
			"SplitDepth должно быть > 0 при Workers > 1 (получено %d)",
			c.SplitDepth,
		)
	}
	return nil
}
