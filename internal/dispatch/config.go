package dispatch

import "fmt"

// Rule выбирает операцию из конфликтного множества.
type Rule string

const (
	// RuleSPT - кратчайшая длительность операции.
	RuleSPT Rule = "spt"
	// RuleLPT - наибольшая длительность операции.
	RuleLPT Rule = "lpt"
	// RuleMWKR - наибольший остаток работы по заданию.
	RuleMWKR Rule = "mwkr"
	// RuleMOR - наибольшее число оставшихся операций.
	RuleMOR Rule = "mor"
	// RuleFIFO - самое раннее возможное начало.
	RuleFIFO Rule = "fifo"
)

// Rules перечисляет все поддерживаемые правила в фиксированном порядке.
var Rules = []Rule{RuleSPT, RuleLPT, RuleMWKR, RuleMOR, RuleFIFO}

type Config struct {
	Rule Rule
}

func DefaultConfig() Config {
	return Config{Rule: RuleMWKR}
}

func (c Config) Validate() error {
	switch c.Rule {
	case RuleSPT, RuleLPT, RuleMWKR, RuleMOR, RuleFIFO:
		// ok
	default:
		return fmt.Errorf(
			"неизвестное правило диспетчеризации %q",
			c.Rule,
		)
	}
	return nil
}
