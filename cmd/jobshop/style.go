package main

import (
	"github.com/fatih/color"

	"jobShop/internal/opt"
)

var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
)

// statusText окрашивает статус: зелёный - оптимум доказан, жёлтый - нет.
func statusText(s opt.Status) string {
	switch s {
	case opt.StatusOptimal:
		return BoldGreen(string(s))
	case opt.StatusFeasibleTimeout, opt.StatusFeasible:
		return BoldYellow(string(s))
	default:
		return BoldRed(string(s))
	}
}
