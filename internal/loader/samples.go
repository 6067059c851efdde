package loader

import (
	"fmt"
	"slices"
)

var samples = map[string]File{
	// Шаблон из CSV-примеров: времена по станкам, маршруты с единицы
	"template": {
		Name:     "template",
		Layout:   LayoutMachine,
		OneBased: true,
		ProcessingTimes: [][]int{
			{5, 7, 10},
			{9, 5, 3},
			{5, 8, 2},
			{2, 7, 4},
			{8, 8, 8},
		},
		Routing: [][]int{
			{2, 1, 3},
			{1, 2, 3},
			{3, 2, 1},
			{2, 1, 3},
			{3, 1, 2},
		},
	},
	// Fisher & Thompson 6x6
	"ft06": {
		Name:   "ft06",
		Layout: LayoutStage,
		ProcessingTimes: [][]int{
			{1, 3, 6, 7, 3, 6},
			{8, 5, 10, 10, 10, 4},
			{5, 4, 8, 9, 1, 7},
			{5, 5, 5, 3, 8, 9},
			{9, 3, 5, 4, 3, 1},
			{3, 3, 9, 10, 4, 1},
		},
		Routing: [][]int{
			{2, 0, 1, 3, 5, 4},
			{1, 2, 4, 5, 0, 3},
			{2, 3, 5, 0, 1, 4},
			{1, 0, 2, 3, 4, 5},
			{2, 1, 4, 5, 0, 3},
			{1, 3, 5, 0, 4, 2},
		},
	},
}

// Sample возвращает копию встроенного экземпляра.
func Sample(name string) (File, error) {
	f, ok := samples[name]
	if !ok {
		return File{}, fmt.Errorf("неизвестный пример %q (доступны: %v)", name, SampleNames())
	}
	f.ProcessingTimes = cloneGrid(f.ProcessingTimes)
	f.Routing = cloneGrid(f.Routing)
	return f, nil
}

// SampleNames - имена встроенных примеров по алфавиту.
func SampleNames() []string {
	out := make([]string, 0, len(samples))
	for k := range samples {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func cloneGrid(g [][]int) [][]int {
	out := make([][]int, len(g))
	for i, row := range g {
		out[i] = slices.Clone(row)
	}
	return out
}
