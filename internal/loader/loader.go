// Package loader читает экземпляры задачи из файлов YAML, JSON и CSV.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobShop/internal/jobshop"
)

// Format - формат файла экземпляра.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Layout - чем индексированы столбцы матрицы длительностей.
type Layout string

const (
	// LayoutStage: times[j][k] - длительность k-й стадии задания j.
	LayoutStage Layout = "stage"
	// LayoutMachine: times[j][m] - длительность задания j на станке m.
	LayoutMachine Layout = "machine"
)

// File - экземпляр в том виде, как он записан на диске, до нормализации.
type File struct {
	Name            string  `yaml:"name,omitempty" json:"name,omitempty"`
	Layout          Layout  `yaml:"layout,omitempty" json:"layout,omitempty"`
	OneBased        bool    `yaml:"one_based,omitempty" json:"one_based,omitempty"`
	ProcessingTimes [][]int `yaml:"processing_times" json:"processing_times"`
	Routing         [][]int `yaml:"routing" json:"routing"`
}

// Instance приводит матрицы к нумерации с нуля и порядку стадий
// и строит задачу.
func (f File) Instance() (*jobshop.Instance, error) {
	routing := f.Routing
	if f.OneBased {
		routing = make([][]int, len(f.Routing))
		for j, row := range f.Routing {
			routing[j] = make([]int, len(row))
			for k, m := range row {
				routing[j][k] = m - 1
			}
		}
	}
	switch f.Layout {
	case "", LayoutStage:
		return jobshop.Build(f.ProcessingTimes, routing)
	case LayoutMachine:
		return jobshop.FromMachineTimes(f.ProcessingTimes, routing)
	default:
		return nil, fmt.Errorf("неизвестная раскладка %q (ожидается %s или %s)", f.Layout, LayoutStage, LayoutMachine)
	}
}

// ParseFormat принимает yaml, yml, json и csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("неизвестный формат экземпляра %q", s)
}

// Parse разбирает экземпляр YAML или JSON. Для CSV нужны два файла, см. ParseCSV.
func Parse(data []byte, format Format) (File, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatCSV:
		return File{}, fmt.Errorf("для csv нужны отдельные файлы длительностей и маршрутов")
	}
	return File{}, fmt.Errorf("неизвестный формат экземпляра %q", format)
}

// Load читает path. Пустой формат определяется по расширению. Для CSV
// routesPath - файл маршрутов, для остальных форматов игнорируется.
func Load(path, routesPath string, format Format) (File, error) {
	if format == "" {
		f, err := ParseFormat(filepath.Ext(path))
		if err != nil {
			return File{}, err
		}
		format = f
	}

	if format == FormatCSV {
		if routesPath == "" {
			return File{}, fmt.Errorf("csv-экземпляр %s: нужен файл маршрутов", path)
		}
		return LoadCSV(path, routesPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
