package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Префиксы заголовков CSV-шаблонов
const (
	prefixMachine = "machine"
	prefixStage   = "stage"
	prefixStep    = "step"
)

// LoadCSV читает файл длительностей и файл маршрутов.
func LoadCSV(timesPath, routesPath string) (File, error) {
	tf, err := os.Open(timesPath)
	if err != nil {
		return File{}, err
	}
	defer tf.Close()

	rf, err := os.Open(routesPath)
	if err != nil {
		return File{}, err
	}
	defer rf.Close()

	return ParseCSV(tf, rf)
}

// ParseCSV читает шаблон из двух CSV-файлов. Столбцы длительностей называются
// machine1..machineM (по машинам) или stage1..stageK (по стадиям), столбцы
// маршрутов step1..stepK содержат номера машин с единицы. Первый столбец
// с другим заголовком считается меткой работы и пропускается.
func ParseCSV(times, routes io.Reader) (File, error) {
	th, tm, err := readGrid(times, "processing_times")
	if err != nil {
		return File{}, err
	}
	_, rm, err := readGrid(routes, "routing")
	if err != nil {
		return File{}, err
	}

	f := File{
		Layout:          LayoutStage,
		OneBased:        true,
		ProcessingTimes: tm,
		Routing:         rm,
	}
	if strings.HasPrefix(th, prefixMachine) {
		f.Layout = LayoutMachine
	}
	return f, nil
}

// readGrid возвращает префикс заголовка первого столбца данных
// в нижнем регистре и целые значения ячеек.
func readGrid(r io.Reader, name string) (string, [][]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return "", nil, fmt.Errorf("%s: чтение заголовка: %w", name, err)
	}
	skip := 0
	if len(header) > 0 && !isDataColumn(header[0]) {
		skip = 1
	}
	if len(header) <= skip {
		return "", nil, fmt.Errorf("%s: нет столбцов с данными", name)
	}
	first := strings.ToLower(strings.TrimSpace(header[skip]))

	var out [][]int
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
		row := make([]int, 0, len(rec)-skip)
		for c, cell := range rec[skip:] {
			v, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return "", nil, fmt.Errorf("%s: строка %d столбец %d: %q не целое число", name, line, c+skip+1, cell)
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return first, out, nil
}

func isDataColumn(h string) bool {
	h = strings.ToLower(strings.TrimSpace(h))
	for _, p := range []string{prefixMachine, prefixStage, prefixStep} {
		if strings.HasPrefix(h, p) {
			return true
		}
	}
	return false
}

// WriteCSV пишет f в виде шаблона из двух файлов. Маршруты всегда
// пишутся с единицы.
func WriteCSV(f File, times, routes io.Writer) error {
	prefix := prefixStage
	if f.Layout == LayoutMachine {
		prefix = prefixMachine
	}
	if err := writeGrid(times, prefix, f.ProcessingTimes, 0); err != nil {
		return err
	}
	shift := 1
	if f.OneBased {
		shift = 0
	}
	return writeGrid(routes, prefixStep, f.Routing, shift)
}

func writeGrid(w io.Writer, prefix string, grid [][]int, shift int) error {
	cw := csv.NewWriter(w)

	cols := 0
	if len(grid) > 0 {
		cols = len(grid[0])
	}
	header := make([]string, cols)
	for i := range header {
		header[i] = prefix + strconv.Itoa(i+1)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range grid {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.Itoa(v + shift)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
