package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"jobShop/internal/jobshop"
)

func mustInstance(t *testing.T, f File) *jobshop.Instance {
	t.Helper()
	inst, err := f.Instance()
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return inst
}

func TestSample_Template(t *testing.T) {
	f, err := Sample("template")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inst := mustInstance(t, f)
	if inst.Jobs() != 5 || inst.Stages() != 3 || inst.Machines() != 3 {
		t.Fatalf("unexpected shape %dx%d on %d machines", inst.Jobs(), inst.Stages(), inst.Machines())
	}
	// Задание 0: маршрут 2,1,3 -> станки 1,0,2
	if got, want := inst.Routing()[0], []int{1, 0, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected routing %v, got %v", want, got)
	}
	if got, want := inst.ProcessingTimes()[0], []int{7, 5, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected times %v, got %v", want, got)
	}
}

func TestSample_Unknown(t *testing.T) {
	if _, err := Sample("ta01"); err == nil {
		t.Error("expected error for unknown sample")
	}
	if got := SampleNames(); !reflect.DeepEqual(got, []string{"ft06", "template"}) {
		t.Errorf("unexpected sample names %v", got)
	}
}

func TestSample_ReturnsCopy(t *testing.T) {
	a, _ := Sample("ft06")
	a.ProcessingTimes[0][0] = 999
	b, _ := Sample("ft06")
	if b.ProcessingTimes[0][0] == 999 {
		t.Error("sample data was mutated through a returned copy")
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	for _, name := range SampleNames() {
		t.Run(name, func(t *testing.T) {
			f, _ := Sample(name)
			data, err := EncodeYAML(f)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := ParseYAML(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !reflect.DeepEqual(got, f) {
				t.Errorf("round trip mismatch:\n%+v\n%+v", f, got)
			}
		})
	}
}

func TestYAML_UnknownField(t *testing.T) {
	data := []byte("processing_times: [[1]]\nrouting: [[0]]\ndue_dates: [3]\n")
	if _, err := ParseYAML(data); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"name": "two",
		"one_based": true,
		"processing_times": [[3, 2], [2, 4]],
		"routing": [[1, 2], [2, 1]]
	}`)
	f, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inst := mustInstance(t, f)
	if got, want := inst.Routing(), [][]int{{0, 1}, {1, 0}}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected routing %v, got %v", want, got)
	}
	if f.Name != "two" {
		t.Errorf("expected name two, got %q", f.Name)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"processing_times": [[1]`},
		{"not object", `[1, 2]`},
		{"missing routing", `{"processing_times": [[1]]}`},
		{"flat matrix", `{"processing_times": [1], "routing": [[0]]}`},
		{"fraction", `{"processing_times": [[1.5]], "routing": [[0]]}`},
		{"string cell", `{"processing_times": [["1"]], "routing": [[0]]}`},
		{"unknown key", `{"processing_times": [[1]], "routing": [[0]], "due_dates": [3]}`},
		{"huge cell", `{"processing_times": [[1e30]], "routing": [[0]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInstance_InvalidPropagates(t *testing.T) {
	f := File{ProcessingTimes: [][]int{{1, 0}}, Routing: [][]int{{0, 1}}}
	if _, err := f.Instance(); !errors.Is(err, jobshop.ErrInvalidInstance) {
		t.Errorf("expected ErrInvalidInstance, got %v", err)
	}
	f = File{Layout: "diagonal", ProcessingTimes: [][]int{{1}}, Routing: [][]int{{0}}}
	if _, err := f.Instance(); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestParseCSV_WithJobColumn(t *testing.T) {
	times := "job,machine1,machine2\nJob 1,3,4\nJob 2,5,6\n"
	routes := "job,step1,step2\nJob 1,2,1\nJob 2,1,2\n"
	f, err := ParseCSV(strings.NewReader(times), strings.NewReader(routes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Layout != LayoutMachine || !f.OneBased {
		t.Errorf("expected machine layout with 1-based routes, got %+v", f)
	}
	inst := mustInstance(t, f)
	if got, want := inst.ProcessingTimes(), [][]int{{4, 3}, {5, 6}}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected times %v, got %v", want, got)
	}
}

func TestParseCSV_NotInteger(t *testing.T) {
	times := "machine1\nx\n"
	routes := "step1\n1\n"
	if _, err := ParseCSV(strings.NewReader(times), strings.NewReader(routes)); err == nil {
		t.Error("expected error for non-integer cell")
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	for _, name := range SampleNames() {
		t.Run(name, func(t *testing.T) {
			f, _ := Sample(name)
			var times, routes bytes.Buffer
			if err := WriteCSV(f, &times, &routes); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := ParseCSV(&times, &routes)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			a, b := mustInstance(t, f), mustInstance(t, got)
			if !reflect.DeepEqual(a.ProcessingTimes(), b.ProcessingTimes()) || !reflect.DeepEqual(a.Routing(), b.Routing()) {
				t.Error("instance changed after csv round trip")
			}
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	f, _ := Sample("template")

	data, err := EncodeYAML(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	yml := filepath.Join(dir, "inst.yml")
	if err := os.WriteFile(yml, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(yml, "", "")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("loaded file differs: %+v", got)
	}

	var times, routes bytes.Buffer
	if err := WriteCSV(f, &times, &routes); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	tp, rp := filepath.Join(dir, "times.csv"), filepath.Join(dir, "routes.csv")
	if err := os.WriteFile(tp, times.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(rp, routes.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(tp, "", ""); err == nil {
		t.Error("expected error without routes file")
	}
	if _, err := Load(tp, rp, ""); err != nil {
		t.Errorf("load csv: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "inst.txt"), "", ""); err == nil {
		t.Error("expected error for unknown extension")
	}
}
