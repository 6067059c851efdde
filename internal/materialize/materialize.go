// Package materialize переводит смещения старта в календарное время.
package materialize

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"jobShop/internal/jobshop"
)

// Entry - операция, привязанная к календарю.
type Entry struct {
	Job     int       `json:"job"`
	Stage   int       `json:"stage"`
	Machine int       `json:"machine"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Materialize привязывает s к origin, одна единица времени равна unit.
// Записи упорядочены по старту, при равенстве по (job, stage). Арифметика
// в абсолютном времени: сутки всегда 24 часа, в том числе при переходе
// на летнее время. Значения вне time.Duration насыщаются.
func Materialize(s *jobshop.Schedule, origin time.Time, unit time.Duration) []Entry {
	slots := s.Slots()
	out := make([]Entry, len(slots))
	for i, sl := range slots {
		start := origin.Add(Scale(sl.Start, unit))
		out[i] = Entry{
			Job:     sl.Job,
			Stage:   sl.Stage,
			Machine: sl.Machine,
			Start:   start,
			End:     start.Add(Scale(sl.Duration, unit)),
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if a.Job != b.Job {
			return a.Job - b.Job
		}
		return a.Stage - b.Stage
	})
	return out
}

// Scale возвращает n*unit, ограниченное представимым диапазоном.
func Scale(n int, unit time.Duration) time.Duration {
	if n == 0 || unit == 0 {
		return 0
	}
	d := time.Duration(n) * unit
	if d/unit != time.Duration(n) {
		if (n > 0) == (unit > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return d
}

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

// ParseUnit переводит имя единицы (seconds, minutes, hours, days
// или краткую форму) в длительность.
func ParseUnit(name string) (time.Duration, error) {
	u, ok := units[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("неизвестная единица времени %q (ожидается seconds, minutes, hours или days)", name)
	}
	return u, nil
}

// WriteCSV пишет записи с заголовком, время в формате RFC 3339.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	header := []string{"job", "stage", "machine", "start", "end"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Job),
			strconv.Itoa(e.Stage),
			strconv.Itoa(e.Machine),
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
