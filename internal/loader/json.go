package loader

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// Ключи документа с экземпляром
var fileKeys = []string{"name", "layout", "one_based", "processing_times", "routing"}

// ParseJSON разбирает JSON-экземпляр с теми же ключами, что и YAML-форма.
// Неизвестные ключи отклоняются, extra разрешает дополнительные ключи
// верхнего уровня (их разбирает вызывающий код).
func ParseJSON(data []byte, extra ...string) (File, error) {
	if !gjson.ValidBytes(data) {
		return File{}, fmt.Errorf("parse json: некорректный документ")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return File{}, fmt.Errorf("parse json: верхний уровень должен быть объектом")
	}
	if err := knownKeys(doc, extra); err != nil {
		return File{}, err
	}

	f := File{
		Name:     doc.Get("name").String(),
		Layout:   Layout(doc.Get("layout").String()),
		OneBased: doc.Get("one_based").Bool(),
	}
	var err error
	if f.ProcessingTimes, err = matrix(doc, "processing_times"); err != nil {
		return File{}, err
	}
	if f.Routing, err = matrix(doc, "routing"); err != nil {
		return File{}, err
	}
	return f, nil
}

func knownKeys(doc gjson.Result, extra []string) error {
	allowed := make(map[string]bool, len(fileKeys)+len(extra))
	for _, k := range fileKeys {
		allowed[k] = true
	}
	for _, k := range extra {
		allowed[k] = true
	}
	var err error
	doc.ForEach(func(key, _ gjson.Result) bool {
		if !allowed[key.String()] {
			err = fmt.Errorf("parse json: неизвестный ключ %q", key.String())
			return false
		}
		return true
	})
	return err
}

// Int разбирает целое значение JSON. Дробная часть допускается только нулевая (2.0).
func Int(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	if v.Num < math.MinInt64 || v.Num >= math.MaxInt64 {
		return 0, false
	}
	return int(v.Int()), true
}

func matrix(doc gjson.Result, key string) ([][]int, error) {
	v := doc.Get(key)
	if !v.Exists() {
		return nil, fmt.Errorf("parse json: нет ключа %s", key)
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("parse json: %s должен быть массивом массивов", key)
	}
	rows := v.Array()
	out := make([][]int, len(rows))
	for j, row := range rows {
		if !row.IsArray() {
			return nil, fmt.Errorf("parse json: %s[%d] должен быть массивом", key, j)
		}
		cells := row.Array()
		out[j] = make([]int, len(cells))
		for k, c := range cells {
			n, ok := Int(c)
			if !ok {
				return nil, fmt.Errorf("parse json: %s[%d][%d] должен быть целым числом (получено %s)", key, j, k, c.Raw)
			}
			out[j][k] = n
		}
	}
	return out, nil
}
