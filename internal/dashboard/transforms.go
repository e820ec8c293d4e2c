package dashboard

import (
	"fmt"
	"strings"
)

// FilterOptions extracts the distinct non-null values of field in
// first-seen order. No sorting is applied.
func FilterOptions(rows []Row, field string) []string {
	seen := make(map[string]bool)
	var options []string
	for _, row := range rows {
		v, ok := row[field]
		if !ok || v == nil {
			continue
		}
		s := stringify(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		options = append(options, s)
	}
	return options
}

// Search keeps rows where any field's string form contains query,
// case-insensitively. Null fields are skipped, never errors.
func Search(rows []Row, query string) []Row {
	q := strings.ToLower(query)
	var out []Row
	for _, row := range rows {
		for _, v := range row {
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Filter keeps rows whose field exactly equals value. An empty value means
// no filtering.
func Filter(rows []Row, field, value string) []Row {
	if value == "" {
		return rows
	}
	var out []Row
	for _, row := range rows {
		v, ok := row[field]
		if !ok || v == nil {
			continue
		}
		if stringify(v) == value {
			out = append(out, row)
		}
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a
		// fractional part the way the API emits them.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
