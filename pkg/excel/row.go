package excel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField is returned by Row accessors when a header is absent or its value is blank.
var ErrMissingField = errors.New("missing field")

// Row is one data row of a sheet keyed by the sheet's header row. Header order follows the file.
type Row struct {
	headers []string
	values  map[string]string
	line    int
}

func NewRow(line int, headers []string, cells []string) Row {
	values := make(map[string]string, len(headers))
	kept := make([]string, 0, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := values[h]; dup {
			continue
		}
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		values[h] = v
		kept = append(kept, h)
	}
	return Row{headers: kept, values: values, line: line}
}

// Line is the 1-based line number of the row in its sheet.
func (r Row) Line() int { return r.line }

func (r Row) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Exact returns the value under a header that matches name exactly.
func (r Row) Exact(name string) (string, error) {
	v, ok := r.values[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	return v, nil
}

// Fuzzy returns the value under the first header containing fragment, compared case-insensitively.
func (r Row) Fuzzy(fragment string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	for _, h := range r.headers {
		if !strings.Contains(strings.ToLower(h), needle) {
			continue
		}
		if v := r.values[h]; v != "" {
			return v, nil
		}
		break
	}
	return "", fmt.Errorf("%w: ~%q", ErrMissingField, fragment)
}

// Optional returns the accessor result, mapping ErrMissingField to an empty string.
func Optional(v string, err error) string {
	if err != nil {
		return ""
	}
	return v
}

func (r Row) IsBlank() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}
