package postgres

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"

	"gorm.io/datatypes"
)

// fieldReader pulls typed column values out of a loosely typed map
// (a decoded JSON body or a CSV row). The first failure sticks, in the
// manner of bufio.Scanner, so builders read every field and check Err once.
type fieldReader struct {
	values map[string]any
	err    error
}

func newFieldReader(values map[string]any) *fieldReader {
	return &fieldReader{values: values}
}

func (r *fieldReader) Err() error {
	return r.err
}

func (r *fieldReader) fail(name, problem string) {
	if r.err == nil {
		r.err = domainerrors.ErrValidationFailed.WithDetails(name + " " + problem)
	}
}

// lookup returns the raw value, treating nil and blank strings as absent.
func (r *fieldReader) lookup(name string) (any, bool) {
	v, ok := r.values[name]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}

	return v, true
}

func (r *fieldReader) Date(name string) datatypes.Date {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "is required")

		return datatypes.Date{}
	}

	switch d := v.(type) {
	case time.Time:
		return datatypes.Date(d.UTC())
	case string:
		t, err := query.ParseDate(d)
		if err != nil {
			if r.err == nil {
				r.err = err
			}

			return datatypes.Date{}
		}

		return datatypes.Date(t)
	default:
		r.fail(name, "must be a date string")

		return datatypes.Date{}
	}
}

func (r *fieldReader) Text(name string) string {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "is required")

		return ""
	}

	s, isString := v.(string)
	if !isString {
		r.fail(name, "must be a string")
	}

	return s
}

func (r *fieldReader) OptionalText(name string) *string {
	if _, ok := r.lookup(name); !ok {
		return nil
	}

	s := r.Text(name)

	return &s
}

func (r *fieldReader) Number(name string) float64 {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "is required")

		return 0
	}

	f, err := toFloat(v)
	if err != nil {
		r.fail(name, "must be a finite number")
	}

	return f
}

func (r *fieldReader) OptionalNumber(name string) *float64 {
	if _, ok := r.lookup(name); !ok {
		return nil
	}

	f := r.Number(name)

	return &f
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		return parseFinite(n.String())
	case string:
		return parseFinite(n)
	default:
		return 0, strconv.ErrSyntax
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrRange
	}

	return f, nil
}

// parseFinite is strconv.ParseFloat minus the Inf and NaN spellings it accepts.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrRange}
	}

	return f, nil
}
