// Package query parses the listing parameters shared by every dataset.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "indicators/internal/domain/errors"
)

// Accepted date layouts, tried in order.
const (
	DateLayoutISO = "2006-01-02"
	DateLayoutBR  = "02/01/2006"
)

const (
	DefaultListLimit   = 100
	DefaultExportLimit = 10000
)

// ListQuery is a parsed listing request. Nil dates leave that side of the range open.
type ListQuery struct {
	From     *time.Time
	To       *time.Time
	Customer string
	Sector   string
	OrderBy  string
	Desc     bool
	Limit    int
	Offset   int
}

// ParseDate accepts YYYY-MM-DD or DD/MM/YYYY and returns UTC midnight.
func ParseDate(v string) (time.Time, error) {
	for _, layout := range []string{DateLayoutISO, DateLayoutBR} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, domainerrors.ErrInvalidDateFormat.WithDetails("Invalid date format: " + v)
}

// FormatDate renders the calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// Parse reads from, to, customer, sector, order_by, desc, limit and offset.
func Parse(values url.Values, defaultLimit int) (ListQuery, error) {
	q := ListQuery{
		Customer: values.Get("customer"),
		Sector:   values.Get("sector"),
		OrderBy:  values.Get("order_by"),
		Limit:    defaultLimit,
	}

	var err error
	if q.From, err = optionalDate(values.Get("from")); err != nil {
		return ListQuery{}, err
	}
	if q.To, err = optionalDate(values.Get("to")); err != nil {
		return ListQuery{}, err
	}

	if raw := values.Get("desc"); raw != "" {
		if q.Desc, err = parseBool(raw); err != nil {
			return ListQuery{}, domainerrors.ErrValidationFailed.WithDetails("desc must be a boolean")
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if q.Limit, err = parseNonNegative(raw); err != nil {
			return ListQuery{}, domainerrors.ErrValidationFailed.WithDetails("limit must be a non-negative integer")
		}
	}
	if raw := values.Get("offset"); raw != "" {
		if q.Offset, err = parseNonNegative(raw); err != nil {
			return ListQuery{}, domainerrors.ErrValidationFailed.WithDetails("offset must be a non-negative integer")
		}
	}

	return q, nil
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}

	return strconv.ParseBool(raw)
}

func parseNonNegative(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}

	return n, nil
}
