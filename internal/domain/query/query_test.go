package query

import (
	"net/url"
	"testing"
	"time"

	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_BothLayoutsAgree(t *testing.T) {
	iso, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	br, err := ParseDate("05/03/2024")
	require.NoError(t, err)

	assert.True(t, iso.Equal(br))
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), iso)
	assert.Equal(t, "2024-03-05", FormatDate(br))
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"2024/03/05", "", "05-03-2024", "2024-02-30", "2024-13-40", "40/13/2024"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDate(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidDateFormat))

			appErr, ok := errors.Find[domainerrors.AppError](err)
			require.True(t, ok)
			assert.Equal(t, "Invalid date format: "+in, appErr.Details())
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(url.Values{}, DefaultListLimit)
	require.NoError(t, err)

	assert.Nil(t, q.From)
	assert.Nil(t, q.To)
	assert.False(t, q.Desc)
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestParse_AllParameters(t *testing.T) {
	values := url.Values{
		"from":     {"01/03/2024"},
		"to":       {"2024-03-31"},
		"customer": {"acme"},
		"sector":   {"corte"},
		"order_by": {"date"},
		"desc":     {"true"},
		"limit":    {"5"},
		"offset":   {"10"},
	}

	q, err := Parse(values, DefaultExportLimit)
	require.NoError(t, err)

	require.NotNil(t, q.From)
	require.NotNil(t, q.To)
	assert.Equal(t, "2024-03-01", FormatDate(*q.From))
	assert.Equal(t, "2024-03-31", FormatDate(*q.To))
	assert.Equal(t, "acme", q.Customer)
	assert.Equal(t, "corte", q.Sector)
	assert.Equal(t, "date", q.OrderBy)
	assert.True(t, q.Desc)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   error
	}{
		{name: "bad from", values: url.Values{"from": {"yesterday"}}, want: domainerrors.ErrInvalidDateFormat},
		{name: "bad to", values: url.Values{"to": {"31-03-2024"}}, want: domainerrors.ErrInvalidDateFormat},
		{name: "bad limit", values: url.Values{"limit": {"ten"}}, want: domainerrors.ErrValidationFailed},
		{name: "negative offset", values: url.Values{"offset": {"-1"}}, want: domainerrors.ErrValidationFailed},
		{name: "bad desc", values: url.Values{"desc": {"maybe"}}, want: domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.values, DefaultListLimit)
			assert.True(t, errors.Is(err, tt.want), err)
		})
	}
}
