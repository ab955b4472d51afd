package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/config"
	"github.com/bagdasarian/meeting-cost-ticker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{30 * time.Minute, "00:30:00"},
		{25*time.Hour + 3*time.Minute + 7*time.Second, "25:03:07"},
		{-time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in), tt.in.String())
	}
}

func TestViews_Money(t *testing.T) {
	en, err := NewViews(config.DisplayConfig{CurrencySymbol: "$", Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, "$0.00", en.Money(0))
	assert.Equal(t, "$90.00", en.Money(90))
	assert.Equal(t, "$1,234.50", en.Money(1234.5))

	_, err = NewViews(config.DisplayConfig{CurrencySymbol: "$", Locale: "!!"})
	assert.Error(t, err)
}

func TestViews_Render(t *testing.T) {
	views, err := NewViews(config.DisplayConfig{CurrencySymbol: "€", Locale: "en"})
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	page := meetingPage{
		ID:                  3,
		Status:              "ended",
		Attendees:           []AttendeeResponse{{Name: "<Alice>", HourlyRate: 60}},
		AggregateHourlyRate: 60,
		StartedAt:           &start,
		EndedAt:             &end,
		CostDisplay:         views.Money(90),
		ElapsedDisplay:      formatDuration(end.Sub(start)),
	}

	var buf bytes.Buffer
	require.NoError(t, views.Render(&buf, pageSummary, page))
	body := buf.String()
	assert.Contains(t, body, "Meeting #3 summary")
	assert.Contains(t, body, "01:30:00")
	assert.Contains(t, body, "€90.00")
	assert.Contains(t, body, "2024-03-01 10:30:00 UTC")
	assert.Contains(t, body, "&lt;Alice&gt;", "имена участников должны экранироваться")

	assert.Error(t, views.Render(&buf, "missing.html", nil))
}

func newFormRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseSetupForm(t *testing.T) {
	t.Run("пропускает пустые строки", func(t *testing.T) {
		rows, attendees, err := parseSetupForm(httptest.NewRecorder(), newFormRequest(url.Values{
			"name": {" Alice ", "", "Bob", ""},
			"rate": {"60", "", "120.5", ""},
		}))

		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, []domain.Attendee{
			{Name: "Alice", HourlyRate: 60},
			{Name: "Bob", HourlyRate: 120.5},
		}, attendees)
	})

	t.Run("несовпадающее число полей", func(t *testing.T) {
		rows, _, err := parseSetupForm(httptest.NewRecorder(), newFormRequest(url.Values{
			"name": {"Alice", "Bob"},
			"rate": {"60"},
		}))

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Equal(t, []setupRow{{Name: "Alice", Rate: "60"}, {Name: "Bob"}}, rows)
	})

	t.Run("NaN отклоняется", func(t *testing.T) {
		_, _, err := parseSetupForm(httptest.NewRecorder(), newFormRequest(url.Values{
			"name": {"Alice"},
			"rate": {"NaN"},
		}))

		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestGetStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, getStatusCode(domain.CodeValidation))
	assert.Equal(t, http.StatusConflict, getStatusCode(domain.CodeInvalidState))
	assert.Equal(t, http.StatusNotFound, getStatusCode(domain.CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, getStatusCode("SOMETHING_ELSE"))
}
