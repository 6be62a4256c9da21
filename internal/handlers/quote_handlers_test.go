package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aperezdev/quoting-portal/internal/models"
)

var quoteColumns = []string{
	"id", "request_id", "carrier_name", "carrier_email", "cost", "delivery_estimate",
	"is_selected", "is_best_price", "is_fastest", "ai_confidence", "ai_summary", "created_at",
}

func TestGetQuotes(t *testing.T) {
	h, mock := newTestHandlers(t, &fakeSender{})

	createdAt := time.Now().Add(-2 * time.Hour)

	mock.ExpectQuery("FROM quotes").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(quoteColumns).
			AddRow(1, 5, "Transportes del Norte", "cotiza@tdn.mx", 1250.0, "3-5 días hábiles",
				false, true, false, 0.92, "Mejor relación costo-tiempo", createdAt).
			AddRow(2, 5, "Fletes Rápidos", "ventas@fletesrapidos.mx", 1800.5, nil,
				true, false, true, nil, nil, createdAt))

	w := performJSON(h, h.GetQuotes, `{"request_id": 5}`)
	env := decodeEnvelope(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.EqualValues(t, 2, env.Data["total"])

	quotes := env.Data["quotes"].([]interface{})
	require.Len(t, quotes, 2)

	first := quotes[0].(map[string]interface{})
	assert.Equal(t, "$1250.00 USD", first["cost_formatted"])
	assert.EqualValues(t, 3, first["delivery_days"])
	assert.Equal(t, "3-5 días hábiles", first["delivery_formatted"])
	assert.Equal(t, true, first["has_ai_analysis"])
	assert.Equal(t, "hace 2h", first["time_ago"])

	second := quotes[1].(map[string]interface{})
	assert.Equal(t, "Por confirmar", second["delivery_formatted"])
	assert.Equal(t, false, second["has_ai_analysis"])
	assert.Equal(t, true, second["is_selected"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuotesMissingRequestID(t *testing.T) {
	h, _ := newTestHandlers(t, &fakeSender{})

	w := performJSON(h, h.GetQuotes, `{}`)
	env := decodeEnvelope(t, w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Invalid input")
}

func TestSelectQuote(t *testing.T) {
	h, mock := newTestHandlers(t, &fakeSender{})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT request_id FROM quotes").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"request_id"}).AddRow(42))
	mock.ExpectExec("UPDATE quotes SET is_selected = 0").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE quotes SET is_selected = 1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE shipping_requests SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performJSON(h, h.SelectQuote, `{"quote_id": 3}`)
	env := decodeEnvelope(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Quote selected successfully", env.Message)
	assert.EqualValues(t, 3, env.Data["quote_id"])
	assert.EqualValues(t, 42, env.Data["request_id"])
	assert.Equal(t, "completed", env.Data["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectQuoteNotFound(t *testing.T) {
	h, mock := newTestHandlers(t, &fakeSender{})

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT request_id FROM quotes").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	w := performJSON(h, h.SelectQuote, `{"quote_id": 99}`)
	env := decodeEnvelope(t, w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Quote not found", env.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectQuoteInvalidInput(t *testing.T) {
	h, _ := newTestHandlers(t, &fakeSender{})

	w := performJSON(h, h.SelectQuote, `{"quote_id": 0}`)
	env := decodeEnvelope(t, w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestBuildQuoteView(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	quote := models.Quote{
		ID:               1,
		RequestID:        5,
		CarrierName:      "Transportes del Norte",
		Cost:             980.555,
		DeliveryEstimate: sql.NullString{String: "7 días", Valid: true},
		AISummary:        sql.NullString{String: "Cotización competitiva", Valid: true},
		AIConfidence:     sql.NullFloat64{Float64: 0.87, Valid: true},
		CreatedAt:        now.Add(-30 * time.Second),
	}

	view := buildQuoteView(quote, now)
	assert.Equal(t, "$980.56 USD", view.CostFormatted)
	assert.Equal(t, 7, view.DeliveryDays)
	assert.Equal(t, "7 días", view.DeliveryFormatted)
	assert.True(t, view.HasAIAnalysis)
	assert.InDelta(t, 0.87, view.AIConfidence, 0.001)
	assert.Equal(t, "ahora mismo", view.TimeAgo)
}

func TestParseDeliveryDays(t *testing.T) {
	tests := []struct {
		estimate string
		want     int
	}{
		{"3-5 días hábiles", 3},
		{"7 días", 7},
		{"entrega en 10 dias", 10},
		{"por definir", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDeliveryDays(tt.estimate), "estimate: %q", tt.estimate)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		age  time.Duration
		want string
	}{
		{20 * time.Second, "ahora mismo"},
		{5 * time.Minute, "hace 5 min"},
		{3 * time.Hour, "hace 3h"},
		{50 * time.Hour, "hace 2d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timeAgo(now.Add(-tt.age), now))
	}
}
