package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/aperezdev/quoting-portal/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Quote Handlers ---
//

// QuoteView is one quote as the dashboard renders it: the raw row plus
// the display fields (formatted cost, parsed delivery days, relative
// timestamps, AI-analysis presence).
type QuoteView struct {
	ID                int64   `json:"id"`
	RequestID         int64   `json:"request_id"`
	CarrierName       string  `json:"carrier_name"`
	CarrierEmail      string  `json:"carrier_email"`
	Cost              float64 `json:"cost"`
	CostFormatted     string  `json:"cost_formatted"`
	DeliveryEstimate  string  `json:"delivery_estimate"`
	DeliveryFormatted string  `json:"delivery_formatted"`
	DeliveryDays      int     `json:"delivery_days"`

	IsSelected  bool `json:"is_selected"`
	IsBestPrice bool `json:"is_best_price"`
	IsFastest   bool `json:"is_fastest"`

	HasAIAnalysis bool    `json:"has_ai_analysis"`
	AIConfidence  float64 `json:"ai_confidence"`
	AISummary     string  `json:"ai_summary"`

	CreatedAt          time.Time `json:"created_at"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	TimeAgo            string    `json:"time_ago"`
}

type GetQuotesInput struct {
	RequestID int64 `json:"request_id" binding:"required,gt=0"`
}

// GetQuotes is the handler for POST /daoGetQuotes. It returns all
// quotes received for one request, cheapest first.
func (h *Handlers) GetQuotes(c *gin.Context) {
	var input GetQuotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, http.StatusBadRequest, false, "Invalid input: "+err.Error(), nil)
		return
	}

	query := `
		SELECT id, request_id, carrier_name, carrier_email, cost, delivery_estimate,
		       is_selected, is_best_price, is_fastest, ai_confidence, ai_summary, created_at
		FROM quotes
		WHERE request_id = ?
		ORDER BY cost ASC`

	rows, err := h.DB.Query(query, input.RequestID)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error getting quotes: "+err.Error(), nil)
		return
	}
	defer rows.Close()

	quotes := []QuoteView{}
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(
			&q.ID, &q.RequestID, &q.CarrierName, &q.CarrierEmail, &q.Cost, &q.DeliveryEstimate,
			&q.IsSelected, &q.IsBestPrice, &q.IsFastest, &q.AIConfidence, &q.AISummary, &q.CreatedAt,
		); err != nil {
			respond(c, http.StatusInternalServerError, false, "Error getting quotes: failed to scan quote row", nil)
			return
		}
		quotes = append(quotes, buildQuoteView(q, time.Now()))
	}
	if err := rows.Err(); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error getting quotes: "+err.Error(), nil)
		return
	}

	respond(c, http.StatusOK, true, "Quotes retrieved successfully", gin.H{
		"quotes": quotes,
		"total":  len(quotes),
	})
}

type SelectQuoteInput struct {
	QuoteID int64 `json:"quote_id" binding:"required,gt=0"`
}

// SelectQuote is the handler for POST /daoSelectQuote. Marking a quote
// selected unselects its siblings and completes the parent request.
func (h *Handlers) SelectQuote(c *gin.Context) {
	var input SelectQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond(c, http.StatusBadRequest, false, "Invalid input: "+err.Error(), nil)
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: failed to start transaction", nil)
		return
	}
	defer tx.Rollback()

	var requestID int64
	err = tx.QueryRow("SELECT request_id FROM quotes WHERE id = ?", input.QuoteID).Scan(&requestID)
	if err == sql.ErrNoRows {
		respond(c, http.StatusNotFound, false, "Quote not found", nil)
		return
	}
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: "+err.Error(), nil)
		return
	}

	// Exactly one selected quote per request.
	if _, err := tx.Exec("UPDATE quotes SET is_selected = 0 WHERE request_id = ?", requestID); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: "+err.Error(), nil)
		return
	}
	if _, err := tx.Exec("UPDATE quotes SET is_selected = 1 WHERE id = ?", input.QuoteID); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: "+err.Error(), nil)
		return
	}
	if _, err := tx.Exec("UPDATE shipping_requests SET status = ?, updated_at = ? WHERE id = ?",
		models.StatusCompleted, time.Now(), requestID); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: "+err.Error(), nil)
		return
	}

	if err := tx.Commit(); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error selecting quote: failed to commit transaction", nil)
		return
	}

	respond(c, http.StatusOK, true, "Quote selected successfully", gin.H{
		"quote_id":   input.QuoteID,
		"request_id": requestID,
		"status":     models.StatusCompleted,
	})
}

func buildQuoteView(q models.Quote, now time.Time) QuoteView {
	view := QuoteView{
		ID:                 q.ID,
		RequestID:          q.RequestID,
		CarrierName:        q.CarrierName,
		CarrierEmail:       q.CarrierEmail,
		Cost:               q.Cost,
		CostFormatted:      fmt.Sprintf("$%.2f USD", q.Cost),
		DeliveryEstimate:   q.DeliveryEstimate.String,
		DeliveryFormatted:  q.DeliveryEstimate.String,
		DeliveryDays:       parseDeliveryDays(q.DeliveryEstimate.String),
		IsSelected:         q.IsSelected,
		IsBestPrice:        q.IsBestPrice,
		IsFastest:          q.IsFastest,
		HasAIAnalysis:      q.AISummary.Valid && q.AISummary.String != "",
		AIConfidence:       q.AIConfidence.Float64,
		AISummary:          q.AISummary.String,
		CreatedAt:          q.CreatedAt,
		CreatedAtFormatted: q.CreatedAt.Format(timestampFormat),
		TimeAgo:            timeAgo(q.CreatedAt, now),
	}
	if view.DeliveryFormatted == "" {
		view.DeliveryFormatted = "Por confirmar"
	}
	return view
}

var firstNumberPattern = regexp.MustCompile(`\d+`)

// parseDeliveryDays pulls the leading day count out of a free-text
// estimate like "3-5 días hábiles"; 0 when none is present.
func parseDeliveryDays(estimate string) int {
	match := firstNumberPattern.FindString(estimate)
	if match == "" {
		return 0
	}
	days, _ := strconv.Atoi(match)
	return days
}

// timeAgo mirrors the dashboard's relative timestamps.
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "ahora mismo"
	case diff < time.Hour:
		return fmt.Sprintf("hace %d min", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("hace %dh", int(diff.Hours()))
	default:
		return fmt.Sprintf("hace %dd", int(diff.Hours()/24))
	}
}
