package models

import (
	"database/sql"
	"time"
)

// Quote is the model for the 'quotes' table. Quotes are produced by an
// external process; this codebase reads them and flips is_selected.
type Quote struct {
	ID               int64           `json:"id" db:"id"`
	RequestID        int64           `json:"request_id" db:"request_id"`
	CarrierName      string          `json:"carrier_name" db:"carrier_name"`
	CarrierEmail     string          `json:"carrier_email" db:"carrier_email"`
	Cost             float64         `json:"cost" db:"cost"`
	DeliveryEstimate sql.NullString  `json:"delivery_estimate" db:"delivery_estimate"`
	IsSelected       bool            `json:"is_selected" db:"is_selected"`
	IsBestPrice      bool            `json:"is_best_price" db:"is_best_price"`
	IsFastest        bool            `json:"is_fastest" db:"is_fastest"`
	AIConfidence     sql.NullFloat64 `json:"ai_confidence" db:"ai_confidence"`
	AISummary        sql.NullString  `json:"ai_summary" db:"ai_summary"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
