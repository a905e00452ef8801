package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is a parsed receipt being edited before it is saved as a Ticket.
type Draft struct {
	ID        string     `json:"id"`
	StoreName string     `json:"store_name,omitempty"`
	Items     []LineItem `json:"items"`

	// ExtractedTotal is the total detected on the receipt, if any.
	ExtractedTotal decimal.NullDecimal `json:"extracted_total"`

	CreatedAt time.Time `json:"created_at"`
}
