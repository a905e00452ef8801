package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one (quantity, name, unit price) row of a receipt.
// It is produced by the receipt parser or added by hand while editing a draft.
type LineItem struct {
	// Quantity is the number of units. The parser always infers 1.
	Quantity int `json:"quantity"`

	// Name is the trimmed product name. It may be empty while pending an edit.
	Name string `json:"name"`

	// UnitPrice is the price of a single unit.
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewBlankLineItem returns the placeholder row shown when a list would
// otherwise be empty.
func NewBlankLineItem() LineItem {
	return LineItem{Quantity: 1, UnitPrice: decimal.Zero}
}

// TotalPrice is Quantity × UnitPrice.
func (li LineItem) TotalPrice() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SumLineItems adds up TotalPrice over items.
func SumLineItems(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice())
	}
	return sum
}

// Ticket is one saved receipt.
type Ticket struct {
	// ID is the unique identifier for the ticket (UUID format), assigned on insert.
	ID string

	// StoreName is the optional name of the shop.
	StoreName *string

	// Date is when the ticket was saved.
	Date time.Time

	// TotalAmount is the detected grand total, or the sum of item totals
	// when the receipt had none.
	TotalAmount decimal.Decimal
}

// StoredItem is a LineItem persisted under a ticket.
type StoredItem struct {
	ID       string
	TicketID string
	LineItem
}
