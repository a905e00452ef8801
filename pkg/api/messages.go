// Package api defines the wire messages and Connect plumbing for the
// cuentas.v1 TicketService and AssignmentService.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is an editable receipt row.
type LineItem struct {
	Quantity   int             `json:"quantity" validate:"gte=0"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Draft is a parsed receipt not yet saved as a ticket.
type Draft struct {
	DraftID        string              `json:"draft_id"`
	StoreName      string              `json:"store_name,omitempty"`
	Items          []LineItem          `json:"items"`
	ExtractedTotal decimal.NullDecimal `json:"extracted_total"`
	ItemsTotal     decimal.Decimal     `json:"items_total"`
	Total          decimal.Decimal     `json:"total"`
}

type ScanTicketRequest struct {
	// Text is the raw OCR output, newline delimited.
	Text      string `json:"text"`
	StoreName string `json:"store_name,omitempty"`
}

type GetDraftRequest struct {
	DraftID string `json:"draft_id" validate:"required"`
}

type UpdateDraftItemRequest struct {
	DraftID string   `json:"draft_id" validate:"required"`
	Index   int      `json:"index" validate:"gte=0"`
	Item    LineItem `json:"item"`
}

type AddDraftItemRequest struct {
	DraftID string `json:"draft_id" validate:"required"`
}

type RemoveDraftItemRequest struct {
	DraftID string `json:"draft_id" validate:"required"`
	Index   int    `json:"index"`
}

// DraftResponse is returned by every draft operation.
type DraftResponse struct {
	Draft Draft `json:"draft"`
}

// StoredItem is a saved line item.
type StoredItem struct {
	ItemID     string          `json:"item_id"`
	Quantity   int             `json:"quantity"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Ticket struct {
	TicketID    string          `json:"ticket_id"`
	StoreName   *string         `json:"store_name,omitempty"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []StoredItem    `json:"items,omitempty"`
}

type SaveTicketRequest struct {
	DraftID string `json:"draft_id" validate:"required"`
}

type SaveTicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type GetTicketRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type GetTicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type ListTicketsRequest struct{}

type ListTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type Participant struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
}

type RegisterParticipantsRequest struct {
	Names []string `json:"names" validate:"required,min=1"`
}

type RegisterParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

// AssignmentState is the working assignment of one ticket.
type AssignmentState struct {
	TicketID string   `json:"ticket_id"`
	Items    []string `json:"items"`

	// Assignments maps participant ID to assigned item names.
	Assignments map[string][]string `json:"assignments"`

	Unassigned []string `json:"unassigned"`
	Complete   bool     `json:"complete"`
}

type ToggleAssignmentRequest struct {
	TicketID      string `json:"ticket_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
	ItemName      string `json:"item_name"`
}

type GetAssignmentStateRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type AssignmentStateResponse struct {
	State AssignmentState `json:"state"`
}

type SaveAssignmentsRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type SaveAssignmentsResponse struct {
	Saved int `json:"saved"`
}

type GetSplitRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type PersonItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PersonSplit struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Adjustment    decimal.Decimal `json:"adjustment"`
	Total         decimal.Decimal `json:"total"`
	Items         []PersonItem    `json:"items"`
}

type GetSplitResponse struct {
	TicketID string          `json:"ticket_id"`
	Total    decimal.Decimal `json:"total"`
	Splits   []PersonSplit   `json:"splits"`
}
