package models

// Assignment records that a participant owns (part of) one item of a ticket.
// An item owned by several participants is shared equally between them.
type Assignment struct {
	TicketID      string
	ItemID        string
	ParticipantID string
}
