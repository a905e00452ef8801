// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// ErrNotFound is wrapped by stores when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ticket, participant and assignment storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// InsertTicket persists a new ticket.
	// The ticket.ID field will be populated by the store.
	InsertTicket(ctx context.Context, ticket *models.Ticket) error

	// GetTicket retrieves a ticket by its ID.
	// Returns an error wrapping ErrNotFound if the ticket does not exist.
	GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error)

	// ListTickets returns all tickets, newest first.
	ListTickets(ctx context.Context) ([]*models.Ticket, error)

	// SaveProducts persists the line items of a ticket, in order, and returns
	// them with their assigned IDs.
	SaveProducts(ctx context.Context, ticketID string, items []models.LineItem) ([]models.StoredItem, error)

	// GetProductsByTicketID returns the stored items of a ticket in the order
	// they were saved.
	GetProductsByTicketID(ctx context.Context, ticketID string) ([]models.StoredItem, error)

	// InsertUser registers a participant and returns it with its ID.
	InsertUser(ctx context.Context, name string) (*models.Participant, error)

	// GetAllUsers returns every registered participant.
	GetAllUsers(ctx context.Context) ([]*models.Participant, error)

	// InsertAssignments persists assignment records. Saving the same
	// (ticket, item, participant) twice keeps one record.
	InsertAssignments(ctx context.Context, assignments []models.Assignment) error

	// ReplaceAssignments atomically swaps every persisted assignment of a
	// ticket for the given records.
	ReplaceAssignments(ctx context.Context, ticketID string, assignments []models.Assignment) error

	// GetAssignmentsForTicket returns the persisted assignments of a ticket.
	GetAssignmentsForTicket(ctx context.Context, ticketID string) ([]models.Assignment, error)

	// Close releases any resources held by the store.
	Close() error
}

// DraftStore keeps parsed receipts while they are being edited.
type DraftStore interface {
	// SaveDraft creates or replaces a draft. draft.ID is generated when empty.
	SaveDraft(ctx context.Context, draft *models.Draft) error

	// GetDraft returns a draft, or an error wrapping ErrNotFound.
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)

	// DeleteDraft removes a draft. Deleting a missing draft is not an error.
	DeleteDraft(ctx context.Context, draftID string) error

	Close() error
}
