package sqlite

import (
	"context"
	"fmt"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// InsertAssignments stores assignment records in one transaction.
// Existing (ticket, product, user) rows are replaced.
func (s *SQLiteStore) InsertAssignments(ctx context.Context, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range assignments {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO product_assignments (ticket_id, product_id, user_id) VALUES (?, ?, ?)",
			a.TicketID, a.ItemID, a.ParticipantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceAssignments deletes the assignments of a ticket and stores the given
// ones in the same transaction.
func (s *SQLiteStore) ReplaceAssignments(ctx context.Context, ticketID string, assignments []models.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM product_assignments WHERE ticket_id = ?", ticketID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	for _, a := range assignments {
		if a.TicketID != ticketID {
			return fmt.Errorf("assignment for ticket %s in replace of %s", a.TicketID, ticketID)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO product_assignments (ticket_id, product_id, user_id) VALUES (?, ?, ?)",
			a.TicketID, a.ItemID, a.ParticipantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAssignmentsForTicket returns the assignments of a ticket.
func (s *SQLiteStore) GetAssignmentsForTicket(ctx context.Context, ticketID string) ([]models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.ticket_id, a.product_id, a.user_id
		 FROM product_assignments a
		 JOIN products p ON p.id = a.product_id
		 WHERE a.ticket_id = ?
		 ORDER BY p.position, a.user_id`,
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.TicketID, &a.ItemID, &a.ParticipantID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}
