package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// SaveProducts inserts the line items of a ticket in one transaction.
func (s *SQLiteStore) SaveProducts(ctx context.Context, ticketID string, items []models.LineItem) ([]models.StoredItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored := make([]models.StoredItem, len(items))
	for i, item := range items {
		stored[i] = models.StoredItem{
			ID:       uuid.New().String(),
			TicketID: ticketID,
			LineItem: item,
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (id, ticket_id, position, name, quantity, unit_price)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			stored[i].ID, ticketID, i, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

// GetProductsByTicketID returns the products of a ticket in saved order.
func (s *SQLiteStore) GetProductsByTicketID(ctx context.Context, ticketID string) ([]models.StoredItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, ticket_id, name, quantity, unit_price FROM products WHERE ticket_id = ? ORDER BY position",
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var items []models.StoredItem
	for rows.Next() {
		var item models.StoredItem
		if err := rows.Scan(&item.ID, &item.TicketID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return items, nil
}
