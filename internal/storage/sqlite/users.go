package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// InsertUser registers a new participant.
func (s *SQLiteStore) InsertUser(ctx context.Context, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("participant name is required")
	}

	user := &models.Participant{
		ID:   uuid.New().String(),
		Name: name,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)",
		user.ID, user.Name, time.Now().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetAllUsers returns every participant in registration order.
func (s *SQLiteStore) GetAllUsers(ctx context.Context) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []*models.Participant
	for rows.Next() {
		user := &models.Participant{}
		if err := rows.Scan(&user.ID, &user.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
