package models

// Participant is a person sharing the cost of tickets.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name, never blank.
	Name string
}
