// Package assign tracks which participants own which items of a ticket and
// decides when the assignment is complete enough to be saved.
//
// Working state is keyed by item name. Names are resolved to stored item IDs
// only when building the records to persist, because freshly edited items
// may not have IDs yet.
package assign

import (
	"errors"
	"sort"
	"sync"

	"github.com/amartinez/cuentasclaritas/internal/models"
)

// ErrIncomplete is returned by Persistable when some item has no owner.
// Callers are expected to check IsComplete first; hitting this error is a
// flow error, not a data error.
var ErrIncomplete = errors.New("assignment incomplete: every item needs at least one participant")

// Tracker holds the participant → assigned item names mapping for one ticket.
// It is safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	items        []string
	participants []string
	assigned     map[string]map[string]struct{}
}

// NewTracker starts an empty assignment over the given item names and
// participant IDs. Duplicate names are collapsed, keeping first-seen order.
func NewTracker(itemNames, participantIDs []string) *Tracker {
	t := &Tracker{
		items:    dedupe(itemNames),
		assigned: make(map[string]map[string]struct{}, len(participantIDs)),
	}
	for _, id := range dedupe(participantIDs) {
		t.participants = append(t.participants, id)
		t.assigned[id] = make(map[string]struct{})
	}
	return t
}

// Items returns the item names being assigned.
func (t *Tracker) Items() []string {
	return append([]string(nil), t.items...)
}

// Toggle assigns itemName to participantID, or unassigns it if already
// assigned. No validation happens here.
func (t *Tracker) Toggle(participantID, itemName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.assigned[participantID]
	if !ok {
		set = make(map[string]struct{})
		t.assigned[participantID] = set
		t.participants = append(t.participants, participantID)
	}
	if _, on := set[itemName]; on {
		delete(set, itemName)
		return
	}
	set[itemName] = struct{}{}
}

// IsAssigned reports whether participantID currently owns itemName.
func (t *Tracker) IsAssigned(participantID, itemName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, on := t.assigned[participantID][itemName]
	return on
}

// IsComplete reports whether every item has at least one owner.
// A tracker with no items is never complete.
func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items) > 0 && len(t.unassigned()) == 0
}

// Unassigned lists the items nobody owns yet, in item order.
func (t *Tracker) Unassigned() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unassigned()
}

// Assignments returns each participant's assigned item names, in item order.
// Names foreign to the ticket come last, sorted.
func (t *Tracker) Assignments() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string][]string, len(t.participants))
	for _, id := range t.participants {
		out[id] = t.ordered(t.assigned[id])
	}
	return out
}

// Persistable resolves the assignment to records for ticketID, looking up
// item IDs by exact name in stored. A name with no stored item is skipped.
// A name shared by several stored items assigns all of them, so repeated
// receipt lines keep an owner.
func (t *Tracker) Persistable(ticketID string, stored []models.StoredItem) ([]models.Assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.items) == 0 || len(t.unassigned()) > 0 {
		return nil, ErrIncomplete
	}

	ids := make(map[string][]string, len(stored))
	for _, item := range stored {
		ids[item.Name] = append(ids[item.Name], item.ID)
	}

	var out []models.Assignment
	for _, participantID := range t.participants {
		for _, name := range t.ordered(t.assigned[participantID]) {
			for _, itemID := range ids[name] {
				out = append(out, models.Assignment{
					TicketID:      ticketID,
					ItemID:        itemID,
					ParticipantID: participantID,
				})
			}
		}
	}
	return out, nil
}

func (t *Tracker) unassigned() []string {
	var missing []string
	for _, name := range t.items {
		if !t.owned(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func (t *Tracker) owned(name string) bool {
	for _, set := range t.assigned {
		if _, on := set[name]; on {
			return true
		}
	}
	return false
}

// ordered lists the names in set following item order, then any foreign
// names sorted.
func (t *Tracker) ordered(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	seen := make(map[string]bool, len(set))
	for _, name := range t.items {
		if _, on := set[name]; on {
			names = append(names, name)
			seen[name] = true
		}
	}
	var foreign []string
	for name := range set {
		if !seen[name] {
			foreign = append(foreign, name)
		}
	}
	sort.Strings(foreign)
	return append(names, foreign...)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
