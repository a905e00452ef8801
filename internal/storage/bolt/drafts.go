// Package bolt keeps receipt drafts in a BoltDB file while they are edited.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/amartinez/cuentasclaritas/internal/models"
	"github.com/amartinez/cuentasclaritas/internal/storage"
)

const draftsBucket = "drafts"

var _ storage.DraftStore = (*DraftStore)(nil)

// DraftStore implements storage.DraftStore using BoltDB
type DraftStore struct {
	db *bbolt.DB
}

// New opens (or creates) the draft database at path.
func New(path string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating drafts directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(draftsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &DraftStore{db: db}, nil
}

// SaveDraft creates or replaces a draft.
func (s *DraftStore) SaveDraft(_ context.Context, draft *models.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(draftsBucket)).Put([]byte(draft.ID), data)
	})
}

// GetDraft retrieves a draft by ID.
func (s *DraftStore) GetDraft(_ context.Context, draftID string) (*models.Draft, error) {
	var draft *models.Draft
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(draftsBucket)).Get([]byte(draftID))
		if data == nil {
			return fmt.Errorf("draft %s: %w", draftID, storage.ErrNotFound)
		}
		return json.Unmarshal(data, &draft)
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// DeleteDraft removes a draft.
func (s *DraftStore) DeleteDraft(_ context.Context, draftID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(draftsBucket)).Delete([]byte(draftID))
	})
}

// Close closes the database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}
