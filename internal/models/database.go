package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// deleteIgnoringMissing deletes a key and treats a missing key as success
func (db *Database) deleteIgnoringMissing(key string, dataType interface{}) error {
	err := db.store.Delete(key, dataType)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}

// Media operations

// SaveMedia inserts or replaces the membership record of a title
func (db *Database) SaveMedia(record *MediaRecord) error {
	record.UpdatedAt = time.Now()
	return db.store.Upsert(record.Key, record)
}

// GetMedia retrieves a membership record by key
func (db *Database) GetMedia(key string) (*MediaRecord, error) {
	var record MediaRecord
	if err := db.store.Get(key, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteMedia removes a membership record
func (db *Database) DeleteMedia(key string) error {
	return db.deleteIgnoringMissing(key, &MediaRecord{})
}

// GetAllMedia retrieves all membership records
func (db *Database) GetAllMedia() ([]*MediaRecord, error) {
	var records []*MediaRecord
	err := db.store.Find(&records, nil)
	return records, err
}

// GetMediaByMembership retrieves the records of one list
func (db *Database) GetMediaByMembership(membership Membership) ([]*MediaRecord, error) {
	var records []*MediaRecord
	err := db.store.Find(&records, bolthold.Where("Membership").Eq(membership))
	return records, err
}

// Review operations

// SaveReview inserts or replaces a review
func (db *Database) SaveReview(record *ReviewRecord) error {
	record.UpdatedAt = time.Now()
	return db.store.Upsert(record.Key, record)
}

// DeleteReview removes a review
func (db *Database) DeleteReview(key string) error {
	return db.deleteIgnoringMissing(key, &ReviewRecord{})
}

// GetAllReviews retrieves every stored review
func (db *Database) GetAllReviews() ([]*ReviewRecord, error) {
	var records []*ReviewRecord
	err := db.store.Find(&records, nil)
	return records, err
}

// Episode operations

// SaveEpisode inserts or replaces an episode watched mark
func (db *Database) SaveEpisode(record *EpisodeRecord) error {
	return db.store.Upsert(record.Key, record)
}

// DeleteEpisode removes an episode watched mark
func (db *Database) DeleteEpisode(key string) error {
	return db.deleteIgnoringMissing(key, &EpisodeRecord{})
}

// GetAllEpisodes retrieves every episode watched mark
func (db *Database) GetAllEpisodes() ([]*EpisodeRecord, error) {
	var records []*EpisodeRecord
	err := db.store.Find(&records, nil)
	return records, err
}

// GetEpisodesByShow retrieves the watched marks of one show
func (db *Database) GetEpisodesByShow(showID int) ([]*EpisodeRecord, error) {
	var records []*EpisodeRecord
	err := db.store.Find(&records, bolthold.Where("ShowID").Eq(showID))
	return records, err
}

// Activity operations

// AddActivity appends an entry to the activity feed
func (db *Database) AddActivity(record *ActivityRecord) error {
	return db.store.Insert(record.ID, record)
}

// GetActivities returns the newest activity entries first, at most limit
// entries when limit is positive
func (db *Database) GetActivities(limit int) ([]*ActivityRecord, error) {
	var records []*ActivityRecord
	if err := db.store.Find(&records, nil); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Batch groups record writes that must land together
type Batch struct {
	SaveMedia      []*MediaRecord
	DeleteMedia    []string
	SaveReviews    []*ReviewRecord
	DeleteReviews  []string
	SaveEpisodes   []*EpisodeRecord
	DeleteEpisodes []string
}

// Empty reports whether the batch has nothing to write
func (b Batch) Empty() bool {
	return len(b.SaveMedia) == 0 && len(b.DeleteMedia) == 0 &&
		len(b.SaveReviews) == 0 && len(b.DeleteReviews) == 0 &&
		len(b.SaveEpisodes) == 0 && len(b.DeleteEpisodes) == 0
}

// Apply writes a batch in a single bolt transaction
func (db *Database) Apply(batch Batch) error {
	if batch.Empty() {
		return nil
	}

	now := time.Now()
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		for _, record := range batch.SaveMedia {
			record.UpdatedAt = now
			if err := db.store.TxUpsert(tx, record.Key, record); err != nil {
				return fmt.Errorf("failed to save media %s: %w", record.Key, err)
			}
		}
		for _, key := range batch.DeleteMedia {
			if err := txDelete(db.store, tx, key, &MediaRecord{}); err != nil {
				return fmt.Errorf("failed to delete media %s: %w", key, err)
			}
		}
		for _, record := range batch.SaveReviews {
			record.UpdatedAt = now
			if err := db.store.TxUpsert(tx, record.Key, record); err != nil {
				return fmt.Errorf("failed to save review %s: %w", record.Key, err)
			}
		}
		for _, key := range batch.DeleteReviews {
			if err := txDelete(db.store, tx, key, &ReviewRecord{}); err != nil {
				return fmt.Errorf("failed to delete review %s: %w", key, err)
			}
		}
		for _, record := range batch.SaveEpisodes {
			if err := db.store.TxUpsert(tx, record.Key, record); err != nil {
				return fmt.Errorf("failed to save episode %s: %w", record.Key, err)
			}
		}
		for _, key := range batch.DeleteEpisodes {
			if err := txDelete(db.store, tx, key, &EpisodeRecord{}); err != nil {
				return fmt.Errorf("failed to delete episode %s: %w", key, err)
			}
		}
		return nil
	})
}

func txDelete(store *bolthold.Store, tx *bbolt.Tx, key string, dataType interface{}) error {
	err := store.TxDelete(tx, key, dataType)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}
