// Package modelstore persists trained models in an embedded badger key-value
// store: one gob-serialized model blob per market, overwritten on every
// retrain, plus a small JSON score record used for listings. Never versioned —
// the latest model per market is the only one that exists.
package modelstore

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"estate-adviser/regress"
)

// Key prefixes for badger storage
const (
	modelKeyPrefix = "model:"
	scoreKeyPrefix = "score:"
)

// ErrModelNotFound means no model has been trained for a market
var ErrModelNotFound = errors.New("modelstore: no model for market")

// Model is a fitted regressor plus its metadata
type Model struct {
	Market    string // lowercase city_state key
	Score     float64
	TrainedAt time.Time
	Forest    *regress.Forest
}

// ScoreRecord is the lightweight per-model quality record
type ScoreRecord struct {
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location describes one stored model for listing purposes
type Location struct {
	Market    string    `json:"market"`
	Location  string    `json:"location"` // display form, e.g. "Seattle, WA"
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"last_updated"`
}

// Store is the badger-backed model blob store
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the given directory
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store, used by tests
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying badger database
func (s *Store) Close() error {
	return s.db.Close()
}

// Key builds the market key from a city and state
func Key(city, state string) string {
	return strings.ToLower(city) + "_" + strings.ToLower(state)
}

// DisplayLocation converts a market key back to its display form
func DisplayLocation(market string) string {
	parts := strings.SplitN(market, "_", 2)
	if len(parts) != 2 {
		return market
	}
	city := strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return city + ", " + strings.ToUpper(parts[1])
}

// Put stores a model and its score record, replacing any previous version
func (s *Store) Put(model *Model) error {
	var blob bytes.Buffer
	if err := gob.NewEncoder(&blob).Encode(model); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	score, err := json.Marshal(ScoreRecord{Score: model.Score, UpdatedAt: model.TrainedAt})
	if err != nil {
		return fmt.Errorf("encode score record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(modelKeyPrefix+model.Market), blob.Bytes()); err != nil {
			return fmt.Errorf("set model blob: %w", err)
		}
		if err := txn.Set([]byte(scoreKeyPrefix+model.Market), score); err != nil {
			return fmt.Errorf("set score record: %w", err)
		}
		return nil
	})
}

// Get loads the stored model for a market
func (s *Store) Get(market string) (*Model, error) {
	var model Model

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelKeyPrefix + market))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model blob: %w", err)
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&model)
		})
	})
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// Delete removes a market's model and score record
func (s *Store) Delete(market string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(modelKeyPrefix + market)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err := txn.Delete([]byte(modelKeyPrefix + market)); err != nil {
			return err
		}
		return txn.Delete([]byte(scoreKeyPrefix + market))
	})
}

// List enumerates every stored model's score record
func (s *Store) List() ([]Location, error) {
	var locations []Location

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(scoreKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			market := strings.TrimPrefix(string(item.Key()), scoreKeyPrefix)

			var record ScoreRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("decode score record for %s: %w", market, err)
			}

			locations = append(locations, Location{
				Market:    market,
				Location:  DisplayLocation(market),
				Score:     record.Score,
				UpdatedAt: record.UpdatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}
