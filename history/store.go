// Package history keeps recent analysis results in an embedded bbolt
// database. Records live in one sub-bucket per input kind and input, keyed
// by a monotonically increasing sequence so cursor order is insertion order.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketHistory = []byte("history")

// ErrEmptyInput is returned when a record has no kind or input
var ErrEmptyInput = errors.New("history: record needs a kind and an input")

// ErrInputTooLong is returned when an input cannot serve as a bucket key
var ErrInputTooLong = errors.New("history: input exceeds the maximum key size")

// Record is one stored analysis
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Input     string          `json:"input"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

// Store persists records in bbolt
type Store struct {
	db       *bolt.DB
	perInput int
	now      func() time.Time
}

// Open opens (or creates) a bbolt database at path. perInput bounds how many
// records are kept for a single input.
func Open(path string, perInput int) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}
	if perInput < 1 {
		perInput = 1
	}
	return &Store{db: db, perInput: perInput, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

// Save stores rec, assigning an ID and timestamp when missing, and trims the
// oldest records of the same input beyond the retention limit.
func (s *Store) Save(rec Record) (Record, error) {
	if rec.Kind == "" || rec.Input == "" {
		return Record{}, ErrEmptyInput
	}
	if len(rec.Input) > bolt.MaxKeySize || len(rec.Kind) > bolt.MaxKeySize {
		return Record{}, ErrInputTooLong
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		kb, err := tx.Bucket(bucketHistory).CreateBucketIfNotExists([]byte(rec.Kind))
		if err != nil {
			return err
		}
		ib, err := kb.CreateBucketIfNotExists([]byte(rec.Input))
		if err != nil {
			return err
		}
		seq, err := ib.NextSequence()
		if err != nil {
			return err
		}
		if err := ib.Put(seqKey(seq), data); err != nil {
			return err
		}
		return trim(ib, s.perInput)
	})
	if err != nil {
		return Record{}, fmt.Errorf("save record: %w", err)
	}
	return rec, nil
}

// trim deletes the oldest keys so at most keep remain
func trim(b *bolt.Bucket, keep int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for i := 0; i < len(keys)-keep; i++ {
		if err := b.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// List returns up to limit records, newest first. An empty kind matches every
// kind and an empty input matches every input of the kind.
func (s *Store) List(kind, input string, limit int) ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketHistory)
		return root.ForEachBucket(func(k []byte) error {
			if kind != "" && string(k) != kind {
				return nil
			}
			kb := root.Bucket(k)
			return kb.ForEachBucket(func(in []byte) error {
				if input != "" && string(in) != input {
					return nil
				}
				c := kb.Bucket(in).Cursor()
				for key, v := c.Last(); key != nil; key, v = c.Prev() {
					var rec Record
					if err := json.Unmarshal(v, &rec); err != nil {
						return fmt.Errorf("decode record %x: %w", key, err)
					}
					out = append(out, rec)
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
