package asset

import (
	"encoding/binary"
	"fmt"
	"maps"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

const animationsBucket = "animations"

func animationKey(index int) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(index))
	return key
}

// BoltSource reads animation buffers from a packed resource file.
type BoltSource struct {
	db *bolt.DB
}

// OpenBolt opens a resource file written by PackAnimations for reading.
func OpenBolt(path string) (*BoltSource, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	return &BoltSource{db: db}, nil
}

func (s *BoltSource) Close() error {
	return s.db.Close()
}

func (s *BoltSource) Animation(index int) ([]byte, error) {
	var buf []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(animationsBucket))
		if b == nil {
			return fmt.Errorf("asset: the %s bucket not found: %w", animationsBucket, ErrNotFound)
		}
		v := b.Get(animationKey(index))
		if v == nil {
			return fmt.Errorf("asset: animation %d: %w", index, ErrNotFound)
		}
		// Values are only valid inside the transaction.
		buf = append([]byte(nil), v...)
		return nil
	})
	return buf, err
}

// Indices lists the packed animation indices in ascending order.
func (s *BoltSource) Indices() ([]int, error) {
	var out []int
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(animationsBucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			if len(k) != 4 {
				return fmt.Errorf("asset: malformed key %x", k)
			}
			out = append(out, int(binary.BigEndian.Uint32(k)))
			return nil
		})
	})
	return out, err
}

// PackAnimations writes buffers into the resource file at path, creating it
// when missing. Existing entries with the same index are replaced.
func PackAnimations(path string, buffers map[int][]byte) error {
	db, err := bolt.Open(path, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("asset: open %s: %w", path, err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(animationsBucket))
		if err != nil {
			return err
		}
		for _, index := range slices.Sorted(maps.Keys(buffers)) {
			if index < 0 {
				return fmt.Errorf("asset: negative animation index %d", index)
			}
			if err := b.Put(animationKey(index), buffers[index]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("asset: pack %s: %w", path, err)
	}
	return nil
}
