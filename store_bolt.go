package jsondict

import (
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

const DefaultBoltBucket = "jsondict"

type BoltOptions struct {
	Bucket    string
	Timeout   time.Duration
	IsTesting bool
	MmapSize  int
}

// BoltStore keeps records in a single Bolt bucket.
type BoltStore struct {
	bdb    *bbolt.DB
	bucket []byte
	owned  bool
}

// OpenBolt opens (or creates) a Bolt file and closes it on Close.
func OpenBolt(path string, opt BoltOptions) (*BoltStore, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.Timeout != 0 {
		bopt.Timeout = opt.Timeout
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("jsondict: %w", err)
	}
	s, err := NewBoltStore(bdb, opt.Bucket)
	if err != nil {
		bdb.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewBoltStore uses an already open Bolt database, creating the bucket if
// needed. Close does not close bdb.
func NewBoltStore(bdb *bbolt.DB, bucket string) (*BoltStore, error) {
	if bucket == "" {
		bucket = DefaultBoltBucket
	}
	s := &BoltStore{bdb: bdb, bucket: []byte(bucket)}
	err := bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("jsondict: creating bucket %q: %w", bucket, err)
	}
	return s, nil
}

func (s *BoltStore) Bolt() *bbolt.DB {
	return s.bdb
}

func (s *BoltStore) Load(key string) (data []byte, found bool, err error) {
	err = s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(s.bucket)
		if b == nil {
			return bbolt.ErrBucketNotFound
		}
		v := b.Get([]byte(key))
		if v != nil {
			// Bolt memory is only valid inside the transaction
			data, found = slices.Clone(v), true
		}
		return nil
	})
	return data, found, err
}

func (s *BoltStore) Save(key string, data []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b, err := btx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *BoltStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.bdb.Close()
}
