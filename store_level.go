package jsondict

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type LevelOptions struct {
	// Sync makes every Save fsync the write-ahead log.
	Sync bool
}

// LevelStore keeps records in a LevelDB database, one LevelDB key per record.
type LevelStore struct {
	ldb   *leveldb.DB
	wopt  *opt.WriteOptions
	owned bool
}

func OpenLevel(path string, o LevelOptions) (*LevelStore, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("jsondict: %w", err)
	}
	s := NewLevelStore(ldb, o)
	s.owned = true
	return s, nil
}

// NewLevelStore uses an already open database. Close does not close ldb.
func NewLevelStore(ldb *leveldb.DB, o LevelOptions) *LevelStore {
	return &LevelStore{ldb: ldb, wopt: &opt.WriteOptions{Sync: o.Sync}}
}

func (s *LevelStore) Load(key string) ([]byte, bool, error) {
	data, err := s.ldb.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *LevelStore) Save(key string, data []byte) error {
	return s.ldb.Put([]byte(key), data, s.wopt)
}

func (s *LevelStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.ldb.Close()
}
