// ABOUTME: Embedded Badger key-value backend for the KV record store.
// ABOUTME: Supports on-disk and in-memory modes.
package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// Badger adapts a Badger database to the KV interface.
type Badger struct {
	db *badger.DB
}

var _ KV = (*Badger)(nil)

// OpenBadger opens a Badger database in dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string) (*Badger, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create badger directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// Get returns the value for key, or nil when absent.
func (b *Badger) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return val, err
}

func (b *Badger) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *Badger) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *Badger) Keys(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (b *Badger) Close() error {
	return b.db.Close()
}
