//go:build !js

package table

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/fw/core"
	"github.com/ndnfw/planes/fw/defn"
)

// BadgerCsStore is a disk-persistent CsStore, for forwarders whose Content
// Store needs to survive a restart or outgrow memory.
type BadgerCsStore struct {
	db *badger.DB
}

// NewBadgerCsStore opens (creating if necessary) a badger database at path
// to back a Content Store.
func NewBadgerCsStore(path string) (*BadgerCsStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerCsStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *BadgerCsStore) Close() error {
	return s.db.Close()
}

type badgerCsRecord struct {
	Name           enc.Name
	SupportingName enc.Name
	Content        []byte
	StaleTimeUnix  int64
}

func (s *BadgerCsStore) Get(name enc.Name, prefix bool) (*CsEntry, bool) {
	key := []byte(name.String())
	var rec badgerCsRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		if !prefix {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			found = true
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
		}

		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(append(append([]byte{}, key...), 0xFF))
		if !it.ValidForPrefix(key) {
			return nil
		}
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		found = true
		return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
	})
	if err != nil {
		core.Log.Warn(core.Namef("cs.badger"), "lookup failed", "err", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &CsEntry{
		Data: &defn.FwData{
			NameV:           rec.Name,
			SupportingNameV: rec.SupportingName,
			Content:         rec.Content,
		},
		StaleTime: time.Unix(0, rec.StaleTimeUnix),
	}, true
}

func (s *BadgerCsStore) Put(name enc.Name, entry *CsEntry) {
	rec := badgerCsRecord{
		Name:           entry.Data.NameV,
		SupportingName: entry.Data.SupportingNameV,
		Content:        entry.Data.Content,
		StaleTimeUnix:  entry.StaleTime.UnixNano(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		core.Log.Error(core.Namef("cs.badger"), "encode failed", "err", err)
		return
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name.String()), buf.Bytes())
	})
	if err != nil {
		core.Log.Warn(core.Namef("cs.badger"), "put failed", "err", err)
	}
}

func (s *BadgerCsStore) Remove(name enc.Name) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(name.String()))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		core.Log.Warn(core.Namef("cs.badger"), "remove failed", "err", err)
	}
}

func (s *BadgerCsStore) Len() int {
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}

func (s *BadgerCsStore) EvictOldest(n int) {
	// The badger backend orders entries by key (name), not insertion time;
	// eviction here drops the lexicographically first n entries as an
	// approximation. A forwarder that needs true LRU eviction under the
	// badger backend should bound capacity generously instead.
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		dropped := 0
		for it.Rewind(); it.Valid() && dropped < n; it.Next() {
			key := it.Item().KeyCopy(nil)
			if err := txn.Delete(key); err != nil {
				return err
			}
			dropped++
		}
		return nil
	})
	if err != nil {
		core.Log.Warn(core.Namef("cs.badger"), "evict failed", "err", err)
	}
}
