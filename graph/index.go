package graph

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v2"
)

// Index is a set of triple keys
type Index interface {
	Add(keys ...string) error
	Has(key string) (bool, error)
	Len() int
	Close() error
}

type memoryIndex struct {
	keys map[string]struct{}
}

// NewMemoryIndex returns an Index held in a Go map
func NewMemoryIndex() Index {
	return &memoryIndex{keys: map[string]struct{}{}}
}

func (m *memoryIndex) Add(keys ...string) error {
	for _, key := range keys {
		m.keys[key] = struct{}{}
	}
	return nil
}

func (m *memoryIndex) Has(key string) (bool, error) {
	_, has := m.keys[key]
	return has, nil
}

func (m *memoryIndex) Len() int     { return len(m.keys) }
func (m *memoryIndex) Close() error { return nil }

// Triple keys are stored verbatim under keyPrefix; keys longer than
// maxKeySize are stored as their SHA-256 digest under digestPrefix.
const (
	keyPrefix    = byte('t')
	digestPrefix = byte('h')
	maxKeySize   = 1 << 12
)

type badgerIndex struct {
	db  *badger.DB
	len int
}

// NewBadgerIndex opens a badger-backed Index. An empty dir keeps the
// database in memory; otherwise the keys are spilled to dir, which bounds
// the memory used for very large vocabularies.
func NewBadgerIndex(dir string, logger *slog.Logger) (Index, error) {
	opts := badger.DefaultOptions(dir).WithLogger(&badgerLogger{logger: logger})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger index: %w", err)
	}
	return &badgerIndex{db: db}, nil
}

func (b *badgerIndex) Add(keys ...string) error {
	txn := b.db.NewTransaction(true)
	defer func() {
		if txn != nil {
			txn.Discard()
		}
	}()

	for _, key := range keys {
		k := assembleKey(key)
		has, err := b.has(txn, k)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if txn, err = setSafe(k, nil, txn, b.db); err != nil {
			return err
		}
		b.len++
	}
	return txn.Commit()
}

func (b *badgerIndex) Has(key string) (bool, error) {
	txn := b.db.NewTransaction(false)
	defer txn.Discard()
	return b.has(txn, assembleKey(key))
}

func (b *badgerIndex) has(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (b *badgerIndex) Len() int { return b.len }

func (b *badgerIndex) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func assembleKey(key string) []byte {
	if len(key) > maxKeySize {
		digest := sha256.Sum256([]byte(key))
		return append([]byte{digestPrefix}, digest[:]...)
	}
	k := make([]byte, 1+len(key))
	k[0] = keyPrefix
	copy(k[1:], key)
	return k
}

// setSafe writes the entry and returns a new transaction if the old one was full.
func setSafe(key, val []byte, txn *badger.Txn, db *badger.DB) (*badger.Txn, error) {
	e := badger.NewEntry(key, val)
	err := txn.SetEntry(e)
	if err == badger.ErrTxnTooBig {
		err = txn.Commit()
		if err != nil {
			return nil, err
		}
		txn = db.NewTransaction(true)
		err = txn.SetEntry(e)
	}
	return txn, err
}

// badgerLogger routes badger's internal logging through slog
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) log() *slog.Logger {
	if l.logger == nil {
		return slog.Default()
	}
	return l.logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log().Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log().Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log().Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log().Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
