// Package badgerstore provides Badger-backed credential storage.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
)

// credPrefix namespaces credential records in the database.
const credPrefix = "cred:"

// Config holds Badger store configuration.
type Config struct {
	// Dir is the database directory. Required unless InMemory is set.
	Dir string

	// InMemory runs Badger without touching disk. For tests.
	InMemory bool

	// SyncWrites fsyncs every write. Slower but durable.
	SyncWrites bool

	// GCInterval is the period between value-log GC runs.
	// Zero disables the GC loop.
	GCInterval time.Duration

	// GCThreshold is the value-log GC discard ratio (0..1).
	GCThreshold float64
}

// DefaultConfig returns the default Badger store configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		SyncWrites:  true,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// Store implements storage.CredentialStore using Badger v3.
type Store struct {
	db     *badger.DB
	cfg    Config
	logger *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// New opens a Badger-backed credential store.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badgerstore: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.InMemory = cfg.InMemory
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = &badgerLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open db: %w", err)
	}

	s := &Store{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		go s.gcLoop()
	} else {
		close(s.doneCh)
	}

	logger.Info("badger credential store opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"sync_writes", cfg.SyncWrites)

	return s, nil
}

// Get retrieves a credential by identity.
func (s *Store) Get(_ context.Context, identity string) (*domain.Credential, error) {
	var cred domain.Credential

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(credKey(identity))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCredentialNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cred)
		})
	})
	if err != nil {
		return nil, wrapStorageErr(err)
	}

	return &cred, nil
}

// Create stores a new credential.
func (s *Store) Create(_ context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	val, err := json.Marshal(cred)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := credKey(cred.Identity)
		if _, err := txn.Get(key); err == nil {
			return domain.ErrCredentialConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, val)
	})
	return wrapStorageErr(err)
}

// Update replaces an existing credential.
func (s *Store) Update(_ context.Context, cred *domain.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	val, err := json.Marshal(cred)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := credKey(cred.Identity)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCredentialNotFound
			}
			return err
		}
		return txn.Set(key, val)
	})
	return wrapStorageErr(err)
}

// Delete removes a credential by identity.
func (s *Store) Delete(_ context.Context, identity string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := credKey(identity)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCredentialNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	return wrapStorageErr(err)
}

// List returns all stored credentials ordered by identity.
func (s *Store) List(_ context.Context) ([]*domain.Credential, error) {
	var creds []*domain.Credential

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(credPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var cred domain.Credential
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cred)
			})
			if err != nil {
				return err
			}
			creds = append(creds, &cred)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err)
	}

	sort.Slice(creds, func(i, j int) bool {
		return creds[i].Identity < creds[j].Identity
	})
	return creds, nil
}

// Count returns the number of stored credentials.
func (s *Store) Count(_ context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(credPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, wrapStorageErr(err)
	}
	return count, nil
}

// Close stops the GC loop and closes the database.
func (s *Store) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badgerstore: close db: %w", err)
	}
	s.logger.Info("badger credential store closed")
	return nil
}

// gcLoop runs periodic value-log garbage collection.
func (s *Store) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				err := s.db.RunValueLogGC(s.cfg.GCThreshold)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						s.logger.Error("badger gc failed", "error", err)
					}
					break
				}
			}
		case <-s.stopCh:
			return
		}
	}
}

func credKey(identity string) []byte {
	return []byte(credPrefix + identity)
}

// wrapStorageErr converts backend errors to domain errors, passing
// domain errors through untouched.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorageError.WithCause(err)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
