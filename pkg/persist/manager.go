package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Registry is the part of a switchboard the Manager reads and replaces.
type Registry interface {
	Entries() []domain.Entry
	Load(entries []domain.Entry)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to stored layouts per key.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.LayoutStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock lease. Non-positive values keep the default.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.LayoutStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Restore loads the layouts stored under key into reg, replacing its contents.
// It reports false, and leaves reg untouched, when nothing is stored yet.
func (m *Manager) Restore(ctx context.Context, key string, reg Registry) (bool, error) {
	entries, err := m.Load(ctx, key)
	if errors.Is(err, domain.ErrLayoutNotFound) {
		m.logger.Debug("No stored layouts", "key", key)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	reg.Load(entries)
	m.logger.Info("Layouts restored", "key", key, "entries", len(entries))
	return true, nil
}

// Persist writes the current contents of reg under key.
func (m *Manager) Persist(ctx context.Context, key string, reg Registry) error {
	entries := reg.Entries()
	if err := m.Save(ctx, key, entries); err != nil {
		return err
	}
	m.logger.Info("Layouts persisted", "key", key, "entries", len(entries))
	return nil
}

// Load retrieves the entries stored under key.
func (m *Manager) Load(ctx context.Context, key string) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		entries, err = m.store.Load(ctx, key)
		return err
	})
	return entries, err
}

// Save stores entries under key.
func (m *Manager) Save(ctx context.Context, key string, entries []domain.Entry) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Save(ctx, key, entries)
	})
}

// Delete removes the layouts stored under key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying layout store.
func (m *Manager) Store() ports.LayoutStore {
	return m.store
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
