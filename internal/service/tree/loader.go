package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	models "treeview/internal/domain/models/tree"
	treeRepo "treeview/internal/domain/repositories/tree"
)

// LoadStatus is the observable outcome of the latest load
type LoadStatus string

const (
	LoadPending LoadStatus = "pending"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// ErrSuperseded is returned by a load whose response arrived after a newer load started
var ErrSuperseded = errors.New("load superseded by a newer request")

// Loader fetches a payload, builds the tree and hands it to a Store.
// A failed fetch or build never reaches the Store, so the previous snapshot stays.
type Loader struct {
	source treeRepo.PayloadSource
	store  *Store
	guard  sync.Locker // serializes Store access with the Store's other writers
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	status     LoadStatus
	err        error
	loadedAt   time.Time
}

// NewLoader creates a loader. guard must be the lock callers hold while using store.
func NewLoader(source treeRepo.PayloadSource, store *Store, guard sync.Locker, logger *slog.Logger) *Loader {
	return &Loader{
		source: source,
		store:  store,
		guard:  guard,
		logger: logger,
		status: LoadPending,
	}
}

// Load runs one fetch-and-build cycle. It must be called without holding guard.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.status = LoadPending
	l.err = nil
	l.mu.Unlock()

	roots, err := l.fetch(ctx)

	l.guard.Lock()
	defer l.guard.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.Debug("discarding stale tree response", "generation", gen, "current", l.generation)
		return ErrSuperseded
	}

	if err != nil {
		l.status = LoadFailed
		l.err = err
		l.logger.Warn("tree load failed", "error", err)
		return err
	}

	l.store.LoadTree(roots)
	l.status = LoadReady
	l.loadedAt = time.Now()

	l.logger.Info("tree loaded",
		"root_count", len(roots),
		"folder_count", l.store.FolderCount(),
		"item_count", l.store.ItemCount(),
	)
	return nil
}

func (l *Loader) fetch(ctx context.Context) ([]models.Node, error) {
	payload, err := l.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payload: %w", err)
	}
	roots, err := Build(payload)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	return roots, nil
}

// Status returns the outcome of the latest load and its error, if any
func (l *Loader) Status() (LoadStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status, l.err
}

// LoadedAt returns when the current snapshot was loaded
func (l *Loader) LoadedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedAt
}
