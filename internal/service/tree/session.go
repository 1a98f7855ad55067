package tree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	treeRepo "treeview/internal/domain/repositories/tree"
	treeSvc "treeview/internal/domain/services/tree"
)

// SessionConfig bounds the session registry
type SessionConfig struct {
	TTL         time.Duration // idle sessions older than this are swept; 0 disables
	MaxSessions int           // 0 means unlimited
}

// session is one selection session: a Store, its Loader and the lock that
// makes the HTTP layer a single logical writer
type session struct {
	id       string
	mu       sync.Mutex
	store    *Store
	loader   *Loader
	lastUsed time.Time
}

// SessionManager implements the SessionService interface
type SessionManager struct {
	source treeRepo.PayloadSource
	cfg    SessionConfig
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

var _ treeSvc.SessionService = (*SessionManager)(nil)

// NewSessionManager creates a new session manager
func NewSessionManager(source treeRepo.PayloadSource, cfg SessionConfig, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		source:   source,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create loads the payload and opens a new session.
// No session is registered when the initial load fails.
func (m *SessionManager) Create(ctx context.Context) (*models.SessionView, error) {
	if err := m.reserve(); err != nil {
		return nil, err
	}

	sess := &session{
		id:    uuid.NewString(),
		store: NewStore(),
	}
	sess.loader = NewLoader(m.source, sess.store, &sess.mu, m.logger.With("session_id", sess.id))

	if err := sess.loader.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, fmt.Errorf("session limit %d reached: %w", m.cfg.MaxSessions, domain.ErrCapacity)
	}
	sess.lastUsed = m.now()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", sess.id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildView(sess.id, sess.store, sess.loader), nil
}

// reserve sweeps expired sessions when the registry is full
func (m *SessionManager) reserve() error {
	if m.cfg.MaxSessions <= 0 {
		return nil
	}

	m.mu.RLock()
	full := len(m.sessions) >= m.cfg.MaxSessions
	m.mu.RUnlock()
	if !full {
		return nil
	}

	m.Sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		return fmt.Errorf("session limit %d reached: %w", m.cfg.MaxSessions, domain.ErrCapacity)
	}
	return nil
}

// Get returns the current view of a session
func (m *SessionManager) Get(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.mutate(sessionID, func(*Store) {})
}

// Delete tears a session down
func (m *SessionManager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return sessionNotFound(sessionID)
	}
	delete(m.sessions, sessionID)

	m.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// Reload re-fetches the payload and rebuilds the session's tree
func (m *SessionManager) Reload(ctx context.Context, sessionID string) (*models.SessionView, error) {
	sess, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.loader.Load(ctx); err != nil {
		return nil, err
	}
	return m.mutate(sessionID, func(*Store) {})
}

// ToggleItem flips the selection of one item
func (m *SessionManager) ToggleItem(ctx context.Context, sessionID string, itemID int64) (*models.SessionView, error) {
	return m.mutate(sessionID, func(s *Store) { s.ToggleItem(itemID) })
}

// ToggleFolder selects or deselects all items under a folder
func (m *SessionManager) ToggleFolder(ctx context.Context, sessionID, folderID string) (*models.SessionView, error) {
	return m.mutate(sessionID, func(s *Store) { s.ToggleFolder(folderID) })
}

// SetExpanded changes the expand flag of one folder
func (m *SessionManager) SetExpanded(ctx context.Context, req *treeSvc.SetExpandedRequest) (*models.SessionView, error) {
	if err := validateSetExpanded(req); err != nil {
		return nil, err
	}
	return m.mutate(req.SessionID, func(s *Store) { s.SetExpanded(req.FolderID, *req.Expanded) })
}

// SelectAll selects every item
func (m *SessionManager) SelectAll(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.mutate(sessionID, func(s *Store) { s.SelectAll() })
}

// ClearAll empties the selection
func (m *SessionManager) ClearAll(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return m.mutate(sessionID, func(s *Store) { s.ClearAll() })
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed
func (m *SessionManager) Sweep() int {
	if m.cfg.TTL <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.cfg.TTL)
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info("expired sessions swept", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// Run sweeps expired sessions until ctx is cancelled
func (m *SessionManager) Run(ctx context.Context) error {
	if m.cfg.TTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(m.cfg.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) lookup(sessionID string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return sess, nil
}

// mutate runs fn against the session's store under its lock and returns the new view
func (m *SessionManager) mutate(sessionID string, fn func(*Store)) (*models.SessionView, error) {
	sess, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.store)
	sess.lastUsed = m.now()
	return buildView(sess.id, sess.store, sess.loader), nil
}

func validateSetExpanded(req *treeSvc.SetExpandedRequest) error {
	if req == nil {
		return &domain.ValidationError{Message: "request is required"}
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.SessionID, validation.Required),
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Expanded, validation.NotNil),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func sessionNotFound(sessionID string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("session %s not found", sessionID)}
}
