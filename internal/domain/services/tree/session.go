package tree

import (
	"context"

	models "treeview/internal/domain/models/tree"
)

// SessionService manages selection sessions, one Store per session
type SessionService interface {
	// Create loads the payload, builds the tree and opens a new session
	Create(ctx context.Context) (*models.SessionView, error)

	// Get returns the current view of a session
	Get(ctx context.Context, sessionID string) (*models.SessionView, error)

	// Delete tears a session down
	Delete(ctx context.Context, sessionID string) error

	// Reload re-fetches and rebuilds the tree; the selection is cleared.
	// On failure the previous snapshot is kept and the error returned.
	Reload(ctx context.Context, sessionID string) (*models.SessionView, error)

	// ToggleItem flips the selection of one item
	ToggleItem(ctx context.Context, sessionID string, itemID int64) (*models.SessionView, error)

	// ToggleFolder selects or deselects every item under a folder
	ToggleFolder(ctx context.Context, sessionID, folderID string) (*models.SessionView, error)

	// SetExpanded changes the expand flag of one folder
	SetExpanded(ctx context.Context, req *SetExpandedRequest) (*models.SessionView, error)

	// SelectAll selects every item in the tree
	SelectAll(ctx context.Context, sessionID string) (*models.SessionView, error)

	// ClearAll empties the selection
	ClearAll(ctx context.Context, sessionID string) (*models.SessionView, error)
}

// SetExpandedRequest is the body of PATCH /api/sessions/{id}/folders/{folderId}
type SetExpandedRequest struct {
	SessionID string `json:"-"`
	FolderID  string `json:"-"`
	Expanded  *bool  `json:"expanded"`
}
