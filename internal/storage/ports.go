package storage

import (
	"context"

	"finbot/internal/core"
)

// SnapshotStore persists the whole ledger document at once.
//
// Load returns an error matching core.ErrNotFound when nothing has been saved
// yet, and a *core.PersistenceError when stored content cannot be read back.
type SnapshotStore interface {
	Save(ctx context.Context, s core.Snapshot) error
	Load(ctx context.Context) (core.Snapshot, error)
	// Location describes where the document lives, for log and user messages.
	Location() string
}
