package out

import (
	"context"

	"timeanchor/internal/modules/session/domain"
)

// SnapshotStore persists the whole engine state as one document. Load returns
// apperrors.ErrNotFound when nothing has been saved.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
	Clear(ctx context.Context) error
}

// Journal keeps a human-readable trail of ended sessions.
type Journal interface {
	Record(ctx context.Context, summary domain.Summary, day domain.DailyRecord) (string, error)
}
