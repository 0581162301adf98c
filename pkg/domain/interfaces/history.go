package interfaces

import (
	"context"

	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// HistoryRepository keeps recently generated badges
type HistoryRepository interface {
	// Put stores badge under a fresh ID and returns the stored copy.
	// The oldest badge is evicted when capacity is exceeded.
	Put(ctx context.Context, badge *model.Badge) (*model.Badge, error)

	// Get retrieves a badge by ID
	Get(ctx context.Context, id model.BadgeID) (*model.Badge, error)

	// Latest returns the most recently stored badge
	Latest(ctx context.Context) (*model.Badge, error)

	// List returns all badges in insertion order
	List(ctx context.Context) ([]*model.Badge, error)

	// AppendMetadata merges fields into the badge metadata
	AppendMetadata(ctx context.Context, id model.BadgeID, fields map[string]any) (*model.Badge, error)

	// Clear removes all badges
	Clear(ctx context.Context) error

	// Len returns the number of stored badges
	Len(ctx context.Context) int
}
