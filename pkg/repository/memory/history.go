package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// historyRepository is a bounded FIFO of badges. order holds IDs oldest first.
type historyRepository struct {
	mu       sync.RWMutex
	capacity int
	order    []model.BadgeID
	badges   map[model.BadgeID]*model.Badge
}

func newHistoryRepository(capacity int) *historyRepository {
	return &historyRepository{
		capacity: capacity,
		badges:   make(map[model.BadgeID]*model.Badge),
	}
}

func (r *historyRepository) Put(ctx context.Context, badge *model.Badge) (*model.Badge, error) {
	if badge == nil {
		return nil, goerr.Wrap(model.ErrInvalidInput, "badge is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := badge.Copy()
	stored.ID = model.NewBadgeID()
	stored.CreatedAt = time.Now().UTC()

	r.badges[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	for len(r.order) > r.capacity {
		evicted := r.order[0]
		r.order = slices.Delete(r.order, 0, 1)
		delete(r.badges, evicted)
	}

	return stored.Copy(), nil
}

func (r *historyRepository) Get(ctx context.Context, id model.BadgeID) (*model.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	badge, exists := r.badges[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "badge not found", goerr.V(model.BadgeIDKey, id))
	}

	return badge.Copy(), nil
}

func (r *historyRepository) Latest(ctx context.Context) (*model.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, goerr.Wrap(model.ErrNotFound, "badge history is empty")
	}

	return r.badges[r.order[len(r.order)-1]].Copy(), nil
}

func (r *historyRepository) List(ctx context.Context) ([]*model.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Badge, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.badges[id].Copy())
	}

	return result, nil
}

func (r *historyRepository) AppendMetadata(ctx context.Context, id model.BadgeID, fields map[string]any) (*model.Badge, error) {
	// Reject the whole update before touching the record
	for key := range fields {
		if model.IsReservedMetadataKey(key) {
			return nil, goerr.Wrap(model.ErrInvalidInput, "metadata key is reserved",
				goerr.V("key", key), goerr.V(model.BadgeIDKey, id))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	badge, exists := r.badges[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "badge not found", goerr.V(model.BadgeIDKey, id))
	}

	if len(fields) > 0 {
		// callers keep ownership of fields
		incoming := (&model.Badge{Metadata: fields}).Copy().Metadata
		if badge.Metadata == nil {
			badge.Metadata = make(map[string]any, len(incoming))
		}
		for k, v := range incoming {
			badge.Metadata[k] = v
		}
	}

	return badge.Copy(), nil
}

func (r *historyRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.badges = make(map[model.BadgeID]*model.Badge)
	return nil
}

func (r *historyRepository) Len(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
