package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

type HistoryUseCase struct {
	repo interfaces.Repository
}

func NewHistoryUseCase(repo interfaces.Repository) *HistoryUseCase {
	return &HistoryUseCase{
		repo: repo,
	}
}

func (uc *HistoryUseCase) List(ctx context.Context) ([]*model.Badge, error) {
	badges, err := uc.repo.History().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list badges")
	}
	return badges, nil
}

func (uc *HistoryUseCase) Get(ctx context.Context, id model.BadgeID) (*model.Badge, error) {
	badge, err := uc.repo.History().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get badge", goerr.V(model.BadgeIDKey, id))
	}
	return badge, nil
}

// AppendMetadata merges fields into the metadata of a stored badge.
// Schema fields of the badge cannot be overwritten this way.
func (uc *HistoryUseCase) AppendMetadata(ctx context.Context, id model.BadgeID, fields map[string]any) (*model.Badge, error) {
	if len(fields) == 0 {
		return nil, goerr.Wrap(model.ErrInvalidInput, "no metadata fields given", goerr.V(model.BadgeIDKey, id))
	}

	badge, err := uc.repo.History().AppendMetadata(ctx, id, fields)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append metadata", goerr.V(model.BadgeIDKey, id))
	}
	return badge, nil
}

func (uc *HistoryUseCase) Clear(ctx context.Context) error {
	if err := uc.repo.History().Clear(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear badge history")
	}
	return nil
}
