package usecase

import (
	"github.com/secmon-lab/badgeforge/pkg/domain/interfaces"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"golang.org/x/sync/semaphore"
)

type UseCases struct {
	repo           interfaces.Repository
	generator      interfaces.Generator
	icons          interfaces.IconSuggester
	options        model.GenerationOptions
	rnd            RandSource
	maxConcurrency int64
	maxRetries     int
	iconTopK       int

	Badge   *BadgeUseCase
	History *HistoryUseCase
	Icon    *IconUseCase
}

type Option func(*UseCases)

func WithGenerator(generator interfaces.Generator) Option {
	return func(uc *UseCases) {
		uc.generator = generator
	}
}

func WithIconSuggester(icons interfaces.IconSuggester) Option {
	return func(uc *UseCases) {
		uc.icons = icons
	}
}

func WithGenerationOptions(opts model.GenerationOptions) Option {
	return func(uc *UseCases) {
		uc.options = opts
	}
}

// WithRandSource fixes the source used to fill in unspecified parameters
func WithRandSource(rnd RandSource) Option {
	return func(uc *UseCases) {
		uc.rnd = rnd
	}
}

// WithMaxConcurrency caps concurrent inference calls. n <= 0 means no limit.
func WithMaxConcurrency(n int) Option {
	return func(uc *UseCases) {
		uc.maxConcurrency = int64(n)
	}
}

func WithMaxRetries(n int) Option {
	return func(uc *UseCases) {
		if n >= 0 {
			uc.maxRetries = n
		}
	}
}

func WithIconTopK(k int) Option {
	return func(uc *UseCases) {
		if k > 0 {
			uc.iconTopK = k
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		maxRetries: DefaultMaxRetries,
		iconTopK:   DefaultIconTopK,
	}

	for _, opt := range opts {
		opt(uc)
	}

	var sem *semaphore.Weighted
	if uc.maxConcurrency > 0 {
		sem = semaphore.NewWeighted(uc.maxConcurrency)
	}

	uc.Badge = &BadgeUseCase{
		repo:       repo,
		generator:  uc.generator,
		resolver:   NewParameterResolver(uc.rnd),
		icons:      uc.icons,
		options:    uc.options,
		sem:        sem,
		maxRetries: uc.maxRetries,
		iconTopK:   uc.iconTopK,
	}
	uc.History = NewHistoryUseCase(repo)
	uc.Icon = NewIconUseCase(uc.icons, uc.iconTopK)

	return uc
}
