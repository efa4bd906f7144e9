package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

// Repository keeps pending events and history in process memory. Nothing survives a restart.
type Repository struct {
	mu      sync.RWMutex
	pending map[models.EventKey]*models.Giveaway
	history map[string]*models.Giveaway
}

func NewRepository() *Repository {
	return &Repository{
		pending: make(map[models.EventKey]*models.Giveaway),
		history: make(map[string]*models.Giveaway),
	}
}

var _ repository.GiveawayRepository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	if giveaway == nil || giveaway.Key == "" {
		return apperrors.NewValidationError("giveaway", "key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[giveaway.Key]; exists {
		what := "giveaway"
		if giveaway.IsReroll {
			what = "reroll"
		}
		return apperrors.NewConflictError(what, fmt.Sprintf("You already have a %s in progress. Finish or cancel it first.", what)).
			WithDetail("key", string(giveaway.Key))
	}
	r.pending[giveaway.Key] = giveaway.Clone()
	return nil
}

func (r *Repository) Put(ctx context.Context, giveaway *models.Giveaway) error {
	if giveaway == nil || giveaway.Key == "" {
		return apperrors.NewValidationError("giveaway", "key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[giveaway.Key] = giveaway.Clone()
	return nil
}

func (r *Repository) GetByKey(ctx context.Context, key models.EventKey) (*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.pending[key]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	return g.Clone(), nil
}

func (r *Repository) Delete(ctx context.Context, key models.EventKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, key)
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Giveaway, 0, len(r.pending))
	for _, g := range r.pending {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *Repository) AddToHistory(ctx context.Context, giveaway *models.Giveaway) error {
	if giveaway == nil || giveaway.OrganizerID == "" {
		return apperrors.NewValidationError("giveaway", "organizer is required")
	}
	if giveaway.IsReroll {
		return apperrors.NewValidationError("giveaway", "rerolls are never kept in history")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.history[giveaway.OrganizerID] = giveaway.Clone()
	return nil
}

func (r *Repository) GetHistory(ctx context.Context, organizerID string) (*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.history[organizerID]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	return g.Clone(), nil
}

func (r *Repository) GetLatestInChannel(ctx context.Context, channelID string) (*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Giveaway
	for _, g := range r.history {
		if g.ChannelID != channelID {
			continue
		}
		if latest == nil || resolvedAfter(g, latest) {
			latest = g
		}
	}
	if latest == nil {
		return nil, repository.ErrGiveawayNotFound
	}
	return latest.Clone(), nil
}

func resolvedAfter(a, b *models.Giveaway) bool {
	switch {
	case a.ResolvedAt == nil:
		return false
	case b.ResolvedAt == nil:
		return true
	case a.ResolvedAt.Equal(*b.ResolvedAt):
		// stable choice between ties
		return a.OrganizerID < b.OrganizerID
	default:
		return a.ResolvedAt.After(*b.ResolvedAt)
	}
}
