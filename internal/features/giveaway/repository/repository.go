package repository

import (
	"context"
	"errors"

	"giveaway-bot/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
)

// GiveawayRepository is the single source of truth for in-flight giveaways and rerolls
// and for the most recently resolved giveaway of each organizer.
type GiveawayRepository interface {
	// Create inserts g unless its key is already taken.
	Create(ctx context.Context, giveaway *models.Giveaway) error
	// Put inserts or overwrites g unconditionally.
	Put(ctx context.Context, giveaway *models.Giveaway) error
	GetByKey(ctx context.Context, key models.EventKey) (*models.Giveaway, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key models.EventKey) error
	// List returns a snapshot safe to iterate while the store changes.
	List(ctx context.Context) ([]*models.Giveaway, error)

	// AddToHistory stores a resolved giveaway under its organizer, replacing older history.
	AddToHistory(ctx context.Context, giveaway *models.Giveaway) error
	GetHistory(ctx context.Context, organizerID string) (*models.Giveaway, error)
	// GetLatestInChannel returns the most recently resolved giveaway of the channel.
	GetLatestInChannel(ctx context.Context, channelID string) (*models.Giveaway, error)
}
