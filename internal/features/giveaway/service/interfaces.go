package service

import (
	"context"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
)

// GiveawayService defines the giveaway and reroll lifecycle operations
type GiveawayService interface {
	CreateGiveaway(ctx context.Context, req CreateGiveawayRequest) (*models.Giveaway, error)
	StartReroll(ctx context.Context, req RerollRequest) (*models.Giveaway, error)
	// HandleDirectMessage feeds an organizer's private reply to the pending outcome collection.
	HandleDirectMessage(ctx context.Context, msg models.DirectMessage)
	Resolve(ctx context.Context, key models.EventKey)
	ResolveReroll(ctx context.Context, key models.EventKey)
}

// CountdownServiceInterface defines the periodic countdown refresher
type CountdownServiceInterface interface {
	Start()
	Stop()
	Tick(ctx context.Context) int
}

// Platform is the chat platform as seen by the lifecycle. Implementations report
// NOT_FOUND, FORBIDDEN and PLATFORM_ERROR AppErrors.
type Platform interface {
	SendPrompt(ctx context.Context, userID string, prompt models.Prompt) error
	SendDirect(ctx context.Context, userID, content string) error

	SendAnnouncement(ctx context.Context, channelID string, a models.Announcement) (messageID string, err error)
	EditAnnouncement(ctx context.Context, channelID, messageID string, a models.Announcement) error
	CheckMessage(ctx context.Context, channelID, messageID string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	ClearReaction(ctx context.Context, channelID, messageID, emoji string) error
	// Reactors lists every user who reacted with emoji, bots included.
	Reactors(ctx context.Context, channelID, messageID, emoji string) ([]models.Member, error)

	Reply(ctx context.Context, channelID, messageID, content string) error
	// ReplyToLatest replies to the most recent message of the channel.
	ReplyToLatest(ctx context.Context, channelID, content string) error
	Send(ctx context.Context, channelID, content string) error

	// ResolveMember returns nil without error when userID is not a member of guildID.
	ResolveMember(ctx context.Context, guildID, userID string) (*models.Member, error)
}

// Scheduler runs one-shot delayed tasks identified by the returned id.
type Scheduler interface {
	Schedule(delay time.Duration, fn func(ctx context.Context)) string
	Cancel(id string) bool
}

// CreateGiveawayRequest is the input of the giveaway command.
type CreateGiveawayRequest struct {
	OrganizerID  string
	GuildID      string
	ChannelID    string
	Duration     string
	Description  string
	WinnersCount int
	ImageURL     string
}

// RerollRequest is the input of the reroll command.
type RerollRequest struct {
	OrganizerID string
	GuildID     string
	ChannelID   string
	Duration    string
}
