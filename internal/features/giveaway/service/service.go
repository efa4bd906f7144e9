package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"giveaway-bot/internal/common/config"
	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/common/validation"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

// Option customizes a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type giveawayService struct {
	repo      repository.GiveawayRepository
	platform  Platform
	scheduler Scheduler
	now       func() time.Time

	entryEmoji    string
	cancelKeyword string

	// serializes organizer replies; the platform delivers events concurrently
	collectMu sync.Mutex
}

func NewGiveawayService(
	repo repository.GiveawayRepository,
	platform Platform,
	scheduler Scheduler,
	cfg *config.Config,
	opts ...Option,
) GiveawayService {
	o := buildOptions(opts)
	return &giveawayService{
		repo:          repo,
		platform:      platform,
		scheduler:     scheduler,
		now:           o.now,
		entryEmoji:    cfg.Giveaway.EntryEmoji,
		cancelKeyword: cfg.Giveaway.CancelKeyword,
	}
}

func (s *giveawayService) CreateGiveaway(ctx context.Context, req CreateGiveawayRequest) (*models.Giveaway, error) {
	duration, err := models.ParseDuration(req.Duration, models.GiveawayDurationLimits)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveInt(int64(req.WinnersCount), "winners"); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := validation.ValidateImageURL(req.ImageURL); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)

	key := models.GiveawayKey(req.OrganizerID)
	if _, err := s.repo.GetByKey(ctx, key); err == nil {
		return nil, apperrors.NewConflictError("giveaway", "You already have a giveaway in progress. Finish or cancel it first.")
	}

	g := &models.Giveaway{
		Key:          key,
		OrganizerID:  req.OrganizerID,
		GuildID:      req.GuildID,
		ChannelID:    req.ChannelID,
		Description:  description,
		WinnersCount: req.WinnersCount,
		Duration:     duration,
		ImageURL:     req.ImageURL,
		CreatedAt:    s.now(),
		Status:       models.GiveawayStatusAwaitingOutcome,
	}

	// The organizer must be reachable before anything is published.
	if err := s.platform.SendPrompt(ctx, req.OrganizerID, models.GiveawayPrompt(g, s.cancelKeyword)); err != nil {
		if apperrors.IsForbidden(err) {
			return nil, errDirectMessagesClosed(err)
		}
		return nil, err
	}

	messageID, err := s.platform.SendAnnouncement(ctx, req.ChannelID, models.WaitingAnnouncement(g, s.entryEmoji))
	if err != nil {
		return nil, err
	}
	g.MessageID = messageID

	if err := s.platform.AddReaction(ctx, g.ChannelID, g.MessageID, s.entryEmoji); err != nil {
		logger.Warn().Err(err).Str("giveaway", string(key)).Msg("Failed to add entry reaction")
	}

	if err := s.repo.Create(ctx, g); err != nil {
		// lost a race against a concurrent create by the same organizer
		if derr := s.platform.DeleteMessage(ctx, g.ChannelID, g.MessageID); derr != nil {
			logger.Warn().Err(derr).Str("giveaway", string(key)).Msg("Failed to retract duplicate announcement")
		}
		return nil, err
	}

	logger.Info().
		Str("giveaway", string(key)).
		Str("channel", g.ChannelID).
		Str("message", g.MessageID).
		Str("duration", duration.String()).
		Int("winners", g.WinnersCount).
		Msg("Giveaway created, awaiting outcome")

	return g, nil
}

func (s *giveawayService) StartReroll(ctx context.Context, req RerollRequest) (*models.Giveaway, error) {
	duration, err := models.ParseDuration(req.Duration, models.RerollDurationLimits)
	if err != nil {
		return nil, err
	}

	prior, err := s.repo.GetLatestInChannel(ctx, req.ChannelID)
	if errors.Is(err, repository.ErrGiveawayNotFound) {
		return nil, errNoPriorGiveaway(req.ChannelID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "look up giveaway history")
	}

	key := models.RerollKey(req.OrganizerID)
	if _, err := s.repo.GetByKey(ctx, key); err == nil {
		return nil, apperrors.NewConflictError("reroll", "You already have a reroll in progress. Finish or cancel it first.")
	}

	g := &models.Giveaway{
		Key:             key,
		OrganizerID:     req.OrganizerID,
		GuildID:         req.GuildID,
		ChannelID:       req.ChannelID,
		MessageID:       prior.MessageID,
		Description:     prior.Description,
		WinnersCount:    1,
		Duration:        duration,
		Participants:    append([]string(nil), prior.Participants...),
		ImageURL:        prior.ImageURL,
		CreatedAt:       s.now(),
		IsReroll:        true,
		OriginalWinners: append([]string(nil), prior.OriginalWinners...),
		Status:          models.GiveawayStatusAwaitingOutcome,
	}

	if err := s.platform.SendPrompt(ctx, req.OrganizerID, models.RerollPrompt(g, s.cancelKeyword)); err != nil {
		if apperrors.IsForbidden(err) {
			return nil, errDirectMessagesClosed(err)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	logger.Info().
		Str("giveaway", string(key)).
		Str("channel", g.ChannelID).
		Str("message", g.MessageID).
		Str("duration", duration.String()).
		Int("pool", len(g.Participants)).
		Msg("Reroll created, awaiting outcome")

	return g, nil
}

func (s *giveawayService) dm(ctx context.Context, userID, content string) {
	if err := s.platform.SendDirect(ctx, userID, content); err != nil {
		logger.Warn().Err(err).Str("user", userID).Msg("Failed to send direct message")
	}
}

// resolveMember treats lookup failures like absent members.
func (s *giveawayService) resolveMember(ctx context.Context, guildID, userID string) *models.Member {
	m, err := s.platform.ResolveMember(ctx, guildID, userID)
	if err != nil {
		logger.Warn().Err(err).Str("guild", guildID).Str("user", userID).Msg("Failed to resolve member")
		return nil
	}
	return m
}
