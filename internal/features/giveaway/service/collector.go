package service

import (
	"context"
	"fmt"
	"strings"

	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
)

// HandleDirectMessage routes a private reply to the organizer's giveaway, or to their
// reroll when no giveaway is waiting for an outcome. Replies from users with nothing
// pending are ignored.
func (s *giveawayService) HandleDirectMessage(ctx context.Context, msg models.DirectMessage) {
	s.collectMu.Lock()
	defer s.collectMu.Unlock()

	if g, err := s.repo.GetByKey(ctx, models.GiveawayKey(msg.AuthorID)); err == nil && g.AwaitingOutcome() {
		s.collectGiveawayOutcome(ctx, g, msg)
		return
	}
	if g, err := s.repo.GetByKey(ctx, models.RerollKey(msg.AuthorID)); err == nil && g.AwaitingOutcome() {
		s.collectRerollOutcome(ctx, g, msg)
		return
	}
}

func (s *giveawayService) isCancel(content string) bool {
	return strings.EqualFold(strings.TrimSpace(content), s.cancelKeyword)
}

func (s *giveawayService) collectGiveawayOutcome(ctx context.Context, g *models.Giveaway, msg models.DirectMessage) {
	if s.isCancel(msg.Content) {
		if err := s.platform.DeleteMessage(ctx, g.ChannelID, g.MessageID); err != nil {
			logger.Warn().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to delete cancelled announcement")
		}
		if err := s.platform.Send(ctx, g.ChannelID, msgGiveawayCancelled); err != nil {
			logger.Warn().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to post cancellation notice")
		}
		s.discard(ctx, g)
		s.dm(ctx, msg.AuthorID, msgGiveawayCancelled)
		logger.Info().Str("giveaway", string(g.Key)).Msg("Giveaway cancelled by organizer")
		return
	}

	if len(msg.AttachmentURLs) > 0 {
		g.ImageURL = msg.AttachmentURLs[0]
		if err := s.repo.Put(ctx, g); err != nil {
			logger.Error().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to store giveaway image")
			return
		}
		s.dm(ctx, msg.AuthorID, msgImageReceived)
		return
	}

	ids, err := models.ParseWinnerIDs(msg.Content)
	if err != nil || len(ids) == 0 {
		s.dm(ctx, msg.AuthorID, msgInvalidWinnerIDs)
		return
	}

	var winners []*models.Member
	for _, id := range ids {
		m := s.resolveMember(ctx, g.GuildID, id)
		if m == nil {
			s.dm(ctx, msg.AuthorID, errUnresolvableIdentity(id).Message)
			continue
		}
		winners = append(winners, m)
	}

	if len(winners) < g.WinnersCount {
		s.dm(ctx, msg.AuthorID, errInsufficientWinners(g.WinnersCount, len(winners)).Message)
		return
	}
	winners = winners[:g.WinnersCount]

	winnerIDs := make([]string, len(winners))
	names := make([]string, len(winners))
	for i, m := range winners {
		winnerIDs[i] = m.ID
		names[i] = m.DisplayName
	}

	now := s.now()
	g.Arm(winnerIDs, now)
	key := g.Key
	g.TaskID = s.scheduler.Schedule(g.Duration.Std(), func(ctx context.Context) {
		s.Resolve(ctx, key)
	})
	if err := s.repo.Put(ctx, g); err != nil {
		s.scheduler.Cancel(g.TaskID)
		logger.Error().Err(err).Str("giveaway", string(key)).Msg("Failed to arm giveaway")
		return
	}

	if err := s.platform.EditAnnouncement(ctx, g.ChannelID, g.MessageID, models.CountdownAnnouncement(g, s.entryEmoji, now)); err != nil {
		logger.Warn().Err(err).Str("giveaway", string(key)).Msg("Failed to start announcement countdown")
	}

	s.dm(ctx, msg.AuthorID, fmt.Sprintf(msgWinnersSet, strings.Join(names, ", ")))

	logger.Info().
		Str("giveaway", string(key)).
		Strs("winners", winnerIDs).
		Time("ends_at", g.EndsAt()).
		Msg("Giveaway armed")
}

func (s *giveawayService) collectRerollOutcome(ctx context.Context, g *models.Giveaway, msg models.DirectMessage) {
	if s.isCancel(msg.Content) {
		s.discard(ctx, g)
		s.dm(ctx, msg.AuthorID, msgRerollCancelled)
		logger.Info().Str("giveaway", string(g.Key)).Msg("Reroll cancelled by organizer")
		return
	}

	id, err := models.ParseUserID(msg.Content)
	if err != nil {
		s.dm(ctx, msg.AuthorID, msgInvalidRerollID)
		return
	}

	m := s.resolveMember(ctx, g.GuildID, id)
	if m == nil {
		s.dm(ctx, msg.AuthorID, msgUnknownRerollWinner)
		return
	}

	g.Arm([]string{m.ID}, s.now())
	key := g.Key
	g.TaskID = s.scheduler.Schedule(g.Duration.Std(), func(ctx context.Context) {
		s.ResolveReroll(ctx, key)
	})
	if err := s.repo.Put(ctx, g); err != nil {
		s.scheduler.Cancel(g.TaskID)
		logger.Error().Err(err).Str("giveaway", string(key)).Msg("Failed to arm reroll")
		return
	}

	s.dm(ctx, msg.AuthorID, fmt.Sprintf(msgRerollWinnerSet, m.DisplayName, g.Duration.Seconds))

	logger.Info().
		Str("giveaway", string(key)).
		Str("winner", m.ID).
		Time("ends_at", g.EndsAt()).
		Msg("Reroll armed")
}

// discard removes a pending record and its scheduled resolution.
func (s *giveawayService) discard(ctx context.Context, g *models.Giveaway) {
	if g.TaskID != "" {
		s.scheduler.Cancel(g.TaskID)
	}
	if err := s.repo.Delete(ctx, g.Key); err != nil {
		logger.Error().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to remove giveaway")
	}
}
