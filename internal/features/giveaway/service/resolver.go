package service

import (
	"context"
	"fmt"
	"slices"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/utils/random"
)

// Resolve ends an armed giveaway: it closes entries, announces the winners and
// moves the record to history. Unknown, cancelled or unarmed keys are a no-op.
// The record never outlives this call, whatever the platform does.
func (s *giveawayService) Resolve(ctx context.Context, key models.EventKey) {
	g, err := s.repo.GetByKey(ctx, key)
	if err != nil || g.IsReroll || !g.Armed() {
		return
	}
	defer s.remove(ctx, key)

	err = s.resolveGiveaway(ctx, g)
	if err == nil {
		return
	}

	switch {
	case apperrors.IsNotFound(err):
		if rerr := s.platform.ReplyToLatest(ctx, g.ChannelID, msgGiveawayMessageDeleted); rerr != nil {
			s.notify(ctx, g, msgGiveawayMessageDeleted)
		}
	case apperrors.IsForbidden(err):
		s.notify(ctx, g, msgNoPermission)
	}
	logger.Error().Err(err).Str("giveaway", string(key)).Msg("Giveaway resolution failed")
}

func (s *giveawayService) resolveGiveaway(ctx context.Context, g *models.Giveaway) error {
	reactors, err := s.platform.Reactors(ctx, g.ChannelID, g.MessageID, s.entryEmoji)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(reactors))
	participants := make([]string, 0, len(reactors))
	total := 0
	for _, r := range reactors {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		total++
		if r.Bot || r.ID == g.OrganizerID {
			continue
		}
		participants = append(participants, r.ID)
	}

	if err := s.platform.ClearReaction(ctx, g.ChannelID, g.MessageID, s.entryEmoji); err != nil {
		logger.Warn().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to close entries")
	}

	now := s.now()
	if err := s.platform.EditAnnouncement(ctx, g.ChannelID, g.MessageID, models.EndedAnnouncement(g, total, now)); err != nil {
		return err
	}

	var winners []string
	for _, id := range g.WinnerIDs {
		if m := s.resolveMember(ctx, g.GuildID, id); m != nil {
			winners = append(winners, m.ID)
		}
	}

	var announcement string
	switch {
	case len(winners) > 0:
		for _, id := range winners {
			if !slices.Contains(participants, id) {
				participants = append(participants, id)
			}
		}
		// Presentation only, the winners are already decided.
		if err := random.Shuffle(participants); err != nil {
			logger.Warn().Err(err).Msg("Failed to shuffle participants")
		}
		announcement = fmt.Sprintf(msgCongratulations, models.MentionList(winners), g.Description)
	case len(participants) > 0:
		winners, err = random.Sample(participants, g.WinnersCount)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "draw fallback winners")
		}
		announcement = fmt.Sprintf(msgCongratulations, models.MentionList(winners), g.Description)
	default:
		announcement = msgNoEntries
	}

	if err := s.platform.Reply(ctx, g.ChannelID, g.MessageID, announcement); err != nil {
		return err
	}

	g.Participants = participants
	g.ResolvedAt = &now
	g.Status = models.GiveawayStatusResolved
	if err := s.repo.AddToHistory(ctx, g); err != nil {
		logger.Error().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to record giveaway history")
	}

	logger.Info().
		Str("giveaway", string(g.Key)).
		Int("entries", total).
		Int("participants", len(participants)).
		Strs("winners", winners).
		Msg("Giveaway resolved")
	return nil
}

// ResolveReroll announces a single reroll winner over the carried-over participant
// pool. Rerolls never enter history.
func (s *giveawayService) ResolveReroll(ctx context.Context, key models.EventKey) {
	g, err := s.repo.GetByKey(ctx, key)
	if err != nil || !g.IsReroll || !g.Armed() {
		return
	}
	defer s.remove(ctx, key)

	err = s.resolveReroll(ctx, g)
	if err == nil {
		return
	}

	switch {
	case apperrors.IsNotFound(err):
		s.notify(ctx, g, msgRerollMessageDeleted)
	case apperrors.IsForbidden(err):
		s.notify(ctx, g, msgNoPermission)
	}
	logger.Error().Err(err).Str("giveaway", string(key)).Msg("Reroll resolution failed")
}

func (s *giveawayService) resolveReroll(ctx context.Context, g *models.Giveaway) error {
	if err := s.platform.CheckMessage(ctx, g.ChannelID, g.MessageID); err != nil {
		return err
	}

	pool := append([]string(nil), g.Participants...)
	if err := random.Shuffle(pool); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "shuffle reroll pool")
	}

	var winner string
	if m := s.resolveMember(ctx, g.GuildID, g.WinnerIDs[0]); m != nil {
		winner = m.ID
	} else {
		for _, id := range pool {
			if m := s.resolveMember(ctx, g.GuildID, id); m != nil {
				winner = m.ID
				break
			}
		}
	}

	announcement := msgNoRerollParticipants
	if winner != "" {
		announcement = fmt.Sprintf(msgRerollCongratulations, models.Mention(winner), g.Description)
	}
	if err := s.platform.Reply(ctx, g.ChannelID, g.MessageID, announcement); err != nil {
		return err
	}

	logger.Info().
		Str("giveaway", string(g.Key)).
		Str("winner", winner).
		Int("pool", len(pool)).
		Msg("Reroll resolved")
	return nil
}

// remove runs on every terminal path, including a cancelled task context.
func (s *giveawayService) remove(ctx context.Context, key models.EventKey) {
	if err := s.repo.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Error().Err(err).Str("giveaway", string(key)).Msg("Failed to remove giveaway")
	}
}

func (s *giveawayService) notify(ctx context.Context, g *models.Giveaway, content string) {
	if err := s.platform.Send(ctx, g.ChannelID, content); err != nil {
		logger.Warn().Err(err).Str("giveaway", string(g.Key)).Msg("Failed to post notice")
	}
}
