package service

import (
	"context"
	"sync"
	"time"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

// Upper bound for a single announcement edit, so one slow channel cannot stall a tick.
const countdownEditTimeout = 5 * time.Second

var _ CountdownServiceInterface = (*CountdownService)(nil)

// CountdownService periodically republishes the time left on armed giveaways.
// Updates are best effort; the resolver does not depend on them.
type CountdownService struct {
	ctx      context.Context
	cancel   context.CancelFunc
	repo     repository.GiveawayRepository
	platform Platform
	interval time.Duration
	emoji    string
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewCountdownService(repo repository.GiveawayRepository, platform Platform, cfg *config.Config, opts ...Option) *CountdownService {
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	return &CountdownService{
		ctx:      ctx,
		cancel:   cancel,
		repo:     repo,
		platform: platform,
		interval: cfg.Giveaway.CountdownInterval,
		emoji:    cfg.Giveaway.EntryEmoji,
		now:      o.now,
	}
}

func (s *CountdownService) Start() {
	logger.Info().Dur("interval", s.interval).Msg("Starting countdown service")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Tick(s.ctx)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *CountdownService) Stop() {
	logger.Info().Msg("Stopping countdown service")
	s.cancel()
	s.wg.Wait()
}

// Tick refreshes every armed giveaway that has not reached its end and returns
// the number of announcements updated.
func (s *CountdownService) Tick(ctx context.Context) int {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list giveaways for countdown")
		return 0
	}

	updated := 0
	for _, g := range giveaways {
		if ctx.Err() != nil {
			break
		}
		if g.IsReroll || !g.Armed() {
			continue
		}
		now := s.now()
		// The resolver is about to fire; leave the message to it.
		if !g.EndsAt().After(now) {
			continue
		}
		if s.refresh(ctx, g, now) {
			updated++
		}
	}
	return updated
}

func (s *CountdownService) refresh(ctx context.Context, g *models.Giveaway, now time.Time) bool {
	ctx, cancel := context.WithTimeout(ctx, countdownEditTimeout)
	defer cancel()

	a := models.CountdownAnnouncement(g, s.emoji, now)
	if err := s.platform.EditAnnouncement(ctx, g.ChannelID, g.MessageID, a); err != nil {
		logger.Debug().
			Err(err).
			Str("giveaway", string(g.Key)).
			Msg("Countdown update skipped")
		return false
	}
	return true
}
