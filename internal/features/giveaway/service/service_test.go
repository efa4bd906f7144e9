package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository/memory"
)

type harness struct {
	ctx      context.Context
	repo     *memory.Repository
	platform *fakePlatform
	sched    *fakeScheduler
	clock    *fakeClock
	svc      *giveawayService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ctx:      context.Background(),
		repo:     memory.NewRepository(),
		platform: newFakePlatform(),
		sched:    newFakeScheduler(),
		clock:    newFakeClock(),
	}
	h.svc = NewGiveawayService(h.repo, h.platform, h.sched, testConfig(), WithClock(h.clock.Now)).(*giveawayService)
	h.platform.addMember(organizerID, "host")
	return h
}

func (h *harness) create(t *testing.T, duration string, winners int) *models.Giveaway {
	t.Helper()
	g, err := h.svc.CreateGiveaway(h.ctx, CreateGiveawayRequest{
		OrganizerID:  organizerID,
		GuildID:      guildID,
		ChannelID:    channelID,
		Duration:     duration,
		Description:  "Nitro",
		WinnersCount: winners,
	})
	require.NoError(t, err)
	return g
}

func (h *harness) dm(content string, attachments ...string) {
	h.svc.HandleDirectMessage(h.ctx, models.DirectMessage{
		AuthorID:       organizerID,
		Content:        content,
		AttachmentURLs: attachments,
	})
}

func (h *harness) stored(t *testing.T, key models.EventKey) *models.Giveaway {
	t.Helper()
	g, err := h.repo.GetByKey(h.ctx, key)
	require.NoError(t, err)
	return g
}

func (h *harness) onlyTask(t *testing.T) string {
	t.Helper()
	tasks := h.sched.pending()
	require.Len(t, tasks, 1)
	return tasks[0]
}

func TestCreateGiveaway(t *testing.T) {
	h := newHarness(t)

	g := h.create(t, "1h", 2)

	assert.Equal(t, models.GiveawayKey(organizerID), g.Key)
	assert.Equal(t, "msg-1", g.MessageID)
	assert.Equal(t, int64(3600), g.Duration.Seconds)
	assert.Equal(t, models.GiveawayStatusAwaitingOutcome, g.Status)
	assert.Nil(t, g.ArrivedAt)
	assert.Equal(t, epoch, g.CreatedAt)

	require.Len(t, h.platform.prompts, 1)
	assert.Equal(t, "Select Giveaway Winners", h.platform.prompts[0].Title)

	require.Len(t, h.platform.announcements, 1)
	a := h.platform.announcements[0]
	assert.Equal(t, "1h", a.EndsIn)
	assert.True(t, a.EndsAt.IsZero())
	assert.Equal(t, 2, a.WinnersCount)
	assert.Equal(t, []string{"msg-1"}, h.platform.reacted)

	stored := h.stored(t, g.Key)
	assert.True(t, stored.AwaitingOutcome())
	assert.Empty(t, h.sched.pending(), "nothing is scheduled before the outcome arrives")
}

func TestCreateGiveawayValidation(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		winners  int
		desc     string
		code     apperrors.ErrorCode
	}{
		{"empty duration", "", 1, "Nitro", apperrors.ErrCodeInvalidDuration},
		{"zero minutes", "0m", 1, "Nitro", apperrors.ErrCodeInvalidDuration},
		{"too many hours", "101h", 1, "Nitro", apperrors.ErrCodeInvalidDuration},
		{"unknown unit", "2x", 1, "Nitro", apperrors.ErrCodeInvalidDuration},
		{"no winners", "1h", 0, "Nitro", apperrors.ErrCodeValidation},
		{"blank description", "1h", 1, "  ", apperrors.ErrCodeValidation},
		{"long description", "1h", 1, strings.Repeat("a", 4000), apperrors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.CreateGiveaway(h.ctx, CreateGiveawayRequest{
				OrganizerID:  organizerID,
				GuildID:      guildID,
				ChannelID:    channelID,
				Duration:     tt.duration,
				Description:  tt.desc,
				WinnersCount: tt.winners,
			})
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, h.platform.announcements)
			assert.Empty(t, h.platform.prompts)
		})
	}
}

func TestCreateGiveawayRejectsSecondPending(t *testing.T) {
	h := newHarness(t)
	h.create(t, "1h", 1)

	_, err := h.svc.CreateGiveaway(h.ctx, CreateGiveawayRequest{
		OrganizerID:  organizerID,
		GuildID:      guildID,
		ChannelID:    channelID,
		Duration:     "5m",
		Description:  "Other",
		WinnersCount: 1,
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
	assert.Len(t, h.platform.announcements, 1)
	assert.Equal(t, int64(3600), h.stored(t, models.GiveawayKey(organizerID)).Duration.Seconds)
}

func TestCreateGiveawayWithClosedDirectMessages(t *testing.T) {
	h := newHarness(t)
	h.platform.fail("SendPrompt", forbidden())

	_, err := h.svc.CreateGiveaway(h.ctx, CreateGiveawayRequest{
		OrganizerID:  organizerID,
		GuildID:      guildID,
		ChannelID:    channelID,
		Duration:     "1h",
		Description:  "Nitro",
		WinnersCount: 1,
	})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
	assert.Contains(t, appErr.Message, "enable DMs")
	assert.Empty(t, h.platform.announcements, "nothing is published when the organizer is unreachable")

	_, err = h.repo.GetByKey(h.ctx, models.GiveawayKey(organizerID))
	assert.Error(t, err)
}

func TestCreateGiveawayKeepsGoingWhenEntryReactionFails(t *testing.T) {
	h := newHarness(t)
	h.platform.fail("AddReaction", forbidden())

	g := h.create(t, "30m", 1)

	assert.Equal(t, int64(1800), g.Duration.Seconds)
	h.stored(t, g.Key)
}

func TestStartRerollWithoutHistory(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.StartReroll(h.ctx, RerollRequest{
		OrganizerID: organizerID,
		GuildID:     guildID,
		ChannelID:   channelID,
		Duration:    "10s",
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNoPriorGiveaway))
	assert.Empty(t, h.platform.prompts)
}

func TestStartRerollRejectsLongDelay(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.StartReroll(h.ctx, RerollRequest{
		OrganizerID: organizerID,
		GuildID:     guildID,
		ChannelID:   channelID,
		Duration:    "25h",
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidDuration))
}

func TestStartRerollCopiesHistory(t *testing.T) {
	h := newHarness(t)
	resolvedAt := epoch.Add(-time.Hour)
	require.NoError(t, h.repo.AddToHistory(h.ctx, &models.Giveaway{
		Key:             models.GiveawayKey("999"),
		OrganizerID:     "999",
		GuildID:         guildID,
		ChannelID:       channelID,
		MessageID:       "msg-old",
		Description:     "Nitro",
		WinnersCount:    2,
		Participants:    []string{"1", "2", "3"},
		ImageURL:        "https://cdn.example/prize.png",
		OriginalWinners: []string{"1", "2"},
		ResolvedAt:      &resolvedAt,
		Status:          models.GiveawayStatusResolved,
	}))

	g, err := h.svc.StartReroll(h.ctx, RerollRequest{
		OrganizerID: organizerID,
		GuildID:     guildID,
		ChannelID:   channelID,
		Duration:    "30s",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RerollKey(organizerID), g.Key)
	assert.True(t, g.IsReroll)
	assert.Equal(t, 1, g.WinnersCount)
	assert.Equal(t, "msg-old", g.MessageID)
	assert.Equal(t, []string{"1", "2", "3"}, g.Participants)
	assert.Equal(t, []string{"1", "2"}, g.OriginalWinners)
	assert.Equal(t, "https://cdn.example/prize.png", g.ImageURL)
	assert.Equal(t, int64(30), g.Duration.Seconds)

	require.Len(t, h.platform.prompts, 1)
	assert.Equal(t, "Select Reroll Winner", h.platform.prompts[0].Title)
	assert.Empty(t, h.platform.announcements, "a reroll reuses the original announcement")

	_, err = h.svc.StartReroll(h.ctx, RerollRequest{
		OrganizerID: organizerID,
		GuildID:     guildID,
		ChannelID:   channelID,
		Duration:    "30s",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
}
