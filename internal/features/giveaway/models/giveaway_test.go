package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "giveaway-bot/internal/common/errors"
)

func testGiveaway(t *testing.T) *Giveaway {
	t.Helper()
	d, err := ParseDuration("1h", GiveawayDurationLimits)
	require.NoError(t, err)
	return &Giveaway{
		Key:          GiveawayKey("100"),
		OrganizerID:  "100",
		ChannelID:    "200",
		MessageID:    "300",
		Description:  "Nitro",
		WinnersCount: 2,
		Duration:     d,
		Status:       GiveawayStatusAwaitingOutcome,
	}
}

func TestKeysDoNotCollide(t *testing.T) {
	assert.Equal(t, EventKey("100"), GiveawayKey("100"))
	assert.Equal(t, EventKey("reroll:100"), RerollKey("100"))
	assert.NotEqual(t, GiveawayKey("100"), RerollKey("100"))
}

func TestArmStartsCountdown(t *testing.T) {
	g := testGiveaway(t)
	assert.False(t, g.Armed())
	assert.True(t, g.AwaitingOutcome())
	assert.True(t, g.EndsAt().IsZero())
	assert.Zero(t, g.Remaining(time.Now()))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	winners := []string{"1", "2"}
	g.Arm(winners, now)
	winners[0] = "mutated"

	assert.True(t, g.Armed())
	assert.False(t, g.AwaitingOutcome())
	assert.Equal(t, GiveawayStatusArmed, g.Status)
	assert.Equal(t, []string{"1", "2"}, g.WinnerIDs)
	assert.Equal(t, []string{"1", "2"}, g.OriginalWinners)
	assert.Equal(t, now.Add(time.Hour), g.EndsAt())
	assert.Equal(t, 45*time.Minute, g.Remaining(now.Add(15*time.Minute)))
	assert.Zero(t, g.Remaining(now.Add(2*time.Hour)))
}

func TestArmRerollKeepsOriginalWinners(t *testing.T) {
	g := testGiveaway(t)
	g.IsReroll = true
	g.OriginalWinners = []string{"7", "8"}

	g.Arm([]string{"9"}, time.Now())

	assert.Equal(t, []string{"9"}, g.WinnerIDs)
	assert.Equal(t, []string{"7", "8"}, g.OriginalWinners)
}

func TestCloneIsDeep(t *testing.T) {
	g := testGiveaway(t)
	g.Arm([]string{"1", "2"}, time.Now())
	g.Participants = []string{"5"}

	c := g.Clone()
	c.WinnerIDs[0] = "x"
	c.Participants[0] = "y"
	*c.ArrivedAt = c.ArrivedAt.Add(time.Hour)

	assert.Equal(t, "1", g.WinnerIDs[0])
	assert.Equal(t, "5", g.Participants[0])
	assert.NotEqual(t, *g.ArrivedAt, *c.ArrivedAt)
	assert.Nil(t, (*Giveaway)(nil).Clone())
}

func TestParseWinnerIDs(t *testing.T) {
	ids, err := ParseWinnerIDs("111\n\n  222  \r\n111\n333")
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222", "333"}, ids)

	ids, err = ParseWinnerIDs("   ")
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, bad := range []string{"abc", "111\nfoo", "12 34", "-5", "0"} {
		_, err := ParseWinnerIDs(bad)
		require.Error(t, err, bad)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidIdentity), bad)
	}
}

func TestMentionList(t *testing.T) {
	assert.Equal(t, "<@1>, <@2>", MentionList([]string{"1", "2"}))
	assert.Equal(t, "", MentionList(nil))
}

func TestAnnouncementBody(t *testing.T) {
	g := testGiveaway(t)

	waiting := WaitingAnnouncement(g, "🎉").Body()
	assert.Contains(t, waiting, "**Nitro**")
	assert.Contains(t, waiting, "React with 🎉 to enter!")
	assert.Contains(t, waiting, "Winners: 2")
	assert.Contains(t, waiting, "Ends: in 1h")
	assert.Contains(t, waiting, "Waiting for host...")

	now := time.Unix(1_700_000_000, 0)
	g.Arm([]string{"1", "2"}, now)
	counting := CountdownAnnouncement(g, "🎉", now.Add(30*time.Minute)).Body()
	assert.Contains(t, counting, "Ends: in 30 minutes")
	assert.Contains(t, counting, "<t:1700003600:f>")

	ended := EndedAnnouncement(g, 7, now.Add(time.Hour)).Body()
	assert.Contains(t, ended, "Entries: 7 Participants")
	assert.Contains(t, ended, "Ended at • <t:1700003600:f>")
	assert.NotContains(t, ended, "enter!")
}
