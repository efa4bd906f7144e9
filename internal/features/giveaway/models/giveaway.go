package models

import (
	"time"
)

// GiveawayStatus represents the lifecycle stage of a giveaway or reroll
type GiveawayStatus string

const (
	GiveawayStatusAwaitingOutcome GiveawayStatus = "awaiting_outcome" // Created, waiting for the organizer's DM
	GiveawayStatusArmed           GiveawayStatus = "armed"            // Winners received, countdown running
	GiveawayStatusResolved        GiveawayStatus = "resolved"         // Winners announced
)

// EventKey identifies a pending event in the store.
type EventKey string

const rerollKeyPrefix = "reroll:"

// GiveawayKey is the store key of an organizer's giveaway.
func GiveawayKey(organizerID string) EventKey {
	return EventKey(organizerID)
}

// RerollKey is the store key of an organizer's reroll. It never collides with a GiveawayKey
// because platform user ids are numeric.
func RerollKey(organizerID string) EventKey {
	return EventKey(rerollKeyPrefix + organizerID)
}

// Giveaway is a giveaway or, with IsReroll set, a single-winner reroll of a resolved giveaway.
type Giveaway struct {
	Key             EventKey       `json:"key"`
	OrganizerID     string         `json:"organizer_id"`
	GuildID         string         `json:"guild_id"`
	ChannelID       string         `json:"channel_id"`
	MessageID       string         `json:"message_id"` // announcement; for rerolls the original giveaway's
	Description     string         `json:"description"`
	WinnersCount    int            `json:"winners_count"`
	Duration        Duration       `json:"duration"`
	WinnerIDs       []string       `json:"winner_ids"`   // predetermined, in the organizer's order
	Participants    []string       `json:"participants"` // filled at resolution; carried over for rerolls
	ImageURL        string         `json:"image_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	ArrivedAt       *time.Time     `json:"arrived_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	IsReroll        bool           `json:"is_reroll"`
	OriginalWinners []string       `json:"original_winners"`
	Status          GiveawayStatus `json:"status"`
	TaskID          string         `json:"task_id,omitempty"` // scheduled resolution
}

// Armed reports whether the predetermined outcome has arrived and the countdown runs.
func (g *Giveaway) Armed() bool {
	return g.ArrivedAt != nil && len(g.WinnerIDs) > 0
}

// AwaitingOutcome reports whether the organizer still has to supply winners.
func (g *Giveaway) AwaitingOutcome() bool {
	return g.Status == GiveawayStatusAwaitingOutcome && g.ArrivedAt == nil
}

// EndsAt is the resolution time. Zero until armed.
func (g *Giveaway) EndsAt() time.Time {
	if g.ArrivedAt == nil {
		return time.Time{}
	}
	return g.ArrivedAt.Add(g.Duration.Std())
}

// Remaining is the countdown left at now, never negative. Zero until armed.
func (g *Giveaway) Remaining(now time.Time) time.Duration {
	if g.ArrivedAt == nil {
		return 0
	}
	if rem := g.EndsAt().Sub(now); rem > 0 {
		return rem
	}
	return 0
}

// Arm stores the predetermined winners and starts the countdown at now.
func (g *Giveaway) Arm(winnerIDs []string, now time.Time) {
	g.WinnerIDs = append([]string(nil), winnerIDs...)
	if !g.IsReroll {
		g.OriginalWinners = append([]string(nil), winnerIDs...)
	}
	arrived := now
	g.ArrivedAt = &arrived
	g.Status = GiveawayStatusArmed
}

// Clone returns a deep copy.
func (g *Giveaway) Clone() *Giveaway {
	if g == nil {
		return nil
	}
	c := *g
	c.WinnerIDs = cloneStrings(g.WinnerIDs)
	c.Participants = cloneStrings(g.Participants)
	c.OriginalWinners = cloneStrings(g.OriginalWinners)
	if g.ArrivedAt != nil {
		t := *g.ArrivedAt
		c.ArrivedAt = &t
	}
	if g.ResolvedAt != nil {
		t := *g.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
