package models

import (
	"fmt"
	"strings"
	"time"
)

// Member is a platform user resolved within a server.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Bot         bool   `json:"bot"`
}

// DirectMessage is a private message sent to the bot.
type DirectMessage struct {
	AuthorID       string
	Content        string
	AttachmentURLs []string
}

// Announcement is the public giveaway message in its waiting, counting down or ended form.
type Announcement struct {
	Description  string
	EntryEmoji   string
	WinnersCount int
	EndsIn       string
	EndsAt       time.Time // zero while waiting for the organizer
	Ended        bool
	Entries      int
	EndedAt      time.Time
	ImageURL     string
}

// Body renders the announcement text.
func (a Announcement) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", a.Description)

	if a.Ended {
		fmt.Fprintf(&b, "Entries: %d Participants\n\n", a.Entries)
		fmt.Fprintf(&b, "Ended at • %s", timestamp(a.EndedAt))
		return b.String()
	}

	fmt.Fprintf(&b, "React with %s to enter!\n", a.EntryEmoji)
	fmt.Fprintf(&b, "Winners: %d\n", a.WinnersCount)
	fmt.Fprintf(&b, "Ends: in %s\n\n", a.EndsIn)
	if a.EndsAt.IsZero() {
		b.WriteString("Ends at • Waiting for host...")
	} else {
		fmt.Fprintf(&b, "Ends at • %s", timestamp(a.EndsAt))
	}
	return b.String()
}

// WaitingAnnouncement shows the requested duration as typed until the organizer supplies winners.
func WaitingAnnouncement(g *Giveaway, emoji string) Announcement {
	return Announcement{
		Description:  g.Description,
		EntryEmoji:   emoji,
		WinnersCount: g.WinnersCount,
		EndsIn:       g.Duration.String(),
		ImageURL:     g.ImageURL,
	}
}

// CountdownAnnouncement shows the time left until an armed giveaway resolves.
func CountdownAnnouncement(g *Giveaway, emoji string, now time.Time) Announcement {
	return Announcement{
		Description:  g.Description,
		EntryEmoji:   emoji,
		WinnersCount: g.WinnersCount,
		EndsIn:       FormatRemaining(g.Remaining(now)),
		EndsAt:       g.EndsAt(),
		ImageURL:     g.ImageURL,
	}
}

// EndedAnnouncement is the terminal display with the raw entry count.
func EndedAnnouncement(g *Giveaway, entries int, now time.Time) Announcement {
	return Announcement{
		Description: g.Description,
		Ended:       true,
		Entries:     entries,
		EndedAt:     now,
		ImageURL:    g.ImageURL,
	}
}

// Prompt is a private message asking the organizer for the outcome.
type Prompt struct {
	Title       string
	Description string
	Fields      []PromptField
	ImageURL    string
}

type PromptField struct {
	Name  string
	Value string
}

func GiveawayPrompt(g *Giveaway, cancelKeyword string) Prompt {
	return Prompt{
		Title: "Select Giveaway Winners",
		Description: fmt.Sprintf("Please reply with the user IDs of the %d member(s) you want to win the giveaway (one ID per line).\n\n"+
			"You can get a user ID by enabling Developer Mode in Discord (Settings > Advanced > Developer Mode) and right-clicking on a user.\n\n"+
			"You can also send an image to attach it to the giveaway.\n\n"+
			"Type '%s' to cancel the giveaway.", g.WinnersCount, cancelKeyword),
		Fields: []PromptField{
			{Name: "Giveaway Details", Value: g.Description},
			{Name: "Duration", Value: g.Duration.String()},
			{Name: "Winners", Value: fmt.Sprintf("%d", g.WinnersCount)},
		},
		ImageURL: g.ImageURL,
	}
}

func RerollPrompt(g *Giveaway, cancelKeyword string) Prompt {
	return Prompt{
		Title: "Select Reroll Winner",
		Description: "Please reply with the user ID of the member you want to win the reroll.\n\n" +
			"You can get a user ID by enabling Developer Mode in Discord (Settings > Advanced > Developer Mode) and right-clicking on a user.\n\n" +
			fmt.Sprintf("Type '%s' to cancel the reroll.", cancelKeyword),
		Fields: []PromptField{
			{Name: "Giveaway Details", Value: g.Description},
			{Name: "Reroll Delay", Value: g.Duration.String()},
		},
	}
}

// timestamp renders t as a platform timestamp each viewer sees in their own time zone.
func timestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f>", t.Unix())
}
