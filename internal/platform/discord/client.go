package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
)

const (
	colorActive = 0x5865F2
	colorEnded  = 0x2b2d31

	// Discord caps reaction listings at 100 users per page.
	reactionsPageSize = 100

	Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
)

// Session is the part of *discordgo.Session the client uses.
type Session interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveEmoji(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Client adapts a Discord session to the giveaway lifecycle. Every error it
// returns is an AppError with NOT_FOUND, FORBIDDEN or PLATFORM_ERROR code.
type Client struct {
	session Session
}

// NewSession creates a bot session with the intents the giveaway flow needs.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

func NewClient(session Session) *Client {
	return &Client{session: session}
}

func (c *Client) SendPrompt(ctx context.Context, userID string, prompt models.Prompt) error {
	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError("open direct channel", err)
	}
	if _, err := c.session.ChannelMessageSendEmbed(ch.ID, promptEmbed(prompt), discordgo.WithContext(ctx)); err != nil {
		return mapError("send prompt", err)
	}
	return nil
}

func (c *Client) SendDirect(ctx context.Context, userID, content string) error {
	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError("open direct channel", err)
	}
	if _, err := c.session.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx)); err != nil {
		return mapError("send direct message", err)
	}
	return nil
}

func (c *Client) SendAnnouncement(ctx context.Context, channelID string, a models.Announcement) (string, error) {
	msg, err := c.session.ChannelMessageSendEmbed(channelID, announcementEmbed(a), discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError("send announcement", err)
	}
	return msg.ID, nil
}

func (c *Client) EditAnnouncement(ctx context.Context, channelID, messageID string, a models.Announcement) error {
	if _, err := c.session.ChannelMessageEditEmbed(channelID, messageID, announcementEmbed(a), discordgo.WithContext(ctx)); err != nil {
		return mapError("edit announcement", err)
	}
	return nil
}

func (c *Client) CheckMessage(ctx context.Context, channelID, messageID string) error {
	if _, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return mapError("fetch message", err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return mapError("delete message", err)
	}
	return nil
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return mapError("add reaction", err)
	}
	return nil
}

func (c *Client) ClearReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionsRemoveEmoji(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return mapError("clear reaction", err)
	}
	return nil
}

// Reactors pages through every user who reacted with emoji.
func (c *Client) Reactors(ctx context.Context, channelID, messageID, emoji string) ([]models.Member, error) {
	// Distinguishes a deleted announcement from one nobody reacted to.
	if _, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return nil, mapError("fetch message", err)
	}

	var members []models.Member
	after := ""
	for {
		users, err := c.session.MessageReactions(channelID, messageID, emoji, reactionsPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError("list reactions", err)
		}
		for _, u := range users {
			members = append(members, userMember(u, ""))
		}
		if len(users) < reactionsPageSize {
			return members, nil
		}
		after = users[len(users)-1].ID
	}
}

func (c *Client) Reply(ctx context.Context, channelID, messageID, content string) error {
	ref := &discordgo.MessageReference{ChannelID: channelID, MessageID: messageID}
	if _, err := c.session.ChannelMessageSendReply(channelID, content, ref, discordgo.WithContext(ctx)); err != nil {
		return mapError("reply", err)
	}
	return nil
}

func (c *Client) ReplyToLatest(ctx context.Context, channelID, content string) error {
	msgs, err := c.session.ChannelMessages(channelID, 1, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return mapError("fetch latest message", err)
	}
	if len(msgs) == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "channel has no messages").
			WithDetail("channel_id", channelID)
	}
	if _, err := c.session.ChannelMessageSendReply(channelID, content, msgs[0].Reference(), discordgo.WithContext(ctx)); err != nil {
		return mapError("reply to latest message", err)
	}
	return nil
}

func (c *Client) Send(ctx context.Context, channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return mapError("send message", err)
	}
	return nil
}

func (c *Client) ResolveMember(ctx context.Context, guildID, userID string) (*models.Member, error) {
	m, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		mapped := mapError("fetch member", err)
		if apperrors.IsNotFound(mapped) {
			return nil, nil
		}
		return nil, mapped
	}
	if m.User == nil {
		return nil, nil
	}
	member := userMember(m.User, m.Nick)
	return &member, nil
}

func userMember(u *discordgo.User, nick string) models.Member {
	name := nick
	if name == "" {
		name = u.GlobalName
	}
	if name == "" {
		name = u.Username
	}
	return models.Member{ID: u.ID, DisplayName: name, Bot: u.Bot}
}

func announcementEmbed(a models.Announcement) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Description: a.Body(),
		Color:       colorActive,
	}
	if a.Ended {
		e.Color = colorEnded
	}
	if a.ImageURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: a.ImageURL}
	}
	return e
}

func promptEmbed(p models.Prompt) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       colorActive,
	}
	for _, f := range p.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}
	if p.ImageURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.ImageURL}
	}
	return e
}

// mapError classifies a discordgo error by HTTP status.
func mapError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperrors.Wrapf(err, apperrors.ErrCodeNotFound, "%s: not found", op)
		case http.StatusForbidden:
			return apperrors.Wrapf(err, apperrors.ErrCodeForbidden, "%s: forbidden", op)
		}
	}
	return apperrors.NewPlatformError(op, err)
}
