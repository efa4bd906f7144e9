package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/service"
)

const (
	commandGiveaway = "giveaway"
	commandReroll   = "reroll"

	// Bounds one command or DM, including every platform call it makes.
	handleTimeout = 30 * time.Second

	msgGuildOnly        = "This command can only be used in a server."
	msgAdminRequired    = "You need administrator permissions to use this command."
	msgBotAdminRequired = "❌ This bot needs administrator permissions to function properly. Please reinvite the bot with admin permissions."
	msgGiveawayCreated  = "Giveaway created! Check your DMs to select winners."
	msgRerollStarted    = "𓆩♡𓆪 Reroll started! A new winner will be selected in %s!"
)

// Session is the part of *discordgo.Session the handler uses.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

type GiveawayHandler struct {
	session Session
	service service.GiveawayService
	guildID string
}

// NewGiveawayHandler registers commands in guildID, or globally when it is empty.
func NewGiveawayHandler(session Session, svc service.GiveawayService, guildID string) *GiveawayHandler {
	return &GiveawayHandler{
		session: session,
		service: svc,
		guildID: guildID,
	}
}

// Register subscribes the handler to gateway events.
func (h *GiveawayHandler) Register(s *discordgo.Session) {
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		appID := r.User.ID
		if r.Application != nil && r.Application.ID != "" {
			appID = r.Application.ID
		}
		logger.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Connected to Discord")
		if err := h.RegisterCommands(appID); err != nil {
			logger.Error().Err(err).Msg("Failed to register commands")
		}
	})
	s.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		h.HandleInteraction(ctx, i.Interaction)
	})
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		h.HandleMessage(ctx, m.Message)
	})
}

func (h *GiveawayHandler) RegisterCommands(appID string) error {
	registered, err := h.session.ApplicationCommandBulkOverwrite(appID, h.guildID, Commands())
	if err != nil {
		return fmt.Errorf("overwrite application commands: %w", err)
	}
	logger.Info().Int("commands", len(registered)).Str("guild", h.guildID).Msg("Commands registered")
	return nil
}

// Commands are visible to administrators only; the permission is rechecked on use.
func Commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	guildOnly := false
	minWinners := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandGiveaway,
			Description:              "Create a new giveaway",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Duration (ex: 1h, 30m, 2d, 60s)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "What you're giving away",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winners",
					Description: "Number of winners (default: 1)",
					MinValue:    &minWinners,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "image",
					Description: "Attach an image for the giveaway",
				},
			},
		},
		{
			Name:                     commandReroll,
			Description:              "Reroll a winner after giveaway ends",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Delay before reroll (ex: 10s, 5m, 1h)",
					Required:    true,
				},
			},
		},
	}
}

func (h *GiveawayHandler) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandGiveaway && data.Name != commandReroll {
		return
	}

	if i.Member == nil || i.Member.User == nil || i.GuildID == "" {
		h.respondEphemeral(i, msgGuildOnly)
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		h.respondEphemeral(i, msgAdminRequired)
		return
	}
	if i.AppPermissions&discordgo.PermissionAdministrator == 0 {
		h.respondEphemeral(i, msgBotAdminRequired)
		return
	}

	switch data.Name {
	case commandGiveaway:
		h.createGiveaway(ctx, i, data)
	case commandReroll:
		h.startReroll(ctx, i, data)
	}
}

func (h *GiveawayHandler) createGiveaway(ctx context.Context, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	req := service.CreateGiveawayRequest{
		OrganizerID:  i.Member.User.ID,
		GuildID:      i.GuildID,
		ChannelID:    i.ChannelID,
		WinnersCount: 1,
	}
	for _, opt := range data.Options {
		switch opt.Name {
		case "time":
			req.Duration = opt.StringValue()
		case "description":
			req.Description = opt.StringValue()
		case "winners":
			req.WinnersCount = int(opt.IntValue())
		case "image":
			req.ImageURL = attachmentURL(data, opt)
		}
	}

	// Creating involves several platform calls; acknowledge first.
	if err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		logger.Error().Err(err).Str("command", commandGiveaway).Msg("Failed to acknowledge command")
		return
	}

	content := msgGiveawayCreated
	if _, err := h.service.CreateGiveaway(ctx, req); err != nil {
		logCommandError(commandGiveaway, req.OrganizerID, err)
		content = apperrors.UserMessage(err)
	}

	if _, err := h.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		logger.Error().Err(err).Str("command", commandGiveaway).Msg("Failed to answer command")
	}
}

func (h *GiveawayHandler) startReroll(ctx context.Context, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	req := service.RerollRequest{
		OrganizerID: i.Member.User.ID,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
	}
	for _, opt := range data.Options {
		if opt.Name == "time" {
			req.Duration = opt.StringValue()
		}
	}

	g, err := h.service.StartReroll(ctx, req)
	if err != nil {
		logCommandError(commandReroll, req.OrganizerID, err)
		h.respondEphemeral(i, apperrors.UserMessage(err))
		return
	}

	// Reroll announcements are public.
	if err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(msgRerollStarted, g.Duration.String()),
		},
	}); err != nil {
		logger.Error().Err(err).Str("command", commandReroll).Msg("Failed to answer command")
	}
}

// HandleMessage forwards private messages from people to the outcome collector.
func (h *GiveawayHandler) HandleMessage(ctx context.Context, m *discordgo.Message) {
	if m.GuildID != "" || m.Author == nil || m.Author.Bot {
		return
	}

	dm := models.DirectMessage{
		AuthorID: m.Author.ID,
		Content:  m.Content,
	}
	for _, a := range m.Attachments {
		dm.AttachmentURLs = append(dm.AttachmentURLs, a.URL)
	}
	h.service.HandleDirectMessage(ctx, dm)
}

func (h *GiveawayHandler) respondEphemeral(i *discordgo.Interaction, content string) {
	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to answer command")
	}
}

func attachmentURL(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) string {
	id, ok := opt.Value.(string)
	if !ok || data.Resolved == nil {
		return ""
	}
	if a, ok := data.Resolved.Attachments[id]; ok && a != nil {
		return a.URL
	}
	return ""
}

func logCommandError(command, userID string, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code != apperrors.ErrCodeInternal && appErr.Code != apperrors.ErrCodePlatform {
		logger.Warn().Err(err).Str("command", command).Str("user", userID).Msg("Command rejected")
		return
	}
	logger.Error().Err(err).Str("command", command).Str("user", userID).Msg("Command failed")
}
