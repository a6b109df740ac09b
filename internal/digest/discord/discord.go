// Package discord delivers digests to a Discord channel through the REST
// API. No gateway session is opened.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Kilerd/todoki/internal/digest"
)

// embedColor is the sidebar color for digest embeds.
const embedColor = 0x36a64f

// session abstracts the discordgo methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier implements digest.Notifier for Discord.
type Notifier struct {
	sess      session
	channelID string
}

// Opts holds parameters for creating a Discord Notifier.
type Opts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real Discord API.
	Session session
}

// New creates a Discord Notifier.
func New(opts Opts) (*Notifier, error) {
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel id is required")
	}

	n := &Notifier{sess: opts.Session, channelID: opts.ChannelID}
	if n.sess == nil {
		if opts.BotToken == "" {
			return nil, fmt.Errorf("discord: bot token is required")
		}
		s, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: new session: %w", err)
		}
		n.sess = s
	}
	return n, nil
}

// Send posts the digest as one embed.
func (n *Notifier) Send(ctx context.Context, d digest.Digest) error {
	embed := &discordgo.MessageEmbed{
		Title:       d.Title(),
		Description: d.Body(),
		Color:       embedColor,
	}
	if _, err := n.sess.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}
