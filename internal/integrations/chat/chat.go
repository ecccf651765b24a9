// Package chat wires three chat providers as environment collaborators,
// each exposing outbound sends as a Single effect queued per destination
// channel so one slow or rate-limited channel never blocks another.
package chat

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
)

// queueFor keys a channel's queue by provider and destination, so Slack
// channel "C1" and Discord channel "C1" never collide, and sends to the
// same destination stay strictly ordered (RunOldest{1, SuspendNew}).
func queueFor(provider, destination string) *actid.QueueRef {
	q := actid.NewQueue(provider+":"+destination, actid.Oldest1Suspend(), actid.NoDelay())
	return &q
}

// Slack sends messages through the Slack Web API, paced by a shared rate
// limiter ahead of Slack's own per-workspace limits.
type Slack struct {
	client  *slack.Client
	limiter *rate.Limiter
}

// NewSlack builds a Slack collaborator from a bot token. limit is the
// steady-state send rate; burst is the maximum instantaneous burst.
func NewSlack(token string, limit rate.Limit, burst int) *Slack {
	return &Slack{client: slack.New(token), limiter: rate.NewLimiter(limit, burst)}
}

// SendEffect returns a Single effect that posts text to channelID. On
// success its feedback action is a Sent describing the posted message;
// callers fold it into their own action type with effect.MapAction.
func (s *Slack) SendEffect(id *actid.EffectID, channelID, text string) effect.Kind[Sent] {
	return effect.Single[Sent]{
		ID:    id,
		Queue: queueFor("slack", channelID),
		Run: func(ctx context.Context) (*Sent, error) {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("actomaton/chat/slack: rate limiter: %w", err)
			}
			_, ts, err := s.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
			if err != nil {
				return nil, fmt.Errorf("actomaton/chat/slack: post to %s: %w", channelID, err)
			}
			v := Sent{Provider: "slack", Destination: channelID, Ref: ts}
			return &v, nil
		},
	}
}

// Discord sends messages through the Discord bot API, paced the same way
// as Slack.
type Discord struct {
	session *discordgo.Session
	limiter *rate.Limiter
}

// NewDiscord builds a Discord collaborator from a bot token.
func NewDiscord(token string, limit rate.Limit, burst int) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("actomaton/chat/discord: new session: %w", err)
	}
	return &Discord{session: session, limiter: rate.NewLimiter(limit, burst)}, nil
}

// SendEffect returns a Single effect that posts text to channelID.
func (d *Discord) SendEffect(id *actid.EffectID, channelID, text string) effect.Kind[Sent] {
	return effect.Single[Sent]{
		ID:    id,
		Queue: queueFor("discord", channelID),
		Run: func(ctx context.Context) (*Sent, error) {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("actomaton/chat/discord: rate limiter: %w", err)
			}
			msg, err := d.session.ChannelMessageSend(channelID, text)
			if err != nil {
				return nil, fmt.Errorf("actomaton/chat/discord: post to %s: %w", channelID, err)
			}
			v := Sent{Provider: "discord", Destination: channelID, Ref: msg.ID}
			return &v, nil
		},
	}
}

// Telegram sends messages through the Bot API, paced the same way as Slack.
type Telegram struct {
	bot     *telego.Bot
	limiter *rate.Limiter
}

// NewTelegram builds a Telegram collaborator from a bot token.
func NewTelegram(token string, limit rate.Limit, burst int) (*Telegram, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("actomaton/chat/telegram: new bot: %w", err)
	}
	return &Telegram{bot: bot, limiter: rate.NewLimiter(limit, burst)}, nil
}

// SendEffect returns a Single effect that posts text to chatID, the numeric
// Telegram chat id; its decimal string form keys the queue.
func (t *Telegram) SendEffect(id *actid.EffectID, chatID int64, text string) effect.Kind[Sent] {
	return effect.Single[Sent]{
		ID:    id,
		Queue: queueFor("telegram", fmt.Sprintf("%d", chatID)),
		Run: func(ctx context.Context) (*Sent, error) {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("actomaton/chat/telegram: rate limiter: %w", err)
			}
			msg, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
			if err != nil {
				return nil, fmt.Errorf("actomaton/chat/telegram: post to %d: %w", chatID, err)
			}
			v := Sent{Provider: "telegram", Destination: fmt.Sprintf("%d", chatID), Ref: fmt.Sprintf("%d", msg.MessageID)}
			return &v, nil
		},
	}
}

// Sent is the feedback action produced by a successful channel send; demos
// fold it into their own action type via effect.MapAction.
type Sent struct {
	Provider    string
	Destination string
	Ref         string
}
