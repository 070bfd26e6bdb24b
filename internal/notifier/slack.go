// Package notifier posts bot messages to Slack conversations.
package notifier

import (
	"context"
	"fmt"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/slack-go/slack"
)

// Slack implements contract.Notifier. Channels and groups are both addressed
// by conversation id (or name), so they share one code path.
type Slack struct {
	client  contract.SlackClient
	botName string
	iconURL string
}

func NewSlack(client contract.SlackClient, botName, iconURL string) *Slack {
	return &Slack{
		client:  client,
		botName: botName,
		iconURL: iconURL,
	}
}

func (s *Slack) Post(ctx context.Context, target entity.Target, text string) error {
	if err := s.post(ctx, target.ID, text); err != nil {
		return fmt.Errorf("failed to post to %s %s: %w", target.Kind, target.ID, err)
	}
	return nil
}

func (s *Slack) Reply(ctx context.Context, conversationID, text string) error {
	if err := s.post(ctx, conversationID, text); err != nil {
		return fmt.Errorf("failed to reply in %s: %w", conversationID, err)
	}
	return nil
}

func (s *Slack) post(ctx context.Context, channelID, text string) error {
	_, _, err := s.client.PostMessageContext(ctx, channelID, s.options(text)...)
	return err
}

func (s *Slack) options(text string) []slack.MsgOption {
	opts := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	}
	if s.botName != "" {
		opts = append(opts, slack.MsgOptionUsername(s.botName))
	}
	if s.iconURL != "" {
		opts = append(opts, slack.MsgOptionIconURL(s.iconURL))
	}
	return opts
}
