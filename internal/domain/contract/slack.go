package contract

import (
	"context"

	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/slack-go/slack"
)

// SlackClient defines the subset of the Slack API the bot uses
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Notifier delivers rendered text to chat destinations
type Notifier interface {
	// Post sends text to a configured channel or group
	Post(ctx context.Context, target entity.Target, text string) error

	// Reply sends text back to the conversation a command came from
	Reply(ctx context.Context, conversationID, text string) error
}
