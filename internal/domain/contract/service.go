package contract

import (
	"context"
	"time"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

// PullRequestSource fetches open pull requests for a set of repositories.
// labels is an optional comma-separated list every returned pull request must carry.
type PullRequestSource interface {
	Fetch(ctx context.Context, repos []string, labels string) ([]entity.PullRequest, error)
}

type Clock interface {
	Now() time.Time
}

// CommandService is what the chat transports need from the domain
type CommandService interface {
	// Handle answers msg in its own conversation; false means it was not for the bot
	Handle(ctx context.Context, msg entity.InboundMessage) bool

	// Answer renders the reply for command text without sending it
	Answer(ctx context.Context, text string) string
}
