package service

import (
	"fmt"
	"strings"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

const DefaultRepoPrefix = "https://api.github.com/repos/"

// Formatter renders pull requests as Slack mrkdwn lines.
type Formatter struct {
	// RepoPrefix is stripped from the repository API URL to get "owner/name"
	RepoPrefix string
}

func NewFormatter(apiURL string) Formatter {
	if apiURL == "" {
		return Formatter{RepoPrefix: DefaultRepoPrefix}
	}
	return Formatter{RepoPrefix: strings.TrimSuffix(apiURL, "/") + "/repos/"}
}

// FormatLine renders one pull request. The assignee clause is left out when
// nobody is assigned; the line then ends with a single space.
func (f Formatter) FormatLine(pr entity.PullRequest) string {
	repo := strings.TrimPrefix(pr.RepositoryURL, f.RepoPrefix)

	assigned := ""
	if len(pr.Assignees) > 0 {
		assigned = "assigned to: " + strings.Join(pr.Assignees, ", ")
	}

	return fmt.Sprintf("[%s] <%s|#%d %s>\nsubmitted by <%s|%s> %s",
		repo, pr.URL, pr.Number, pr.Title, pr.SubmitterURL, pr.Submitter, assigned)
}

func (f Formatter) FormatLines(prs []entity.PullRequest) []string {
	lines := make([]string, 0, len(prs))
	for _, pr := range prs {
		lines = append(lines, f.FormatLine(pr))
	}
	return lines
}
