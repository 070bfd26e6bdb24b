// Package github fetches open pull requests through the GitHub search API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

const (
	DefaultAPIURL = "https://api.github.com"

	perPage = 100
	// the search API never returns more than 1000 results
	maxPages = 10
)

// Client implements contract.PullRequestSource.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// searchResult mirrors the JSON response of GET /search/issues.
type searchResult struct {
	TotalCount int           `json:"total_count"`
	Items      []searchIssue `json:"items"`
}

type searchIssue struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	HTMLURL       string    `json:"html_url"`
	RepositoryURL string    `json:"repository_url"`
	User          ghUser    `json:"user"`
	Assignees     []ghUser  `json:"assignees"`
	Labels        []ghLabel `json:"labels"`
}

type ghUser struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

type ghLabel struct {
	Name string `json:"name"`
}

// Fetch returns the open pull requests of repos. labels is a comma-separated
// list of labels every pull request must carry; empty means any.
func (c *Client) Fetch(ctx context.Context, repos []string, labels string) ([]entity.PullRequest, error) {
	query, err := buildQuery(repos, labels)
	if err != nil {
		return nil, err
	}

	var prs []entity.PullRequest
	for page := 1; page <= maxPages; page++ {
		result, err := c.search(ctx, query, page)
		if err != nil {
			return nil, err
		}

		for i := range result.Items {
			prs = append(prs, toPullRequest(&result.Items[i]))
		}

		if len(result.Items) < perPage || len(prs) >= result.TotalCount {
			break
		}
	}

	return prs, nil
}

func (c *Client) search(ctx context.Context, query string, page int) (*searchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, c.baseURL+"/search/issues?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("github search pull requests: %w", err)
	}

	var result searchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("github parse response: %w", err)
	}
	return &result, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "pr-police")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func buildQuery(repos []string, labels string) (string, error) {
	if len(repos) == 0 {
		return "", fmt.Errorf("no repositories configured")
	}

	terms := []string{"is:pr", "is:open"}
	for _, repo := range repos {
		repo = strings.TrimSpace(repo)
		if strings.Count(repo, "/") != 1 || strings.HasPrefix(repo, "/") || strings.HasSuffix(repo, "/") {
			return "", fmt.Errorf("invalid repository %q: expected owner/name", repo)
		}
		terms = append(terms, "repo:"+repo)
	}

	for _, label := range strings.Split(labels, ",") {
		if label = strings.TrimSpace(label); label != "" {
			terms = append(terms, fmt.Sprintf("label:%q", label))
		}
	}

	return strings.Join(terms, " "), nil
}

func toPullRequest(issue *searchIssue) entity.PullRequest {
	assignees := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		assignees = append(assignees, a.Login)
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}

	return entity.PullRequest{
		Number:        issue.Number,
		Title:         issue.Title,
		URL:           issue.HTMLURL,
		RepositoryURL: issue.RepositoryURL,
		Submitter:     issue.User.Login,
		SubmitterURL:  issue.User.HTMLURL,
		Assignees:     assignees,
		Labels:        labels,
	}
}
