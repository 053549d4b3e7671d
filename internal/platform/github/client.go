// Package github implements the platform client on top of the official
// go-github SDK.
package github

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/avolkov/review-courier/internal/platform"
)

type client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient wraps an already-authenticated go-github client.
func NewClient(gh *github.Client, logger *slog.Logger) platform.Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &client{gh: gh, logger: logger}
}

// NewPATClient creates a platform client authenticated with a Personal
// Access Token. This is the path CLI usage and local development take.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) platform.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return NewClient(github.NewClient(tc), logger)
}

// GetPullRequest retrieves a single pull request by its number.
func (c *client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*platform.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		c.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	converted := convert(pr)
	return &converted, nil
}

// ListPullRequests lists pull requests filtered by state. GitHub has no
// native "merged" listing state, so merged maps to closed plus a merged-at
// filter.
func (c *client) ListPullRequests(ctx context.Context, owner, repo string, state platform.PRState) ([]platform.PullRequest, error) {
	ghState := "all"
	switch state {
	case platform.StateOpen:
		ghState = "open"
	case platform.StateClosed, platform.StateMerged:
		ghState = "closed"
	}

	opts := &github.PullRequestListOptions{
		State:       ghState,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var prs []platform.PullRequest
	for {
		page, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			c.logger.Error("failed to list pull requests", "owner", owner, "repo", repo, "error", err)
			return nil, err
		}
		for _, pr := range page {
			if state == platform.StateMerged && pr.MergedAt == nil {
				continue
			}
			prs = append(prs, convert(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

// CreateComment creates a new comment on a pull request.
func (c *client) CreateComment(ctx context.Context, owner, repo string, number int, body string) (string, error) {
	comment := &github.IssueComment{Body: &body}
	created, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		c.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return strconv.FormatInt(created.GetID(), 10), nil
}

// ListRepos returns the repositories of an organization, paginated.
func (c *client) ListRepos(ctx context.Context, project string) ([]platform.Repo, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var repos []platform.Repo
	for {
		page, resp, err := c.gh.Repositories.ListByOrg(ctx, project, opts)
		if err != nil {
			c.logger.Error("failed to list repositories", "org", project, "error", err)
			return nil, err
		}
		for _, r := range page {
			repos = append(repos, platform.Repo{
				Name:          r.GetName(),
				FullName:      r.GetFullName(),
				CloneURL:      r.GetCloneURL(),
				DefaultBranch: r.GetDefaultBranch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

func convert(pr *github.PullRequest) platform.PullRequest {
	state := platform.PRState(pr.GetState())
	if pr.MergedAt != nil {
		state = platform.StateMerged
	}
	return platform.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		State:      state,
		BaseBranch: pr.GetBase().GetRef(),
		HeadBranch: pr.GetHead().GetRef(),
		CloneURL:   pr.GetBase().GetRepo().GetCloneURL(),
		HTMLURL:    pr.GetHTMLURL(),
	}
}
