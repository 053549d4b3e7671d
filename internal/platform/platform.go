// Package platform abstracts the destination code-hosting service the engine
// delivers review comments to.
package platform

import (
	"context"
	"errors"
	"strings"
)

// PRState filters pull request listings. Values map to platform-specific
// status identifiers inside each backend.
type PRState string

const (
	StateOpen   PRState = "open"
	StateClosed PRState = "closed"
	StateMerged PRState = "merged"
)

// PullRequest is the subset of PR metadata the engine needs.
type PullRequest struct {
	Number     int
	Title      string
	Body       string
	State      PRState
	BaseBranch string
	HeadBranch string
	CloneURL   string
	HTMLURL    string
}

// Repo describes one repository of a project.
type Repo struct {
	Name          string
	FullName      string
	CloneURL      string
	DefaultBranch string
}

// Client defines the destination-platform operations the engine depends on.
//
//go:generate mockgen -destination=../mocks/mock_platform_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	ListPullRequests(ctx context.Context, owner, repo string, state PRState) ([]PullRequest, error)
	// CreateComment posts a comment on a pull request and returns the
	// platform's identifier for it.
	CreateComment(ctx context.Context, owner, repo string, number int, body string) (string, error)
	// ListRepos returns the repositories of a project (organization).
	ListRepos(ctx context.Context, project string) ([]Repo, error)
}

// ErrEncodingRejected marks a comment send the platform refused because of
// characters it cannot store. Delivery retries such failures once with a
// minimal ASCII fallback instead of surfacing them.
var ErrEncodingRejected = errors.New("comment rejected by platform encoding")

// encodingHints are substrings seen in platform error payloads when a comment
// body contains characters the backing store cannot encode.
var encodingHints = []string{
	"incorrect string value",
	"unsupported characters",
	"invalid byte sequence",
	"string value error",
}

// IsEncodingRejection reports whether err represents a platform-side
// string/encoding rejection rather than a transport or permission failure.
func IsEncodingRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEncodingRejected) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range encodingHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
