// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ReviewRequest represents a single review order received from the
// surrounding application. It carries everything needed to locate the pull
// request on the hosting platform and to attribute the trigger that caused it.
type ReviewRequest struct {
	// Platform is the hosting backend identifier ("gitee" or "github").
	Platform string `json:"platform"`
	// Host identifies the platform instance, e.g. "gitee.com".
	Host string `json:"host"`

	RepoOwner    string `json:"repo_owner"`
	RepoName     string `json:"repo_name"`
	RepoFullName string `json:"repo_full_name"`
	CloneURL     string `json:"clone_url"`

	PRNumber   int    `json:"pr_number"`
	PRTitle    string `json:"pr_title"`
	PRBody     string `json:"pr_body"`
	BaseBranch string `json:"base_branch"`
	HeadBranch string `json:"head_branch"`

	// TriggerCommentID is the platform comment that asked for this review,
	// empty when the request came from the PR description.
	TriggerCommentID string `json:"trigger_comment_id,omitempty"`
	// FromDescription marks requests triggered by the PR description itself.
	FromDescription bool `json:"from_description,omitempty"`
	// ReReview marks a repeated review of a PR this engine has seen before.
	ReReview bool `json:"re_review,omitempty"`
}

// RequestFromJSON decodes and validates a review request payload.
func RequestFromJSON(r io.Reader) (*ReviewRequest, error) {
	var req ReviewRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("malformed review request payload: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate ensures the request contains all fields the pipeline depends on.
func (r *ReviewRequest) Validate() error {
	if r.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if r.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if r.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if r.RepoFullName == "" {
		r.RepoFullName = r.RepoOwner + "/" + r.RepoName
	}
	if r.CloneURL == "" {
		return fmt.Errorf("repository clone URL cannot be empty")
	}
	if r.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", r.PRNumber)
	}
	// Base and head branches may be empty; the review job completes them
	// from the platform's PR metadata.
	return nil
}

// HasBranches reports whether both PR branches are already known.
func (r *ReviewRequest) HasBranches() bool {
	return strings.TrimSpace(r.BaseBranch) != "" && strings.TrimSpace(r.HeadBranch) != ""
}
