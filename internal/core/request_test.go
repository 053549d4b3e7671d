package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *ReviewRequest {
	return &ReviewRequest{
		Platform:     "gitee",
		Host:         "gitee.com",
		RepoOwner:    "acme",
		RepoName:     "widgets",
		RepoFullName: "acme/widgets",
		CloneURL:     "https://gitee.com/acme/widgets.git",
		PRNumber:     42,
		PRTitle:      "Add widget cache",
		BaseBranch:   "main",
		HeadBranch:   "feature/cache",
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ReviewRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(*ReviewRequest) {},
		},
		{
			name:    "missing host",
			mutate:  func(r *ReviewRequest) { r.Host = "" },
			wantErr: "host",
		},
		{
			name:    "missing owner",
			mutate:  func(r *ReviewRequest) { r.RepoOwner = "" },
			wantErr: "owner",
		},
		{
			name:    "missing repo name",
			mutate:  func(r *ReviewRequest) { r.RepoName = "" },
			wantErr: "name",
		},
		{
			name:    "missing clone URL",
			mutate:  func(r *ReviewRequest) { r.CloneURL = "" },
			wantErr: "clone URL",
		},
		{
			name:    "zero PR number",
			mutate:  func(r *ReviewRequest) { r.PRNumber = 0 },
			wantErr: "must be positive",
		},
		{
			name:    "negative PR number",
			mutate:  func(r *ReviewRequest) { r.PRNumber = -3 },
			wantErr: "must be positive",
		},
		{
			name: "branches are optional",
			mutate: func(r *ReviewRequest) {
				r.BaseBranch = ""
				r.HeadBranch = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRequestValidateDerivesFullName(t *testing.T) {
	req := validRequest()
	req.RepoFullName = ""

	require.NoError(t, req.Validate())
	assert.Equal(t, "acme/widgets", req.RepoFullName)
}

func TestRequestFromJSON(t *testing.T) {
	payload := `{
		"platform": "gitee",
		"host": "gitee.com",
		"repo_owner": "acme",
		"repo_name": "widgets",
		"clone_url": "https://gitee.com/acme/widgets.git",
		"pr_number": 42,
		"trigger_comment_id": "c-9",
		"re_review": true
	}`

	req, err := RequestFromJSON(strings.NewReader(payload))

	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", req.RepoFullName)
	assert.Equal(t, "c-9", req.TriggerCommentID)
	assert.True(t, req.ReReview)
	assert.False(t, req.HasBranches())
}

func TestRequestFromJSONRejectsMalformedPayload(t *testing.T) {
	_, err := RequestFromJSON(strings.NewReader("{not json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed review request payload")
}

func TestRequestFromJSONRejectsInvalidRequest(t *testing.T) {
	_, err := RequestFromJSON(strings.NewReader(`{"host": "gitee.com"}`))

	require.Error(t, err)
}

func TestHasBranches(t *testing.T) {
	req := validRequest()
	assert.True(t, req.HasBranches())

	req.HeadBranch = "   "
	assert.False(t, req.HasBranches())
}
