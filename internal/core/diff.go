package core

import "strings"

// ChangeStatus classifies how a file was edited between the two sides of a
// pull request.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusModified ChangeStatus = "modified"
	StatusDeleted  ChangeStatus = "deleted"
	StatusRenamed  ChangeStatus = "renamed"
	StatusUnknown  ChangeStatus = "unknown"
)

// StatusFromCode maps a git name-status code to a ChangeStatus. Rename codes
// carry a similarity score ("R100"), so only the leading letter is inspected.
func StatusFromCode(code string) ChangeStatus {
	switch {
	case strings.HasPrefix(code, "A"):
		return StatusAdded
	case strings.HasPrefix(code, "M"):
		return StatusModified
	case strings.HasPrefix(code, "D"):
		return StatusDeleted
	case strings.HasPrefix(code, "R"):
		return StatusRenamed
	default:
		return StatusUnknown
	}
}

// FileChange describes one changed file in a pull request. Diff and Content
// may be empty when retrieval failed for this file; Err carries the reason.
type FileChange struct {
	Path    string
	Status  ChangeStatus
	Diff    string
	Content string
	Err     string
}

// DiffResult is the outcome of materializing a pull request's changes. Files
// preserve the order git reported them in.
type DiffResult struct {
	Files   []FileChange
	BaseRef string
	HeadRef string
}
