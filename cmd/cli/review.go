package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/wire"
)

var (
	verbose  bool
	reReview bool
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Run a full review for a single Pull Request",
	Long: `Run a full review for a single Pull Request.

The review command fetches the PR metadata, clones the repository to a
temporary workspace, extracts the per-file diff, requests feedback, and
delivers it back to the PR as one or more comments.

Examples:
  courier review https://gitee.com/owner/repo/pulls/123
  courier review --verbose https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	reviewCmd.Flags().BoolVar(&reReview, "re-review", false, "Mark this run as a repeated review of an already-seen PR")
	rootCmd.AddCommand(reviewCmd)
}

// stepTimer tracks timing for verbose output
type stepTimer struct {
	stepNum    int
	totalSteps int
	start      time.Time
	verbose    bool
}

func newStepTimer(totalSteps int, verbose bool) *stepTimer {
	return &stepTimer{
		stepNum:    0,
		totalSteps: totalSteps,
		verbose:    verbose,
	}
}

func (t *stepTimer) step(name string) {
	t.stepNum++
	t.start = time.Now()
	if t.verbose {
		titleColor.Printf("\nStep %d/%d: %s...\n", t.stepNum, t.totalSteps, name)
	} else {
		fmt.Printf("%s...\n", name)
	}
}

func (t *stepTimer) done(details ...string) {
	if t.verbose {
		elapsed := time.Since(t.start).Round(time.Millisecond)
		successColor.Printf("   done (%s)\n", elapsed)
		for _, d := range details {
			dimColor.Printf("   %s\n", d)
		}
	}
}

func (t *stepTimer) info(format string, args ...any) {
	if t.verbose {
		dimColor.Printf("   "+format+"\n", args...)
	}
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	prURL := args[0]

	timer := newStepTimer(3, verbose)
	overallStart := time.Now()

	titleColor.Println("Review Courier - PR Review")
	dimColor.Printf("   Target: %s\n\n", prURL)

	// 1. Initialize Application
	timer.step("Initializing application")
	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w\n\nTip: Check that your .env exists and is valid", err)
	}
	defer cleanup()
	timer.done()

	// 2. Parse URL and fetch PR metadata
	timer.step("Fetching PR metadata")
	host, owner, repoName, prNumber, err := gitcli.ParsePullRequestURL(prURL)
	if err != nil {
		return fmt.Errorf("invalid PR URL: %w\n\nExpected format: https://gitee.com/owner/repo/pulls/123", err)
	}

	pr, err := appInstance.Client.GetPullRequest(ctx, owner, repoName, prNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch PR: %w\n\nTip: Check that the PR exists and your token has access", err)
	}

	timer.info("PR #%d: %s", pr.Number, pr.Title)
	timer.info("Branches: %s <- %s", pr.BaseBranch, pr.HeadBranch)
	timer.done()

	req := &core.ReviewRequest{
		Platform:     appInstance.Cfg.Platform,
		Host:         host,
		RepoOwner:    owner,
		RepoName:     repoName,
		RepoFullName: fmt.Sprintf("%s/%s", owner, repoName),
		CloneURL:     pr.CloneURL,
		PRNumber:     prNumber,
		PRTitle:      pr.Title,
		PRBody:       pr.Body,
		BaseBranch:   pr.BaseBranch,
		HeadBranch:   pr.HeadBranch,
		ReReview:     reReview,
	}

	// 3. Run the review end to end
	timer.step("Running review")
	if err := appInstance.ReviewJob.Run(ctx, req); err != nil {
		return fmt.Errorf("review failed: %w", err)
	}
	timer.done()

	if verbose {
		dimColor.Printf("\nTotal time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}

	successColor.Printf("\nReview delivered for %s/%s#%d\n", owner, repoName, prNumber)
	return nil
}
