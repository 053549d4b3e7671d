package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/platform"
	"github.com/avolkov/review-courier/internal/wire"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch [project]",
	Short: "Review every open Pull Request across a project's repositories",
	Long: `Review every open Pull Request across a project's repositories.

The batch command lists the repositories of the given project
(organization), collects their open PRs, and reviews them concurrently.
Part delivery within a single review stays sequential; only distinct PRs
run in parallel.

Example:
  courier batch my-org --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Maximum number of PRs reviewed in parallel")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	project := args[0]

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	titleColor.Printf("Review Courier - Batch Review: %s\n", project)

	repos, err := appInstance.Client.ListRepos(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to list repositories for %s: %w", project, err)
	}
	if len(repos) == 0 {
		warnColor.Println("No repositories found.")
		return nil
	}
	dimColor.Printf("   Repositories: %d\n", len(repos))

	type prTarget struct {
		repo platform.Repo
		pr   platform.PullRequest
	}
	var targets []prTarget
	for _, repo := range repos {
		owner, name, ok := splitFullName(repo.FullName)
		if !ok {
			warnColor.Printf("   skipping %s: unexpected repository name\n", repo.FullName)
			continue
		}
		prs, err := appInstance.Client.ListPullRequests(ctx, owner, name, platform.StateOpen)
		if err != nil {
			return fmt.Errorf("failed to list open PRs for %s: %w", repo.FullName, err)
		}
		for _, pr := range prs {
			targets = append(targets, prTarget{repo: repo, pr: pr})
		}
	}
	if len(targets) == 0 {
		warnColor.Println("No open pull requests found.")
		return nil
	}
	dimColor.Printf("   Open PRs: %d\n\n", len(targets))

	var reviewed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, t := range targets {
		g.Go(func() error {
			owner, name, _ := splitFullName(t.repo.FullName)
			req := &core.ReviewRequest{
				Platform:     appInstance.Cfg.Platform,
				Host:         appInstance.Cfg.Host,
				RepoOwner:    owner,
				RepoName:     name,
				RepoFullName: t.repo.FullName,
				CloneURL:     t.pr.CloneURL,
				PRNumber:     t.pr.Number,
				PRTitle:      t.pr.Title,
				PRBody:       t.pr.Body,
				BaseBranch:   t.pr.BaseBranch,
				HeadBranch:   t.pr.HeadBranch,
			}
			if err := appInstance.ReviewJob.Run(gctx, req); err != nil {
				failed.Add(1)
				warnColor.Printf("   failed  %s#%d: %v\n", t.repo.FullName, t.pr.Number, err)
				// One failed PR should not stop the rest of the batch.
				return nil
			}
			reviewed.Add(1)
			successColor.Printf("   done    %s#%d\n", t.repo.FullName, t.pr.Number)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println()
	successColor.Printf("Batch finished: %d reviewed, %d failed\n", reviewed.Load(), failed.Load())
	return nil
}

func splitFullName(fullName string) (owner, name string, ok bool) {
	for i := range fullName {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:], i > 0 && i < len(fullName)-1
		}
	}
	return "", "", false
}
