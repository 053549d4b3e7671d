package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/wire"
)

var outputJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [pr-url]",
	Short: "Shows the review history tracked for a Pull Request",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		host, owner, repoName, prNumber, err := gitcli.ParsePullRequestURL(args[0])
		if err != nil {
			return fmt.Errorf("invalid PR URL: %w", err)
		}

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		fullName := fmt.Sprintf("%s/%s", owner, repoName)
		tracked, err := app.Store.Get(ctx, host, fullName, prNumber)
		if err != nil {
			return fmt.Errorf("failed to retrieve tracker: %w", err)
		}
		if tracked == nil {
			fmt.Printf("No reviews tracked for %s#%d.\n", fullName, prNumber)
			return nil
		}

		if outputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(tracked)
		}

		fmt.Printf("%s#%d\n", fullName, prNumber)
		fmt.Printf("Reviews: %d\n", tracked.ReviewCount)
		if tracked.LastReviewedAt != nil {
			fmt.Printf("Last reviewed: %s\n", tracked.LastReviewedAt.Format(time.RFC822))
		}
		if tracked.DescriptionProcessed {
			fmt.Println("Description trigger: processed")
		}
		if len(tracked.History) == 0 {
			return nil
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSTRENGTHS\tIMPROVEMENTS\tRE-REVIEW\tGROWTH")
		for _, event := range tracked.History {
			growth := "-"
			if event.Growth != nil {
				growth = fmt.Sprintf("%.1f%%", *event.Growth)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%s\n",
				event.Timestamp.Format(time.RFC822),
				event.StrengthCount,
				event.ImprovementCount,
				event.ReReview,
				growth,
			)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output tracker state as JSON")
	rootCmd.AddCommand(statusCmd)
}
