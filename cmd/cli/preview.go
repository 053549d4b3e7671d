package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/avolkov/review-courier/internal/delivery"
	"github.com/avolkov/review-courier/internal/format"
)

var (
	previewMaxLen     int
	previewSplitLimit int
	previewPlain      bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Sanitize and split a local comment body without posting it",
	Long: `Sanitize and split a local comment body without posting it.

The preview command runs a markdown file through the same sanitizer and
splitter the delivery pipeline uses, then renders each resulting part so
an operator can check how a long review will land on the platform.

Example:
  courier preview feedback.md --max-len 8000`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	previewCmd.Flags().IntVar(&previewMaxLen, "max-len", 8000, "Platform comment length ceiling")
	previewCmd.Flags().IntVar(&previewSplitLimit, "split-limit", 7500, "Working limit the splitter targets per part")
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Print raw part text instead of rendered markdown")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	sanitized := format.Sanitize(string(raw))
	parts := delivery.Split(sanitized, previewMaxLen, previewSplitLimit)

	titleColor.Printf("Preview: %d part(s)\n", len(parts))

	var renderer *glamour.TermRenderer
	if !previewPlain {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
	}

	for i, part := range parts {
		body := part.Render()
		dimColor.Printf("\n--- part %d/%d (%d bytes) ---\n", i+1, len(parts), len(body))
		if renderer == nil {
			fmt.Println(body)
			continue
		}
		out, err := renderer.Render(body)
		if err != nil {
			return fmt.Errorf("failed to render part %d: %w", i+1, err)
		}
		fmt.Print(out)
	}
	return nil
}
