package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	platformToken string
)

var rootCmd = &cobra.Command{
	Use:   "courier",
	Short: "courier is the command-line interface for Review-Courier.",
	Long:  `A CLI for driving the Review-Courier service, allowing single-PR reviews, project-wide batch runs, and tracker inspection.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&platformToken, "token", "t", "", "Platform access token")

	if err := viper.BindPFlag("GITEE_TOKEN", rootCmd.PersistentFlags().Lookup("token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in ENV variables if set. Keys stay unprefixed so the CLI
// and the server read the same variable names.
func initConfig() {
	viper.AutomaticEnv()
}
