package cmd

import (
	"github.com/spf13/cobra"
)

var logFormat string

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Security detection triage and chat analysis backed by an LLM",
	Long: `analyst classifies a security detection/incident record or a free-text
question, builds the analysis prompt and returns the model's answer.

Configuration is read from the environment (and .env when present).

Examples:
  analyst serve
  analyst invoke detection.json
  cat detection.json | analyst invoke --dry-run`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log output format (json, text)")
}
