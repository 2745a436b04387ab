package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "tandem",
	Short: "tandem - language-exchange partner matching service",
	Long: `tandem scores and ranks language-exchange partner candidates.

It combines deterministic compatibility dimensions (language exchange
fit, proficiency levels, schedule, goals, personality, shared topics)
with an embedding-based semantic signal and model-generated match
explanations, all served over a small REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tandem version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tandem version %s\n", version)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
