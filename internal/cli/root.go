// Package cli implements the ReadQuest command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readquest",
	Short: "ReadQuest: gamified classroom reading log",
	Long: `ReadQuest turns independent reading into a game.
Students log reading sessions, earn XP and coins, unlock achievements,
and decorate a virtual reading room. Teachers manage classes and watch
reflections roll in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
