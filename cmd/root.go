// Package cmd holds the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trace-rescue",
	Short: "Missing-person case registry with facial-recognition search",
	Long: `Trace Rescue is the case lifecycle and recognition orchestration service
for a missing-person registry. It manages case records, runs recognition
searches against the facial-recognition backend, and reconciles confirmed
detections back into case state.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
