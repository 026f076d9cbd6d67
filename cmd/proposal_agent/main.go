// Package main provides the entry point for the proposal assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proposal_agent",
	Short: "사회복지공동모금회 사업계획서 작성 도우미",
	Long:  "Drafts, checks, and improves grant proposal narratives for 사회복지공동모금회 submissions, via REST API or directly from the command line.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
