package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/evaluate"
	"github.com/jonathan/proposal-assistant/internal/observability"
)

var (
	checkConfigPath   string
	checkMetadataPath string
	checkProposalPath string
	checkAPIKey       string
	checkModel        string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a proposal against the review checklist",
	Long: `Sends the proposal narrative to the evaluator and prints the checklist
verdicts, the readiness score, and the readiness tier.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	checkCmd.Flags().StringVarP(&checkMetadataPath, "metadata", "m", "", "Path to project metadata JSON file")
	checkCmd.Flags().StringVarP(&checkProposalPath, "proposal", "p", "", "Path to proposal sections JSON file")
	checkCmd.Flags().StringVar(&checkAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	checkCmd.Flags().StringVar(&checkModel, "model", "", "Override the Gemini model")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	cfg, err := loadOptionalConfig(checkConfigPath)
	if err != nil {
		return err
	}

	metadataPath := checkMetadataPath
	if metadataPath == "" {
		metadataPath = cfg.Metadata
	}
	if metadataPath == "" {
		return fmt.Errorf("--metadata is required")
	}

	proposalPath := checkProposalPath
	if proposalPath == "" {
		proposalPath = cfg.Proposal
	}
	if proposalPath == "" {
		return fmt.Errorf("--proposal is required")
	}

	meta, err := loadMetadata(metadataPath)
	if err != nil {
		return err
	}
	sections, err := loadSections(proposalPath)
	if err != nil {
		return err
	}
	if sections.IsEmpty() {
		return fmt.Errorf("proposal has no content to check")
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg, checkAPIKey, checkModel)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	svc := evaluate.NewService(client)
	verdicts, err := svc.Evaluate(ctx, sections, meta)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	state := checklist.NewState()
	state.ApplyVerdicts(verdicts)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintChecklist(state)

	return nil
}
