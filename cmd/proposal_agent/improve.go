package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/evaluate"
	"github.com/jonathan/proposal-assistant/internal/generate"
	"github.com/jonathan/proposal-assistant/internal/improve"
	"github.com/jonathan/proposal-assistant/internal/observability"
)

var (
	improveConfigPath   string
	improveMetadataPath string
	improveProposalPath string
	improveReference    string
	improveCategories   []int
	improveAPIKey       string
	improveModel        string
	improveVerbose      bool
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Run one checklist-driven improvement pass",
	Long: `Evaluates the proposal, turns unmet checklist items into improvement
hints, regenerates the affected sections, and re-evaluates the result. The
updated sections are written back to the proposal file.`,
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVar(&improveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	improveCmd.Flags().StringVarP(&improveMetadataPath, "metadata", "m", "", "Path to project metadata JSON file")
	improveCmd.Flags().StringVarP(&improveProposalPath, "proposal", "p", "", "Path to proposal sections JSON file (read and updated)")
	improveCmd.Flags().StringVarP(&improveReference, "reference", "r", "", "Path to reference document (pdf, docx, or txt)")
	improveCmd.Flags().IntSliceVar(&improveCategories, "categories", nil, "Rubric category indexes to process (default all)")
	improveCmd.Flags().StringVar(&improveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	improveCmd.Flags().StringVar(&improveModel, "model", "", "Override the Gemini model")
	improveCmd.Flags().BoolVarP(&improveVerbose, "verbose", "v", false, "Print detailed progress information")
	rootCmd.AddCommand(improveCmd)
}

func runImprove(_ *cobra.Command, _ []string) error {
	cfg, err := loadOptionalConfig(improveConfigPath)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		improveVerbose = true
	}

	metadataPath := improveMetadataPath
	if metadataPath == "" {
		metadataPath = cfg.Metadata
	}
	if metadataPath == "" {
		return fmt.Errorf("--metadata is required")
	}
	proposalPath := improveProposalPath
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
	referencePath := improveReference
	if referencePath == "" {
		referencePath = cfg.Reference
	}
	reference, err := loadReference(referencePath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg, improveAPIKey, improveModel)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	gen := generate.NewService(client)
	eval := evaluate.NewService(client)
	printer := observability.NewPrinter(os.Stdout)

	// First pass: evaluate to seed the checklist with unmet items.
	fmt.Println("1차 점검 중...")
	verdicts, err := eval.Evaluate(ctx, sections, meta)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	state := checklist.NewState()
	state.ApplyVerdicts(verdicts)
	if improveVerbose {
		printer.PrintChecklist(state)
	}

	runner := improve.NewRunner(gen, eval)
	var onProgress func(improve.Event)
	if improveVerbose {
		onProgress = func(ev improve.Event) {
			switch ev.Type {
			case improve.EventCategoryStart:
				fmt.Printf("▶ %s\n", ev.CategoryName)
			case improve.EventCategorySkip:
				fmt.Printf("— %s: 보완할 항목 없음\n", ev.CategoryName)
			case improve.EventSectionStart:
				fmt.Printf("  다시 작성 중: %s\n", ev.Section.Label())
			case improve.EventSectionError:
				fmt.Printf("  ! %s: %s\n", ev.Section.Label(), ev.Message)
			case improve.EventEvaluating:
				fmt.Println("재점검 중...")
			}
		}
	}

	report, err := runner.Run(ctx, improve.Input{
		Metadata:  meta,
		Reference: reference,
		Sections:  sections,
		State:     state,
	}, improve.RunOptions{
		Categories: improveCategories,
		OnProgress: onProgress,
	})
	if err != nil {
		return err
	}

	if err := saveSections(proposalPath, report.Sections); err != nil {
		return err
	}

	printer.PrintReport(report)
	printer.PrintChecklist(state)
	if improveVerbose {
		printer.PrintSections(report.Sections)
	}
	fmt.Fprintf(os.Stderr, "Saved to %s\n", proposalPath)

	return nil
}
