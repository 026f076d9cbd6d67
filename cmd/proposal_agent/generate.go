package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-assistant/internal/generate"
	"github.com/jonathan/proposal-assistant/internal/types"
)

var (
	genConfigPath   string
	genMetadataPath string
	genProposalPath string
	genReference    string
	genSection      string
	genAPIKey       string
	genModel        string
	genImprove      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft one proposal section",
	Long: `Drafts a single proposal section from the project metadata, streaming the
text to stdout. With --proposal the result is also written back to the file;
with --improve the section's current text is rewritten instead of replaced.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genMetadataPath, "metadata", "m", "", "Path to project metadata JSON file")
	generateCmd.Flags().StringVarP(&genProposalPath, "proposal", "p", "", "Path to proposal sections JSON file (read and updated)")
	generateCmd.Flags().StringVarP(&genReference, "reference", "r", "", "Path to reference document (pdf, docx, or txt)")
	generateCmd.Flags().StringVarP(&genSection, "section", "s", "", "Section key (necessity, objectives, content, schedule, budget, evaluation, effects)")
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Override the Gemini model")
	generateCmd.Flags().BoolVar(&genImprove, "improve", false, "Rewrite the section's current text instead of drafting fresh")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := loadOptionalConfig(genConfigPath)
	if err != nil {
		return err
	}

	metadataPath := genMetadataPath
	if metadataPath == "" {
		metadataPath = cfg.Metadata
	}
	if metadataPath == "" {
		return fmt.Errorf("--metadata is required")
	}

	key, err := types.ParseSectionKey(genSection)
	if err != nil {
		return err
	}

	meta, err := loadMetadata(metadataPath)
	if err != nil {
		return err
	}

	proposalPath := genProposalPath
	if proposalPath == "" {
		proposalPath = cfg.Proposal
	}
	sections, err := loadSections(proposalPath)
	if err != nil {
		return err
	}

	referencePath := genReference
	if referencePath == "" {
		referencePath = cfg.Reference
	}
	reference, err := loadReference(referencePath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg, genAPIKey, genModel)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	var current string
	if genImprove {
		current = sections[key]
	}

	svc := generate.NewService(client)
	stream, err := svc.Stream(ctx, generate.Request{
		Section:   key,
		Metadata:  meta,
		Reference: reference,
		Current:   current,
	})
	if err != nil {
		return err
	}

	fmt.Printf("== %s ==\n", key.Label())
	var text string
	for chunk := range stream {
		if chunk.Err != nil {
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("generation aborted: %w", chunk.Err)
		}
		text += chunk.Text
		fmt.Print(chunk.Text)
	}
	fmt.Println()

	if proposalPath != "" {
		sections[key] = text
		if err := saveSections(proposalPath, sections); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", proposalPath)
	}

	return nil
}
