package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-assistant/internal/export"
)

var (
	exportConfigPath   string
	exportMetadataPath string
	exportProposalPath string
	exportOutput       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the proposal as a print-ready HTML document",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	exportCmd.Flags().StringVarP(&exportMetadataPath, "metadata", "m", "", "Path to project metadata JSON file")
	exportCmd.Flags().StringVarP(&exportProposalPath, "proposal", "p", "", "Path to proposal sections JSON file")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (defaults to the document filename in the current directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadOptionalConfig(exportConfigPath)
	if err != nil {
		return err
	}

	metadataPath := exportMetadataPath
	if metadataPath == "" {
		metadataPath = cfg.Metadata
	}
	if metadataPath == "" {
		return fmt.Errorf("--metadata is required")
	}
	proposalPath := exportProposalPath
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

	doc, err := export.Render(meta, sections)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	output := exportOutput
	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		output = export.Filename(meta)
	}

	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Exported to %s\n", output)
	return nil
}
