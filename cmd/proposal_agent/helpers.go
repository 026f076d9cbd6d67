package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/proposal-assistant/internal/config"
	"github.com/jonathan/proposal-assistant/internal/extract"
	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// loadMetadata reads project metadata from a JSON file.
func loadMetadata(path string) (*types.ProposalMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}

	var meta types.ProposalMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	if meta.AgencyName == "" || meta.ProjectName == "" {
		return nil, fmt.Errorf("metadata must include agency_name and project_name")
	}
	return &meta, nil
}

// loadSections reads a proposal's section texts from a JSON file mapping
// section keys to bodies. Unknown keys are rejected.
func loadSections(path string) (types.Sections, error) {
	sections := types.NewSections()
	if path == "" {
		return sections, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposal file %s: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse proposal JSON: %w", err)
	}

	for k, text := range raw {
		key, err := types.ParseSectionKey(k)
		if err != nil {
			return nil, fmt.Errorf("proposal file %s: %w", path, err)
		}
		sections[key] = text
	}
	return sections, nil
}

// saveSections writes section texts back to a JSON file.
func saveSections(path string, sections types.Sections) error {
	raw := make(map[string]string, len(sections))
	for key, text := range sections {
		if text != "" {
			raw[string(key)] = text
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode proposal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write proposal file %s: %w", path, err)
	}
	return nil
}

// loadReference extracts reference text from a pdf, docx, or txt file.
func loadReference(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read reference file %s: %w", path, err)
	}

	text, err := extract.Extract(filepath.Base(path), "", data)
	if err != nil {
		return "", fmt.Errorf("failed to extract reference text: %w", err)
	}
	return text, nil
}

// newLLMClient builds the Gemini client from config and flags.
func newLLMClient(ctx context.Context, cfg *config.Config, flagAPIKey, flagModel string) (llm.Client, error) {
	apiKey := flagAPIKey
	if apiKey == "" {
		apiKey = cfg.ResolveAPIKey()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (--api-key flag or GEMINI_API_KEY env var)")
	}

	llmCfg := llm.DefaultGeminiConfig()
	model := flagModel
	if model == "" && cfg != nil {
		model = cfg.Model
	}
	if model != "" {
		llmCfg = llmCfg.
			WithModel(llm.TierLite, model).
			WithModel(llm.TierStandard, model).
			WithModel(llm.TierAdvanced, model)
	}

	return llm.NewClient(ctx, llmCfg, apiKey)
}

// loadOptionalConfig loads the --config file when given, or returns an empty
// config.
func loadOptionalConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
