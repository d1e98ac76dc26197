package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"jobscout-scraper/internal/classify"
)

func LoadConfig(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close config file: %v", closeErr)
		}
	}()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

// LoadLexicon loads indicator phrase sets from a YAML file, falling back to
// the built-in sets when no file is configured.
func (c *Config) LoadLexicon() (*classify.Lexicon, error) {
	if c.Files.Lexicon == "" {
		return classify.DefaultLexicon(), nil
	}

	file, err := os.Open(c.Files.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close lexicon file: %v", closeErr)
		}
	}()

	var lexicon classify.Lexicon
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&lexicon); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon YAML: %w", err)
	}

	if err := lexicon.Validate(); err != nil {
		return nil, err
	}

	return &lexicon, nil
}
