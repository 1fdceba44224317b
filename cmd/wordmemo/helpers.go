package main

import (
	"fmt"

	"github.com/at-ishikawa/wordmemo/internal/config"
	"github.com/at-ishikawa/wordmemo/internal/studysheet"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newExporter(cfg *config.Config) *studysheet.Exporter {
	return studysheet.NewExporter(cfg.Outputs.StudySheetDirectory, cfg.Templates.StudySheetTemplate)
}
