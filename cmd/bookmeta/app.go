// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/classify"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/covers"
	"bookmeta-cli/internal/pipeline"
	"bookmeta-cli/internal/provider"
	"bookmeta-cli/internal/store"

	"gorm.io/gorm"
)

// app bundles the wired application components shared by the subcommands.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	repo     *store.Repository
	covers   *covers.Store
	pipeline *pipeline.Pipeline
	logger   *log.Logger
}

// newApp loads the configuration and wires the database, the provider
// chain, the cover store, the classifier and the ingest pipeline.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return newAppFor(ctx, cfg)
}

// newAppFor wires the components for an already loaded configuration.
// Opening the database creates the data directory, so callers that gate
// on preflight checks load the config themselves and wire only after the
// checks pass.
func newAppFor(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := newLogger()

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := store.NewRepository(db)
	chain := provider.FromConfig(cfg, logger)
	client := provider.NewClient(cfg.HTTP)
	coverStore := covers.NewStore(cfg.CoversDir(), client)

	classifier := &classify.Classifier{}
	if cfg.Classify.LLMEnabled {
		llm, llmErr := classify.NewGenAIClassifier(ctx, cfg.Classify.LLMModel)
		if llmErr != nil {
			logger.Warn("llm classifier unavailable, using rule-based fallback", "error", llmErr)
		} else if llm != nil {
			classifier.LLM = llm
		}
	}

	return &app{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		covers:   coverStore,
		pipeline: pipeline.New(repo, chain, coverStore, classifier, logger),
		logger:   logger,
	}, nil
}

// Close releases the database handle.
func (a *app) Close() error {
	return store.Close(a.db)
}
