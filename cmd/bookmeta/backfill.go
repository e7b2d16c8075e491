// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/classify"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Assign classification codes to unclassified books",
	Long: `Run the CLC classifier over every book that has no classification
code yet. CIP codes recorded at ingest time win; otherwise the LLM tier
is consulted when enabled, with the keyword rules as the final fallback.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck // best-effort close on shutdown

		books, err := a.repo.ListMissingCLC(ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			fmt.Println(SuccessStyle.Render("All books are classified."))
			return nil
		}

		classifier := &classify.Classifier{}
		if a.cfg.Classify.LLMEnabled {
			if llm, llmErr := classify.NewGenAIClassifier(ctx, a.cfg.Classify.LLMModel); llmErr == nil && llm != nil {
				classifier.LLM = llm
			}
		}

		assigned := 0
		for _, b := range books {
			result := classifier.Classify(ctx, classify.Input{
				Title:   b.Title,
				Authors: b.AuthorList(),
				Summary: b.Summary,
				CIP:     b.CIP,
			})
			if result.Code == "" {
				continue
			}
			if err := a.repo.SetCLC(ctx, b.ID, result.Code); err != nil {
				return fmt.Errorf("set classification for book %d: %w", b.ID, err)
			}
			a.logger.Info("classified", "id", b.ID, "title", b.Title,
				"clc", result.Code, "source", result.Source, "confidence", result.Confidence)
			assigned++
		}

		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Classified %d of %d books.", assigned, len(books))))
		return nil
	},
}
