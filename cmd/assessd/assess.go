package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/assessd/internal/alignment"
	"github.com/fyrsmithlabs/assessd/internal/config"
	"github.com/fyrsmithlabs/assessd/internal/corpus"
	"github.com/fyrsmithlabs/assessd/internal/embeddings"
	"github.com/fyrsmithlabs/assessd/internal/logging"
	"github.com/fyrsmithlabs/assessd/internal/orchestrator"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

var (
	analysesPath string
	outputPath   string
	showProgress bool
)

var assessCmd = &cobra.Command{
	Use:   "assess <documents.json>",
	Short: "Run a full assessment over a document bundle",
	Long: `Run a full assessment over a JSON document bundle and print the run
result as JSON.

The bundle is an array of documents:

  [{"id": "doc-1", "category": "architecture", "filename": "overview.md",
    "raw_text": "..."}]

Categories are architecture, diagram, and case. An optional analyses file
maps document ids to analysis results produced by an upstream layer.

Examples:
  # Assess a bundle with built-in category definitions
  assessd assess documents.json

  # Include upstream analysis results and write the run to a file
  assessd assess documents.json --analyses analyses.json --output run.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVar(&analysesPath, "analyses", "", "path to JSON analysis results keyed by document id")
	assessCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the run result to a file instead of stdout")
	assessCmd.Flags().BoolVar(&showProgress, "progress", false, "print phase progress to stderr")
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	docs, err := readDocuments(args[0])
	if err != nil {
		return err
	}
	analyses, err := readAnalyses(analysesPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := buildOrchestrator(cfg, logger)
	notify := orchestrator.ProgressFunc(nil)
	if showProgress {
		notify = func(percent int, description string) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, description)
		}
	}

	run, err := orch.Execute(ctx, docs, analyses, notify)
	if err != nil {
		logger.Error(ctx, "assessment failed", zap.Error(err))
		return err
	}
	return writeRun(run)
}

// buildOrchestrator wires the orchestration stack from configuration.
func buildOrchestrator(cfg *config.Config, logger *logging.Logger) *orchestrator.Orchestrator {
	var source scoring.DefinitionSource
	if cfg.Definitions.Dir != "" {
		source = scoring.NewFSSource(cfg.Definitions.Dir)
	} else {
		source = scoring.NewEmbeddedSource()
	}

	var embedder embeddings.Embedder
	if cfg.Embeddings.Enabled {
		service, err := embeddings.NewService(embeddings.Config{
			BaseURL: cfg.Embeddings.BaseURL,
			Model:   cfg.Embeddings.Model,
			APIKey:  cfg.Embeddings.APIKey,
			Timeout: time.Duration(cfg.Embeddings.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			// Deduplication degrades to the bag-of-words fallback.
			logger.Warn(context.Background(), "embedding service unavailable", zap.Error(err))
		} else {
			embedder = embeddings.NewCachedEmbedder(service, embeddings.NewCache(cfg.Embeddings.CacheSize))
		}
	}

	assembler := corpus.NewAssembler(logger, corpus.Budgets{
		Narrative: cfg.Corpus.NarrativeTokens,
		Visual:    cfg.Corpus.VisualTokens,
		Incident:  cfg.Corpus.IncidentTokens,
	})
	executor := orchestrator.NewScoringExecutor(source, cfg.Definitions.Categories, logger)
	dedup := alignment.NewDeduplicator(embedder, cfg.Dedup.Threshold, logger)

	var pacer orchestrator.Pacer
	if cfg.Pacing.MinPhaseDuration > 0 {
		pacer = orchestrator.NewFixedPacer(cfg.Pacing.MinPhaseDuration)
	}
	return orchestrator.New(assembler, executor, dedup, pacer, logger)
}

func readDocuments(path string) ([]corpus.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	var docs []corpus.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing documents: %w", err)
	}
	return docs, nil
}

func readAnalyses(path string) (map[string]corpus.AnalysisResult, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analyses: %w", err)
	}
	var analyses map[string]corpus.AnalysisResult
	if err := json.Unmarshal(data, &analyses); err != nil {
		return nil, fmt.Errorf("parsing analyses: %w", err)
	}
	return analyses, nil
}

func writeRun(run *orchestrator.Run) error {
	out, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	out = append(out, '\n')
	if outputPath != "" {
		return os.WriteFile(outputPath, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
