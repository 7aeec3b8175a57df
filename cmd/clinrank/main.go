// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/clinrank"
	"github.com/poiesic/clinrank/ai"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/ingestion"
	"github.com/poiesic/clinrank/progressive"
	"github.com/poiesic/clinrank/rank"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "clinrank",
		Usage: "Clinician profile retrieval and rescoring engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest clinician profiles from a JSON file",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON file containing an array of profiles",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent writes",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of profiles written per transaction",
						Value: 64,
					},
				},
			},
			{
				Name:   "rank",
				Usage:  "Rank stored profiles against a patient query",
				Action: rankCommand,
				Flags: append(queryFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "diagnostics",
						Usage: "Include retrieval diagnostics in the output",
					},
				),
			},
			{
				Name:   "shortlist",
				Usage:  "Build a judged shortlist for a patient query",
				Action: shortlistCommand,
				Flags: append(queryFlags(),
					&cli.StringFlag{
						Name:  "judge-host",
						Usage: "Fit judge service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "judge-model",
						Usage: "Fit judge model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Terminate once the top K results are all excellent",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Candidates sent to the judge per iteration",
						Value: 12,
					},
					&cli.IntFlag{
						Name:  "max-iterations",
						Usage: "Maximum fetch/evaluate rounds",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "max-profiles",
						Usage: "Maximum distinct profiles sent to the judge",
						Value: 60,
					},
					&cli.IntFlag{
						Name:  "shortlist-size",
						Usage: "Maximum shortlist length",
						Value: 12,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// queryFlags are the flags shared by the rank and shortlist commands.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "query",
			Aliases:  []string{"q"},
			Usage:    "Raw patient query",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "extract",
			Usage: "Run AI intent extraction on the query before ranking",
		},
		&cli.StringFlag{
			Name:  "intent-host",
			Usage: "Intent extraction service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "intent-model",
			Usage: "Intent extraction model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringSliceFlag{
			Name:  "anchor",
			Usage: "Anchor phrase lifted verbatim from the query (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "safe-lane",
			Usage: "High-confidence symptom or condition term (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "intent-term",
			Usage: "Rescoring intent term (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "negative",
			Usage: "Wrong-lane term to penalize (repeatable)",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "Rescoring strategy (term-boost, ambiguity-primary)",
			Value: "term-boost",
		},
		&cli.StringFlag{
			Name:    "weights",
			Aliases: []string{"w"},
			Usage:   "Path to a JSON file with weight overrides",
		},
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var profiles []*core.Candidate
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("input file contains no profiles")
	}

	dir, err := openDirectory(c)
	if err != nil {
		return err
	}
	defer dir.Close()

	pipeline, err := dir.NewIngestionPipeline(
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.IngestProfiles(ctx, profiles...); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d profiles into %s\n", len(profiles), c.String("db"))
	return nil
}

func rankCommand(c *cli.Context) error {
	ctx := context.Background()

	dir, err := openDirectory(c)
	if err != nil {
		return err
	}
	defer dir.Close()

	bundle, err := buildBundle(ctx, c, dir)
	if err != nil {
		return err
	}

	weights, err := loadWeights(c.String("weights"))
	if err != nil {
		return err
	}

	results, diagnostics, err := dir.Rank(ctx, bundle, weights, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	output := map[string]any{"results": results}
	if c.Bool("diagnostics") {
		output["diagnostics"] = diagnostics
	}
	return writeJSON(output)
}

func shortlistCommand(c *cli.Context) error {
	ctx := context.Background()

	dir, err := openDirectory(c)
	if err != nil {
		return err
	}
	defer dir.Close()

	bundle, err := buildBundle(ctx, c, dir)
	if err != nil {
		return err
	}

	weights, err := loadWeights(c.String("weights"))
	if err != nil {
		return err
	}

	opts := progressive.Options{
		BatchSize:           c.Int("batch-size"),
		TargetTopK:          c.Int("top-k"),
		MaxIterations:       c.Int("max-iterations"),
		MaxProfilesReviewed: c.Int("max-profiles"),
		ShortlistSize:       c.Int("shortlist-size"),
	}

	outcome, err := dir.Shortlist(ctx, bundle, weights, opts)
	if err != nil {
		return fmt.Errorf("shortlist failed: %w", err)
	}

	return writeJSON(outcome)
}

// openDirectory opens the directory with AI hosts taken from the flags that
// the invoked command actually defines.
func openDirectory(c *cli.Context) (*clinrank.Directory, error) {
	var opts []ai.ConfigOption
	if c.String("intent-host") != "" {
		opts = append(opts, ai.WithIntentHost(c.String("intent-host")))
	}
	if c.String("intent-model") != "" {
		opts = append(opts, ai.WithIntentModel(c.String("intent-model")))
	}
	if c.String("judge-host") != "" {
		opts = append(opts, ai.WithJudgeHost(c.String("judge-host")))
	}
	if c.String("judge-model") != "" {
		opts = append(opts, ai.WithJudgeModel(c.String("judge-model")))
	}

	dir, err := clinrank.NewDirectory(c.String("db"), clinrank.WithAIConfig(ai.NewConfig(opts...)))
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	return dir, nil
}

// buildBundle assembles the ranking request either via AI intent extraction
// or directly from the term flags.
func buildBundle(ctx context.Context, c *cli.Context, dir *clinrank.Directory) (*core.QueryBundle, error) {
	if c.Bool("extract") {
		bundle, err := dir.ExtractQuery(ctx, c.String("query"))
		if err != nil {
			return nil, fmt.Errorf("intent extraction failed: %w", err)
		}
		return bundle, nil
	}

	strategy, err := parseStrategy(c.String("strategy"))
	if err != nil {
		return nil, err
	}

	return &core.QueryBundle{
		PatientQuery:  c.String("query"),
		SafeLaneTerms: c.StringSlice("safe-lane"),
		IntentTerms:   c.StringSlice("intent-term"),
		AnchorPhrases: c.StringSlice("anchor"),
		NegativeTerms: c.StringSlice("negative"),
		Strategy:      strategy,
	}, nil
}

func parseStrategy(s string) (core.RescoringStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "term-boost":
		return core.StrategyTermBoost, nil
	case "ambiguity-primary":
		return core.StrategyAmbiguityPrimary, nil
	default:
		return 0, fmt.Errorf("invalid strategy %q: must be term-boost or ambiguity-primary", s)
	}
}

// loadWeights returns the defaults, merged with JSON overrides when a file
// is given.
func loadWeights(path string) (rank.Weights, error) {
	weights := rank.DefaultWeights()
	if path == "" {
		return weights, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rank.Weights{}, fmt.Errorf("failed to read weights file: %w", err)
	}

	merged, err := weights.MergeJSON(data)
	if err != nil {
		return rank.Weights{}, fmt.Errorf("invalid weights file: %w", err)
	}
	return merged, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
