package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mimic/internal/engine"
	"github.com/samcharles93/mimic/internal/logger"
	"github.com/samcharles93/mimic/internal/tokenizer"
)

var (
	patterns  []string
	force     bool
	seed      int64
	logLevel  string
	logFormat string
)

func commonEngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "pattern",
			Aliases:     []string{"P"},
			Usage:       "target byte pattern to bias generation toward (repeatable; order is priority order)",
			Destination: &patterns,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "block every token not on a configured pattern",
			Destination: &force,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "rng seed for logit noise and sampling",
			Value:       42,
			Destination: &seed,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func newLog() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

// buildEngine constructs the mock engine from the shared engine flags, with
// config-file defaults already applied.
func buildEngine() (*engine.Engine, error) {
	tok, err := tokenizer.NewMock(tokenizer.DefaultVocab())
	if err != nil {
		return nil, err
	}
	bytePatterns := make([][]byte, len(patterns))
	for i, p := range patterns {
		bytePatterns[i] = []byte(p)
	}
	return engine.New(tok, engine.Config{
		Patterns: bytePatterns,
		Force:    force,
		Seed:     seed,
	}), nil
}
