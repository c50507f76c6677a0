package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	var (
		prompt     string
		steps      int64
		temp       float64
		showTokens bool
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Generate tokens from the mock engine",
		Flags: append(append(commonEngineFlags(), loggingFlags()...),
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "prompt text to start generation from",
				Destination: &prompt,
			},
			&cli.Int64Flag{
				Name:        "steps",
				Aliases:     []string{"n"},
				Usage:       "maximum number of tokens to generate",
				Value:       32,
				Destination: &steps,
			},
			&cli.Float64Flag{
				Name:        "temp",
				Aliases:     []string{"temperature", "t"},
				Usage:       "sampling temperature (0 = greedy)",
				Value:       0,
				Destination: &temp,
			},
			&cli.BoolFlag{
				Name:        "show-tokens",
				Usage:       "print token ids after generation",
				Destination: &showTokens,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyEngineConfig(cmd, cfg)
			if cfg.Steps != nil && !cmd.IsSet("steps") {
				steps = *cfg.Steps
			}
			if cfg.Temperature != nil && !cmd.IsSet("temp") && !cmd.IsSet("temperature") && !cmd.IsSet("t") {
				temp = *cfg.Temperature
			}
			log := newLog()

			eng, err := buildEngine()
			if err != nil {
				return err
			}

			ids, stats, err := eng.Generate(ctx, []byte(prompt), int(steps), temp, func(s string) {
				fmt.Print(s)
			})
			if err != nil {
				return err
			}
			fmt.Println()

			log.Info("generation complete",
				"tokens", stats.TokensGenerated,
				"duration", stats.Duration,
				"tps", fmt.Sprintf("%.1f", stats.TPS),
			)
			if showTokens {
				fmt.Fprintf(os.Stderr, "token ids: %v\n", ids)
			}
			return nil
		},
	}
}
