package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func topkCmd() *cli.Command {
	var (
		text string
		k    int64
	)

	return &cli.Command{
		Name:  "topk",
		Usage: "Report per-position probabilities and top-k alternatives for a text",
		Flags: append(commonEngineFlags(),
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"p"},
				Usage:       "text to analyze",
				Destination: &text,
			},
			&cli.Int64Flag{
				Name:        "k",
				Usage:       "number of alternatives per position",
				Value:       5,
				Destination: &k,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyEngineConfig(cmd, LoadConfig())

			eng, err := buildEngine()
			if err != nil {
				return err
			}
			ids, err := eng.Tokenizer().EncodeBytes([]byte(text), true)
			if err != nil {
				return err
			}

			for i, entry := range eng.PerTokenTopK(ids, int(k)) {
				fmt.Printf("pos %d: %q (id %d, p=%.4f)\n", i, entry.Text, entry.ID, entry.Prob)
				for _, alt := range entry.TopK {
					fmt.Printf("    %q (id %d, p=%.4f)\n", alt.Text, alt.ID, alt.Prob)
				}
			}
			return nil
		},
	}
}
