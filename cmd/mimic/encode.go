package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mimic/internal/tokenizer"
)

func encodeCmd() *cli.Command {
	var (
		text    string
		decode  bool
		verbose bool
	)

	return &cli.Command{
		Name:  "encode",
		Usage: "Tokenize text with the mock vocabulary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"p"},
				Usage:       "text to tokenize",
				Destination: &text,
			},
			&cli.BoolFlag{
				Name:        "round-trip",
				Usage:       "decode the ids again and verify the bytes match",
				Destination: &decode,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "print each token's bytes alongside its id",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tok, err := tokenizer.NewMock(tokenizer.DefaultVocab())
			if err != nil {
				return err
			}
			ids, err := tok.EncodeBytes([]byte(text), true)
			if err != nil {
				return err
			}
			if verbose {
				for _, id := range ids {
					b, _ := tok.TokenBytes(id)
					fmt.Printf("%6d  %q\n", id, b)
				}
			} else {
				fmt.Println(ids)
			}
			if decode {
				out, err := tok.Decode(ids)
				if err != nil {
					return err
				}
				if out != text {
					return fmt.Errorf("round trip mismatch: got %q", out)
				}
				fmt.Println("round trip ok")
			}
			return nil
		},
	}
}
