package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/tool/memory"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg       config
		threshold float64
		limit     int64
	)

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "threshold",
			Aliases:     []string{"t"},
			Usage:       "Minimum cosine similarity score (0-1)",
			Value:       memory.DefaultThreshold,
			Sources:     cli.EnvVars("MEMORA_SEARCH_THRESHOLD"),
			Destination: &threshold,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of memories to return",
			Value:       memory.DefaultMatchCount,
			Sources:     cli.EnvVars("MEMORA_SEARCH_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search stored memories by semantic similarity",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := c.Args().First()
			if query == "" {
				return goerr.New("query argument is required")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			memTools := memory.New(gemini, repo, int32(cfg.embeddingDim))
			for _, result := range memTools.Search(ctx, query, threshold, int(limit)) {
				fmt.Fprintf(c.Root().Writer, "%s\n", result)
			}

			return nil
		},
	}
}
