package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Skip count for pagination",
			Value:       0,
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of conversations to display",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List recent conversations",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			convs, err := repo.ListConversations(ctx, int(offset), int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list conversations")
			}

			if len(convs) == 0 {
				fmt.Fprintf(c.Root().Writer, "No conversations found\n")
				return nil
			}

			for _, conv := range convs {
				fmt.Fprintf(c.Root().Writer, "%d. [%s] %s\n", conv.ID, conv.CreatedAt.Format("2006-01-02 15:04:05"), conv.UserQuestion)
				fmt.Fprintf(c.Root().Writer, "   Answer: %s\n", conv.ChatbotAnswer)
				if conv.Analysis != "" {
					fmt.Fprintf(c.Root().Writer, "   Analysis: %s\n", conv.Analysis)
				}
				fmt.Fprintf(c.Root().Writer, "\n")
			}

			return nil
		},
	}
}
