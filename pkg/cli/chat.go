package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/agent"
	"github.com/memora-dev/memora/pkg/service/mcp"
	"github.com/memora-dev/memora/pkg/tool"
	"github.com/memora-dev/memora/pkg/tool/memory"
	"github.com/memora-dev/memora/pkg/usecase/chat"
	"github.com/memora-dev/memora/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var exitKeywords = []string{"exit", "quit", "bye"}

// isExitCommand reports whether the input ends the interactive session
func isExitCommand(line string) bool {
	lowered := strings.ToLower(strings.TrimSpace(line))
	for _, kw := range exitKeywords {
		if lowered == kw {
			return true
		}
	}
	return false
}

func chatCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, mcpFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat with memory-augmented PR analysis agent",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = logging.With(ctx, logging.New(cfg.logLevel, c.Root().ErrWriter))

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
			tools := []tool.Tool{memTools}

			// The MCP session outlives all turns and is released on any
			// exit path
			provider, err := mcp.LoadAndConnect(ctx, cfg.mcpConfig)
			if err != nil {
				return goerr.Wrap(err, "failed to set up MCP tools")
			}
			if provider != nil {
				defer func() {
					if err := provider.Close(); err != nil {
						logging.From(ctx).Warn("failed to close MCP sessions", "error", err)
					}
				}()
				tools = append(tools, provider)
			}

			runner := agent.New(gemini, tool.New(tools...))

			session, err := chat.New(chat.NewInput{
				Repo:     repo,
				Runner:   runner,
				Memories: memTools,
				Output:   c.Root().Writer,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create chat session")
			}

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if isExitCommand(line) {
					fmt.Fprintf(c.Root().Writer, "Goodbye!\n")
					return nil
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()

				turn, err := session.Send(ctx, line)
				sp.Stop()
				if err != nil {
					return goerr.Wrap(err, "failed to process turn")
				}

				fmt.Fprintf(c.Root().Writer, "%s\n", turn.Answer)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
