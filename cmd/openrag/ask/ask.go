// Package askcmder provides the ask command for one-shot questions against
// the knowledge base.
package askcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/logger"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

type askCommander struct {
	serverURL      string
	apiKey         string
	chatID         string
	limit          int
	scoreThreshold float64
	filterID       string
	noStream       bool
	render         bool
	debug          bool

	logger *slog.Logger
}

const askLongDesc string = `Ask a one-shot question against the knowledge base.

The answer streams to stdout as it is generated, followed by the sources
it was grounded on and the conversation id. Pass --chat with a previous
conversation id to ask a follow-up question with history.

Use --render to format the completed answer as markdown; rendering waits
for the full response, so it implies --no-stream.

Examples:
  openrag ask "What does the Q3 report say about churn?"
  openrag ask --chat 1f0a3b "And what about Q4?"
  openrag ask --render "Summarize the onboarding docs"`

const askShortDesc string = "Ask a one-shot question"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("server") {
				cmder.serverURL = cfg.ServerURL()
			}
			if !cmd.Flags().Changed("limit") {
				cmder.limit = cfg.Chat.Limit
			}
			if !cmd.Flags().Changed("score-threshold") {
				cmder.scoreThreshold = cfg.Chat.ScoreThreshold
			}
			if !cmd.Flags().Changed("render") {
				cmder.render = cfg.Output.Render
			}

			cmder.apiKey = cfg.ServerAPIKey()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context(), args[0])
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")
	cmd.Flags().StringVarP(&cmder.chatID, "chat", "c", "", "Conversation id to continue")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "l", defaults.Chat.Limit, "Maximum retrieved chunks")
	cmd.Flags().Float64Var(&cmder.scoreThreshold, "score-threshold", defaults.Chat.ScoreThreshold, "Minimum retrieval score (0 to 1)")
	cmd.Flags().StringVar(&cmder.filterID, "filter-id", "", "Saved knowledge filter to apply")
	cmd.Flags().BoolVar(&cmder.noStream, "no-stream", false, "Wait for the complete answer instead of streaming")
	cmd.Flags().BoolVarP(&cmder.render, "render", "r", false, "Render the completed answer as markdown (implies --no-stream)")

	return cmd
}

func (c *askCommander) run(ctx context.Context, question string) error {
	c.logger = logger.Nop()
	if c.debug {
		c.logger = logger.New(logger.WithDebug(true), logger.WithPretty(true))
	}

	client, err := openrag.New(openrag.Config{
		BaseURL: c.serverURL,
		APIKey:  c.apiKey,
		Logger:  c.logger,
	})
	if err != nil {
		return err
	}

	req := openrag.ChatRequest{
		Message:        question,
		ChatID:         c.chatID,
		Limit:          c.limit,
		ScoreThreshold: c.scoreThreshold,
		FilterID:       c.filterID,
	}

	if c.noStream || c.render {
		resp, err := client.Chat.Create(ctx, req)
		if err != nil {
			return err
		}
		return c.printComplete(resp)
	}

	stream, err := client.Chat.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for delta, err := range stream.Text() {
		if err != nil {
			return err
		}
		fmt.Print(delta)
	}

	resp, err := stream.Final()
	if err != nil {
		return err
	}

	fmt.Println()
	c.printFooter(resp)
	return nil
}

func (c *askCommander) printComplete(resp *openrag.ChatResponse) error {
	if c.render {
		rendered, err := cliui.RenderMarkdown(resp.Response)
		if err != nil {
			// Fall back to plain text if the terminal can't render.
			fmt.Println(resp.Response)
		} else {
			fmt.Print(rendered)
		}
	} else {
		fmt.Println(resp.Response)
	}

	c.printFooter(resp)
	return nil
}

func (c *askCommander) printFooter(resp *openrag.ChatResponse) {
	if len(resp.Sources) > 0 {
		fmt.Println()
		for _, src := range resp.Sources {
			fmt.Fprintf(os.Stderr, "  %s %s %s\n",
				cliui.DimStyle.Render("source:"),
				cliui.NameStyle.Render(src.Filename),
				cliui.ScoreStyle.Render(fmt.Sprintf("(%.2f)", src.Score)),
			)
		}
	}

	if resp.ChatID != "" {
		fmt.Fprintf(os.Stderr, "\n  %s %s\n",
			cliui.DimStyle.Render("chat:"),
			cliui.DimStyle.Render(resp.ChatID),
		)
	}
}
