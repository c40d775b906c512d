// Package chatcmder provides the chat command for interactive retrieval
// augmented chat against the OpenRAG server.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/logger"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("openrag> ")
)

type chatCommander struct {
	serverURL      string
	apiKey         string
	chatID         string
	limit          int
	scoreThreshold float64
	showSources    bool
	debug          bool

	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat session against the knowledge base.

Each answer streams to the terminal as it is generated. The server keeps
the conversation history, so follow-up questions have full context. Pass
--chat with a previous conversation id to resume it.

Examples:
  openrag chat
  openrag chat --chat 1f0a3b
  openrag chat --sources`

const chatShortDesc string = "Interactive chat with your documents"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
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

			cmder.apiKey = cfg.ServerAPIKey()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")
	cmd.Flags().StringVarP(&cmder.chatID, "chat", "c", "", "Conversation id to resume")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "l", defaults.Chat.Limit, "Maximum retrieved chunks")
	cmd.Flags().Float64Var(&cmder.scoreThreshold, "score-threshold", defaults.Chat.ScoreThreshold, "Minimum retrieval score (0 to 1)")
	cmd.Flags().BoolVar(&cmder.showSources, "sources", false, "Show sources after each answer")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
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

	fmt.Println()
	if c.chatID != "" {
		fmt.Printf("  %s Resuming conversation %s\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(c.chatID),
		)
	} else {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.serverURL),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		if err := c.sendAndStream(ctx, client, input); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// sendAndStream sends one message and streams the answer to stdout. The
// conversation id from the done event is kept so the next turn continues
// the same conversation.
func (c *chatCommander) sendAndStream(ctx context.Context, client *openrag.Client, message string) error {
	stream, err := client.Chat.Stream(ctx, openrag.ChatRequest{
		Message:        message,
		ChatID:         c.chatID,
		Limit:          c.limit,
		ScoreThreshold: c.scoreThreshold,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Print(assistantPrompt)

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

	c.chatID = resp.ChatID

	if c.showSources && len(resp.Sources) > 0 {
		fmt.Println()
		for _, src := range resp.Sources {
			fmt.Printf("\n  %s %s %s",
				cliui.DimStyle.Render("source:"),
				cliui.NameStyle.Render(src.Filename),
				cliui.ScoreStyle.Render(fmt.Sprintf("(%.2f)", src.Score)),
			)
		}
	}

	return nil
}
