// Package searchcmder provides the search command for semantic search over
// the knowledge base.
package searchcmder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/logger"
	"github.com/openragproject/openrag-go/pkg/openrag"
	"github.com/openragproject/openrag-go/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type searchCommander struct {
	query          string
	limit          int
	scoreThreshold float64
	quiet          bool

	serverURL string
	apiKey    string

	debug  bool
	logger *slog.Logger
}

const searchLongDesc string = `Search the knowledge base without generating an answer.

Returns the most relevant document chunks for the query text, in relevance
order, with their scores. Useful for checking what a chat answer would be
grounded on.

Use --quiet to output only filenames, one per line. This is useful for piping
into other commands like openrag docs rm.

Example:
  openrag search "how to configure logging"
  openrag search "error handling patterns" --limit 10
  openrag search "stale onboarding doc" --quiet`

const searchShortDesc string = "Search the knowledge base"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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

			cmder.apiKey = cfg.ServerAPIKey()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.limit, "limit", "l", defaults.Chat.Limit, "Number of results to return")
	cmd.Flags().Float64Var(&cmder.scoreThreshold, "score-threshold", defaults.Chat.ScoreThreshold, "Minimum retrieval score (0 to 1)")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only filenames, one per line (for piping)")
	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
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

	resp, err := client.Search.Query(ctx, openrag.SearchRequest{
		Query:          c.query,
		Limit:          c.limit,
		ScoreThreshold: c.scoreThreshold,
	})
	if err != nil {
		return err
	}

	if c.quiet {
		for _, result := range resp.Results {
			fmt.Println(result.Filename)
		}
		return nil
	}

	if len(resp.Results) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No results."))
		return nil
	}

	fmt.Println()
	for i, result := range resp.Results {
		page := ""
		if result.Page != nil {
			page = cliui.DimStyle.Render(fmt.Sprintf(" p.%d", *result.Page))
		}

		fmt.Printf("  %s %s%s %s\n",
			rankStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.NameStyle.Render(result.Filename),
			page,
			cliui.ScoreStyle.Render(fmt.Sprintf("(%.2f)", result.Score)),
		)
		fmt.Printf("     %s\n\n", previewStyle.Render(utils.Truncate(result.Text, 160)))
	}

	return nil
}
