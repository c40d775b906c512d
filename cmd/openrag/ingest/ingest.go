// Package ingestcmder provides the ingest command for adding documents to
// the knowledge base.
package ingestcmder

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

type ingestCommander struct {
	serverURL string
	apiKey    string

	debug  bool
	logger *slog.Logger
}

const ingestLongDesc string = `Ingest documents into the knowledge base.

Each file is uploaded, chunked, and embedded by the server. The file's base
name becomes the document's identity: ingesting the same name again replaces
it, and "openrag docs rm <name>" removes it.

Example:
  openrag ingest report.pdf
  openrag ingest docs/*.md`

const ingestShortDesc string = "Ingest documents into the knowledge base"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.MinimumNArgs(1),
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

			cmder.apiKey = cfg.ServerAPIKey()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context(), args)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context, paths []string) error {
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

	failed := 0
	for _, path := range paths {
		var resp *openrag.IngestResponse

		err := cliui.Step(os.Stdout, fmt.Sprintf("Ingesting %s", path), func() error {
			var err error
			resp, err = client.Documents.IngestFile(ctx, path)
			return err
		})
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "    %v\n", err)
			continue
		}

		fmt.Printf("    %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d chunks", resp.Chunks)),
			cliui.DimStyle.Render(resp.DocumentID),
		)
	}

	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(paths))
	}

	return nil
}
