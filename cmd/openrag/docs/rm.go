package docscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

const rmLongDesc string = `Remove a document from the knowledge base.

Deletes the document and every chunk derived from it. The filename is the
base name the document was ingested under.

Example:
  openrag docs rm report.pdf`

const rmShortDesc string = "Remove a document"

func newRmCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "rm <filename>",
		Short: rmShortDesc,
		Long:  rmLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
				serverURL = cfg.ServerURL()
			}

			return runRm(cmd.Context(), serverURL, cfg.ServerAPIKey(), args[0])
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}

func runRm(ctx context.Context, serverURL, apiKey, filename string) error {
	client, err := openrag.New(openrag.Config{
		BaseURL: serverURL,
		APIKey:  apiKey,
	})
	if err != nil {
		return err
	}

	resp, err := client.Documents.Delete(ctx, filename)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Removed %s %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(filename),
		cliui.DimStyle.Render(fmt.Sprintf("(%d chunks)", resp.DeletedChunks)),
	)

	return nil
}
