// Package settingscmder provides the settings command for inspecting and
// updating server configuration.
package settingscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

const settingsLongDesc string = `Show the server's agent and knowledge base settings.

Displays the LLM provider and model used for generation and the embedding
configuration used for retrieval.

Use "openrag settings update" to change them:
  openrag settings update --llm-provider anthropic --llm-model claude-sonnet-4-5

Example:
  openrag settings`

const settingsShortDesc string = "Show server settings"

func NewSettingsCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: settingsShortDesc,
		Long:  settingsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ctx, err := newClient(cmd, serverURL)
			if err != nil {
				return err
			}

			resp, err := client.Settings.Get(ctx)
			if err != nil {
				return err
			}

			printSettings(resp)
			return nil
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	cmd.AddCommand(newUpdateCmd())

	return cmd
}

func newClient(cmd *cobra.Command, serverURL string) (*openrag.Client, context.Context, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("server") {
		serverURL = cfg.ServerURL()
	}

	client, err := openrag.New(openrag.Config{
		BaseURL: serverURL,
		APIKey:  cfg.ServerAPIKey(),
	})
	if err != nil {
		return nil, nil, err
	}

	return client, cmd.Context(), nil
}

func printSettings(resp *openrag.SettingsResponse) {
	fmt.Println()
	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Agent"))
	printValue("llm_provider", resp.Agent.LLMProvider)
	printValue("llm_model", resp.Agent.LLMModel)
	printValue("system_prompt", resp.Agent.SystemPrompt)

	fmt.Println()
	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Knowledge"))
	printValue("embedding_provider", resp.Knowledge.EmbeddingProvider)
	printValue("embedding_model", resp.Knowledge.EmbeddingModel)
	printValue("chunk_size", fmt.Sprintf("%d", resp.Knowledge.ChunkSize))
	printValue("chunk_overlap", fmt.Sprintf("%d", resp.Knowledge.ChunkOverlap))
	fmt.Println()
}

func printValue(key, value string) {
	if value == "" || value == "0" {
		fmt.Printf("    %-20s %s\n", key, cliui.DimStyle.Render("<not set>"))
		return
	}
	fmt.Printf("    %-20s %s\n", key, cliui.ValueStyle.Render(value))
}
