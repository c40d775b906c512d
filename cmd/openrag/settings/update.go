package settingscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

const updateLongDesc string = `Update server settings.

Only the sections touched by flags are sent; everything else is left as-is.
Changing agent settings affects generation immediately. Changing embedding
settings only affects documents ingested afterwards.

Example:
  openrag settings update --llm-provider anthropic --llm-model claude-sonnet-4-5
  openrag settings update --chunk-size 1500 --chunk-overlap 300`

const updateShortDesc string = "Update server settings"

func newUpdateCmd() *cobra.Command {
	var (
		serverURL string

		llmProvider  string
		llmModel     string
		systemPrompt string

		embeddingProvider string
		embeddingModel    string
		chunkSize         int
		chunkOverlap      int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: updateShortDesc,
		Long:  updateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ctx, err := newClient(cmd, serverURL)
			if err != nil {
				return err
			}

			agentChanged := cmd.Flags().Changed("llm-provider") ||
				cmd.Flags().Changed("llm-model") ||
				cmd.Flags().Changed("system-prompt")
			knowledgeChanged := cmd.Flags().Changed("embedding-provider") ||
				cmd.Flags().Changed("embedding-model") ||
				cmd.Flags().Changed("chunk-size") ||
				cmd.Flags().Changed("chunk-overlap")

			if !agentChanged && !knowledgeChanged {
				return fmt.Errorf("nothing to update: pass at least one settings flag")
			}

			// Start from the current settings so untouched fields within a
			// changed section survive the update.
			current, err := client.Settings.Get(ctx)
			if err != nil {
				return err
			}

			var update openrag.SettingsUpdate

			if agentChanged {
				agent := current.Agent
				if cmd.Flags().Changed("llm-provider") {
					agent.LLMProvider = llmProvider
				}
				if cmd.Flags().Changed("llm-model") {
					agent.LLMModel = llmModel
				}
				if cmd.Flags().Changed("system-prompt") {
					agent.SystemPrompt = systemPrompt
				}
				update.Agent = &agent
			}

			if knowledgeChanged {
				knowledge := current.Knowledge
				if cmd.Flags().Changed("embedding-provider") {
					knowledge.EmbeddingProvider = embeddingProvider
				}
				if cmd.Flags().Changed("embedding-model") {
					knowledge.EmbeddingModel = embeddingModel
				}
				if cmd.Flags().Changed("chunk-size") {
					knowledge.ChunkSize = chunkSize
				}
				if cmd.Flags().Changed("chunk-overlap") {
					knowledge.ChunkOverlap = chunkOverlap
				}
				update.Knowledge = &knowledge
			}

			resp, err := client.Settings.Update(ctx, update)
			if err != nil {
				return err
			}

			fmt.Printf("\n  %s Settings updated\n", cliui.SuccessMark)
			printSettings(resp)
			return nil
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for generation")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model for generation")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "System prompt for the agent")
	cmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "Embedding provider for retrieval")
	cmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "Embedding model for retrieval")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Chunk size for future ingestion")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "Chunk overlap for future ingestion")

	return cmd
}
