// Package chatscmder provides the chats command for browsing and deleting
// server-side conversation history.
package chatscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/config"
	"github.com/openragproject/openrag-go/pkg/openrag"
)

const chatsLongDesc string = `Browse and manage conversation history.

Conversations live on the OpenRAG server. Use subcommands to list them,
show a full transcript, or delete one:
  openrag chats list             List all conversations
  openrag chats show <chat-id>   Show a conversation transcript
  openrag chats rm <chat-id>     Delete a conversation

Resume a conversation with:
  openrag chat --chat <chat-id>`

const chatsShortDesc string = "Browse and manage conversation history"

func NewChatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: chatsShortDesc,
		Long:  chatsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newRmCmd())

	return cmd
}

// newClient builds a client from the resolved config, shared by the chats
// subcommands.
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
