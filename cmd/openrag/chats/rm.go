package chatscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
)

const rmLongDesc string = `Delete a conversation.

Removes the conversation and its full message history from the server.

Example:
  openrag chats rm 1f0a3b`

const rmShortDesc string = "Delete a conversation"

func newRmCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "rm <chat-id>",
		Short: rmShortDesc,
		Long:  rmLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, err := newClient(cmd, serverURL)
			if err != nil {
				return err
			}

			if err := client.Chat.Delete(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n  %s Deleted conversation %s\n\n",
				cliui.SuccessMark,
				cliui.DimStyle.Render(args[0]),
			)

			return nil
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}
