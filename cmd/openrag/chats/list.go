package chatscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
)

const listLongDesc string = `List all conversations.

Shows each conversation's id, title, message count, and last activity.

Example:
  openrag chats list`

const listShortDesc string = "List all conversations"

func newListCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, ctx, err := newClient(cmd, serverURL)
			if err != nil {
				return err
			}

			resp, err := client.Chat.List(ctx)
			if err != nil {
				return err
			}

			if len(resp.Conversations) == 0 {
				fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No conversations."))
				return nil
			}

			fmt.Println()
			for _, conv := range resp.Conversations {
				fmt.Printf("  %s  %s %s\n",
					cliui.NameStyle.Render(conv.ChatID),
					conv.Title,
					cliui.DimStyle.Render(fmt.Sprintf("(%d messages, %s)", conv.MessageCount, conv.LastActivity)),
				)
			}
			fmt.Println()

			return nil
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}
