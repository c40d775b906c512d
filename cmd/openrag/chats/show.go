package chatscmder

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
)

var roleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

const showLongDesc string = `Show a conversation transcript.

Prints every message in the conversation, oldest first.

Example:
  openrag chats show 1f0a3b`

const showShortDesc string = "Show a conversation transcript"

func newShowCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "show <chat-id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, err := newClient(cmd, serverURL)
			if err != nil {
				return err
			}

			detail, err := client.Chat.Get(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n  %s %s\n",
				cliui.KeyStyle.Render(detail.Title),
				cliui.DimStyle.Render(detail.ChatID),
			)
			if detail.LastActivity != "" {
				fmt.Printf("  %s\n", cliui.DimStyle.Render("last activity "+detail.LastActivity))
			}
			fmt.Println()

			for _, msg := range detail.Messages {
				fmt.Printf("  %s %s\n\n", roleStyle.Render(msg.Role+">"), msg.Content)
			}

			return nil
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&serverURL, "server", "s", defaults.Server.URL, "OpenRAG server URL")

	return cmd
}
