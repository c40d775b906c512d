// Package openragcmder
package openragcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/openragproject/openrag-go/cmd/openrag/ask"
	chatcmder "github.com/openragproject/openrag-go/cmd/openrag/chat"
	chatscmder "github.com/openragproject/openrag-go/cmd/openrag/chats"
	configcmder "github.com/openragproject/openrag-go/cmd/openrag/config"
	docscmder "github.com/openragproject/openrag-go/cmd/openrag/docs"
	ingestcmder "github.com/openragproject/openrag-go/cmd/openrag/ingest"
	searchcmder "github.com/openragproject/openrag-go/cmd/openrag/search"
	settingscmder "github.com/openragproject/openrag-go/cmd/openrag/settings"
	versioncmder "github.com/openragproject/openrag-go/cmd/version"
)

const openragLongDesc string = `OpenRAG is a retrieval-augmented chat client for your documents.

Ask questions against your knowledge base:
  openrag ask "What does the Q3 report say about churn?"
  openrag chat                 Interactive chat session
  openrag search "churn"       Semantic search without generation

Manage the knowledge base:
  openrag ingest report.pdf    Ingest a document
  openrag docs rm report.pdf   Remove a document`

const openragShortDesc string = "OpenRAG - Chat with your documents"

func NewOpenRAGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openrag",
		Short: openragShortDesc,
		Long:  openragLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .openrag/ config directory")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(chatscmder.NewChatsCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(docscmder.NewDocsCmd())
	cmd.AddCommand(settingscmder.NewSettingsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
