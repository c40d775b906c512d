// Package docscmder provides the docs command for managing knowledge base
// documents.
package docscmder

import (
	"github.com/spf13/cobra"
)

const docsLongDesc string = `Manage knowledge base documents.

Use subcommands to remove documents by name:
  openrag docs rm <filename>    Remove a document and all its chunks

Ingestion has its own top-level command:
  openrag ingest <file>...`

const docsShortDesc string = "Manage knowledge base documents"

func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: docsShortDesc,
		Long:  docsLongDesc,
	}

	cmd.AddCommand(newRmCmd())

	return cmd
}
