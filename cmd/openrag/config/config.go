// Package configcmder provides the config command for managing persistent
// openrag configuration stored in the .openrag/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent openrag configuration.

Configuration is stored as config.toml in the .openrag/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values, and the OPENRAG_URL and OPENRAG_API_KEY environment
variables take precedence over the config file.

Keys use dotted notation matching the TOML section structure:
  server.url, server.api_key,
  chat.limit, chat.score_threshold,
  output.render

Use subcommands to get, set, or list configuration values:
  openrag config set <key> <value>    Set a configuration value
  openrag config get <key>            Get a configuration value
  openrag config list                 List all configuration values

Examples:
  openrag config set server.url http://rag.internal:8000
  openrag config set server.api_key
  openrag config get chat.limit
  openrag config list`

const configShortDesc string = "Manage persistent openrag configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
