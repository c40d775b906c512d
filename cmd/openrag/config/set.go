package configcmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openragproject/openrag-go/pkg/cliui"
	"github.com/openragproject/openrag-go/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .openrag/ directory. Keys use dotted notation matching
the TOML section structure.

Secret keys (server.api_key) take no value argument: the value is
prompted for with echo disabled so it never lands in shell history.

Valid keys:
  server.url, server.api_key,
  chat.limit, chat.score_threshold,
  output.render

Examples:
  openrag config set server.url http://rag.internal:8000
  openrag config set server.api_key
  openrag config set chat.limit 20`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> [value]",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			key := args[0]
			value := ""
			if len(args) == 2 {
				value = args[1]
			}

			return runSet(key, value, len(args) == 2, configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(key, value string, haveValue bool, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	secret := config.IsSecretConfigKey(key)

	switch {
	case secret && haveValue:
		return fmt.Errorf("%s is a secret: run \"openrag config set %s\" and enter it at the prompt", key, key)
	case secret:
		var err error
		value, err = promptSecret(key)
		if err != nil {
			return err
		}
	case !haveValue:
		return fmt.Errorf("a value is required for %s", key)
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target := cfger.GetTarget()
	if target != "" {
		fmt.Printf("\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
	} else {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	display := cliui.ValueStyle.Render(value)
	if secret {
		display = cliui.DimStyle.Render("<hidden>")
	}

	fmt.Printf("  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		display,
	)
	return nil
}

// promptSecret reads a value from the terminal with echo disabled.
func promptSecret(key string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("setting %s requires an interactive terminal", key)
	}

	fmt.Printf("  Enter value for %s: ", cliui.KeyStyle.Render(key))
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	value := strings.TrimSpace(string(raw))
	if value == "" {
		return "", fmt.Errorf("empty value for %s", key)
	}

	return value, nil
}
