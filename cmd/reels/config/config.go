// Package configcmder provides the config command for managing persistent
// reels configuration stored in the .reels/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent reels configuration.

Configuration is stored as config.toml in the .reels/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  client.target,
  agent.app, agent.user_id,
  run.delay, run.questions

Use subcommands to get, set, or list configuration values:
  reels config set <key> <value>    Set a configuration value
  reels config get <key>            Get a configuration value
  reels config list                 List all configuration values

Examples:
  reels config set client.target http://localhost:4000
  reels config set agent.app ruby_workshop_agent
  reels config get run.delay
  reels config list`

const configShortDesc string = "Manage persistent reels configuration"

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
