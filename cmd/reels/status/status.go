// Package statuscmder provides the status command: the connectivity probe
// run before any session work.
package statuscmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reels/pkg/agent"
	"github.com/papercomputeco/reels/pkg/cliui"
	"github.com/papercomputeco/reels/pkg/config"
	"github.com/papercomputeco/reels/pkg/dotdir"
	"github.com/papercomputeco/reels/pkg/logger"
)

const statusLongDesc string = `Check that the agent server is reachable.

Calls the server's health endpoint, then lists the agent apps it exposes.
Exits non-zero when the server cannot be reached, so the command doubles as
a scriptable preflight check.

Examples:
  reels status
  reels status --target http://localhost:4000`

const statusShortDesc string = "Check the agent server and list its apps"

type statusCommander struct {
	target    string
	configDir string
	debug     bool

	logger *slog.Logger
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cmder.configDir = configDir

			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("target") {
				cmder.target = cfg.Client.Target
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)

	return cmd
}

func (c *statusCommander) run() error {
	var sink io.Writer
	if c.debug {
		// Best effort; a missing sink just means no debug log file.
		sink, _ = dotdir.NewManager().LogSink(c.configDir)
	}
	c.logger = logger.ForCommand(c.debug, sink)

	client := agent.NewClient(agent.Config{Target: c.target}, agent.WithLogger(c.logger))
	ctx := context.Background()

	fmt.Println()

	err := cliui.Step(os.Stdout, fmt.Sprintf("Checking agent server at %s", c.target), func() error {
		return client.Health(ctx)
	})
	if err != nil {
		return fmt.Errorf("agent server unreachable at %s: %w", c.target, err)
	}

	var apps []string
	err = cliui.Step(os.Stdout, "Listing agent apps", func() error {
		var listErr error
		apps, listErr = client.ListApps(ctx)
		return listErr
	})
	if err != nil {
		return fmt.Errorf("listing agent apps: %w", err)
	}

	fmt.Println()
	if len(apps) == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Server is up but lists no agent apps."))
		return nil
	}

	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Agent apps:"))
	for _, app := range apps {
		fmt.Printf("    %s %s\n", cliui.DimStyle.Render("●"), cliui.NameStyle.Render(app))
	}
	fmt.Println()

	return nil
}
