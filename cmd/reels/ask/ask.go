// Package askcmder provides the ask command for sending a single question
// to the agent server.
package askcmder

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
	"github.com/papercomputeco/reels/pkg/utils"
)

const askLongDesc string = `Ask the agent a single question.

Creates a fresh session on the agent server, submits the question, and
renders the streamed answer as markdown. Tool invocations the agent makes
along the way are printed as dim side-channel lines; they are never part of
the answer itself.

When no --app is given and none is configured, the first app from the
server's listing is used.

Examples:
  reels ask "What time is it?"
  reels ask --app ruby_workshop_agent "How do I deploy this?"`

const askShortDesc string = "Ask the agent a single question"

type askCommander struct {
	target    string
	app       string
	user      string
	configDir string
	debug     bool

	logger *slog.Logger
}

// toolObserver prints tool activity as the response stream is parsed.
type toolObserver struct{}

func (toolObserver) OnText(string) {}

func (toolObserver) OnFunctionCall(call *agent.FunctionCall) {
	fmt.Printf("  %s %s\n",
		cliui.ToolStyle.Render("⚙"),
		cliui.DimStyle.Render("calling "+call.Name),
	)
}

func (toolObserver) OnFunctionResponse(resp *agent.FunctionResponse) {
	report, _ := resp.Report()
	fmt.Printf("  %s %s %s\n",
		cliui.ToolStyle.Render("⚙"),
		cliui.ToolStyle.Render(resp.Name+":"),
		cliui.DimStyle.Render(utils.Preview(report, 72)),
	)
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
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
			if !cmd.Flags().Changed("app") {
				cmder.app = cfg.Agent.App
			}
			if !cmd.Flags().Changed("user") {
				cmder.user = cfg.Agent.UserID
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagApp, &cmder.app)
	config.AddStringFlag(cmd, config.Flags, config.FlagUser, &cmder.user)

	return cmd
}

func (c *askCommander) run(question string) error {
	var sink io.Writer
	if c.debug {
		// Best effort; a missing sink just means no debug log file.
		sink, _ = dotdir.NewManager().LogSink(c.configDir)
	}
	c.logger = logger.ForCommand(c.debug, sink)

	client := agent.NewClient(agent.Config{
		Target: c.target,
		App:    c.app,
		UserID: c.user,
	}, agent.WithLogger(c.logger))

	ctx := context.Background()

	fmt.Printf("\n  %s %s\n\n", cliui.QuestionStyle.Render("you>"), question)

	answer, err := client.Ask(ctx, question, toolObserver{})
	if err != nil {
		if answer != "" {
			// Truncated stream: show what arrived before failing.
			fmt.Println(answer)
		}
		return fmt.Errorf("asking agent: %w", err)
	}

	if answer == "" {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("(no textual answer)"))
		return nil
	}

	rendered, err := cliui.RenderMarkdown(answer)
	if err != nil {
		// Fall back to the raw answer when the terminal renderer balks.
		fmt.Println(answer)
		return nil
	}

	fmt.Fprint(os.Stdout, rendered)
	return nil
}
