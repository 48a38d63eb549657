// Package runcmder provides the run command: scripted playback of the
// configured question reel against the agent server.
package runcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reels/pkg/agent"
	"github.com/papercomputeco/reels/pkg/cliui"
	"github.com/papercomputeco/reels/pkg/config"
	"github.com/papercomputeco/reels/pkg/dotdir"
	"github.com/papercomputeco/reels/pkg/logger"
	"github.com/papercomputeco/reels/pkg/utils"
)

const runLongDesc string = `Play the configured question reel at the agent server.

Probes the server first; an unreachable server aborts the whole run with a
non-zero exit. Each question then gets its own fresh session, is submitted,
and its streamed answer is rendered before the next question starts. A
failure on one question is reported and the run moves on.

The pause between questions is cosmetic pacing for a live audience.

Questions come from run.questions in config.toml, or from repeated
--question flags. Values follow the usual precedence:
flags > REELS_* environment > config.toml > defaults.

Examples:
  reels run
  reels run --delay 5s
  reels run --question "What time is it?" --question "Who are you?"`

const runShortDesc string = "Play the configured question reel"

type runCommander struct {
	target    string
	app       string
	user      string
	delay     string
	questions []string
	configDir string
	debug     bool

	logger *slog.Logger
}

// reelObserver prints tool activity under the current question.
type reelObserver struct{}

func (reelObserver) OnText(string) {}

func (reelObserver) OnFunctionCall(call *agent.FunctionCall) {
	fmt.Printf("    %s\n", cliui.DimStyle.Render("⚙ calling "+call.Name))
}

func (reelObserver) OnFunctionResponse(resp *agent.FunctionResponse) {
	report, _ := resp.Report()
	fmt.Printf("    %s\n", cliui.DimStyle.Render("⚙ "+resp.Name+": "+utils.Preview(report, 72)))
}

func NewRunCmd() *cobra.Command {
	cmder := &runCommander{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: runShortDesc,
		Long:  runLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cmder.configDir = configDir

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagTarget,
				config.FlagApp,
				config.FlagUser,
				config.FlagDelay,
			})

			cmder.target = v.GetString("client.target")
			cmder.app = v.GetString("agent.app")
			cmder.user = v.GetString("agent.user_id")
			cmder.delay = v.GetString("run.delay")

			// --question overrides the configured reel wholesale.
			if cmd.Flags().Changed("question") {
				cmder.questions, _ = cmd.Flags().GetStringArray("question")
			} else {
				cmder.questions = v.GetStringSlice("run.questions")
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
	config.AddStringFlag(cmd, config.Flags, config.FlagApp, &cmder.app)
	config.AddStringFlag(cmd, config.Flags, config.FlagUser, &cmder.user)
	config.AddStringFlag(cmd, config.Flags, config.FlagDelay, &cmder.delay)
	cmd.Flags().StringArray("question", nil, "Question to ask (repeatable, replaces the configured reel)")

	return cmd
}

func (c *runCommander) run() error {
	var sink io.Writer
	if c.debug {
		// Best effort; a missing sink just means no debug log file.
		sink, _ = dotdir.NewManager().LogSink(c.configDir)
	}
	c.logger = logger.ForCommand(c.debug, sink)

	if len(c.questions) == 0 {
		return fmt.Errorf("no questions configured: set run.questions or pass --question")
	}

	delay, err := time.ParseDuration(c.delay)
	if err != nil {
		return fmt.Errorf("parsing run delay %q: %w", c.delay, err)
	}

	client := agent.NewClient(agent.Config{
		Target: c.target,
		App:    c.app,
		UserID: c.user,
	}, agent.WithLogger(c.logger))

	ctx := context.Background()

	fmt.Println()

	// The opening probe is the only fatal failure in a run.
	var apps []string
	err = cliui.Step(os.Stdout, fmt.Sprintf("Probing agent server at %s", c.target), func() error {
		var probeErr error
		apps, probeErr = client.Probe(ctx)
		return probeErr
	})
	if err != nil {
		return fmt.Errorf("agent server unreachable at %s: %w", c.target, err)
	}

	app, err := client.ResolveApp(ctx)
	if err != nil {
		return fmt.Errorf("resolving agent app: %w", err)
	}

	fmt.Println()
	fmt.Printf("  %s %s %s\n\n",
		cliui.KeyStyle.Render("Agent:"),
		cliui.NameStyle.Render(app),
		cliui.DimStyle.Render(fmt.Sprintf("(%d apps available)", len(apps))),
	)

	for i, question := range c.questions {
		if i > 0 {
			// Pacing for a live audience, nothing more.
			time.Sleep(delay)
		}

		fmt.Printf("  %s %s\n", cliui.QuestionStyle.Render(fmt.Sprintf("[%d/%d]", i+1, len(c.questions))), question)

		session, err := client.CreateSession(ctx, app)
		if err != nil {
			fmt.Fprintf(os.Stderr, "    %s %v\n\n", cliui.FailMark, err)
			continue
		}

		answer, err := client.Run(ctx, session, question, reelObserver{})
		if err != nil {
			if answer != "" {
				fmt.Println(answer)
			}
			fmt.Fprintf(os.Stderr, "    %s %v\n\n", cliui.FailMark, err)
			continue
		}

		if answer == "" {
			fmt.Printf("    %s\n\n", cliui.DimStyle.Render("(no textual answer)"))
			continue
		}

		rendered, err := cliui.RenderMarkdown(answer)
		if err != nil {
			fmt.Println(answer)
			fmt.Println()
			continue
		}

		fmt.Print(rendered)
		fmt.Println()
	}

	return nil
}
