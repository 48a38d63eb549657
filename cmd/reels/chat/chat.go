// Package chatcmder provides the chat command for an interactive
// question/answer loop against the agent server.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/reels/pkg/agent"
	"github.com/papercomputeco/reels/pkg/cliui"
	"github.com/papercomputeco/reels/pkg/config"
	"github.com/papercomputeco/reels/pkg/dotdir"
	"github.com/papercomputeco/reels/pkg/logger"
	"github.com/papercomputeco/reels/pkg/utils"
)

var (
	userPrompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	agentPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("agent> ")
)

const chatLongDesc string = `Start an interactive question/answer loop with the agent.

Each question gets its own fresh session on the server, matching the
one-session-per-question lifecycle a workshop demo uses; the agent does not
carry conversational context between questions.

Tool invocations are printed as dim side-channel lines as they appear in
the response stream.

Examples:
  reels chat
  reels chat --target http://localhost:4000 --app ruby_workshop_agent`

const chatShortDesc string = "Interactive question/answer loop with the agent"

type chatCommander struct {
	target    string
	app       string
	user      string
	configDir string
	debug     bool

	logger *slog.Logger
}

// chatObserver prints tool activity inline between the prompt and answer.
type chatObserver struct{}

func (chatObserver) OnText(string) {}

func (chatObserver) OnFunctionCall(call *agent.FunctionCall) {
	fmt.Printf("  %s\n", cliui.DimStyle.Render("⚙ calling "+call.Name))
}

func (chatObserver) OnFunctionResponse(resp *agent.FunctionResponse) {
	report, _ := resp.Report()
	fmt.Printf("  %s\n", cliui.DimStyle.Render("⚙ "+resp.Name+": "+utils.Preview(report, 72)))
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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
			if !cmd.Flags().Changed("app") {
				cmder.app = cfg.Agent.App
			}
			if !cmd.Flags().Changed("user") {
				cmder.user = cfg.Agent.UserID
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

	return cmd
}

func (c *chatCommander) run() error {
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

	// Resolve the app once up front so a bad target fails before the
	// first prompt rather than after it.
	app, err := client.ResolveApp(ctx)
	if err != nil {
		return fmt.Errorf("resolving agent app: %w", err)
	}

	fmt.Println()
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Agent:"), cliui.NameStyle.Render(app))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("User:"), cliui.NameStyle.Render(client.UserID()))
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		session, err := client.CreateSession(ctx, app)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		answer, err := client.Run(ctx, session, input, chatObserver{})
		if err != nil {
			if answer != "" {
				fmt.Print(agentPrompt)
				fmt.Println(answer)
			}
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Print(agentPrompt)
		if answer == "" {
			fmt.Println(cliui.DimStyle.Render("(no textual answer)"))
		} else {
			fmt.Println(answer)
		}
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}
