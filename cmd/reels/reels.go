// Package reelscmder
package reelscmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/reels/cmd/reels/ask"
	chatcmder "github.com/papercomputeco/reels/cmd/reels/chat"
	configcmder "github.com/papercomputeco/reels/cmd/reels/config"
	runcmder "github.com/papercomputeco/reels/cmd/reels/run"
	statuscmder "github.com/papercomputeco/reels/cmd/reels/status"
	versioncmder "github.com/papercomputeco/reels/cmd/version"
)

const reelsLongDesc string = `Reels plays scripted question reels at an AI agent server.

Point it at an ADK-style agent server and it will probe it, open sessions,
send questions, and print the streamed answers:
  reels status         Check the agent server and list its apps
  reels ask            Ask a single question
  reels chat           Interactive question/answer loop
  reels run            Play the configured question reel`

const reelsShortDesc string = "Reels - Agent demo driver"

func NewReelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reels",
		Short: reelsShortDesc,
		Long:  reelsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reels/ config directory")

	// Add subcommands
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(runcmder.NewRunCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
