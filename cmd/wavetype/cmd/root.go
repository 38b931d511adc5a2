package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/wavetype/internal/wavetype"
)

var settingsFile string

var rootCmd = &cobra.Command{
	Use:   "wavetype",
	Short: "waveType - Push-to-Talk Diktat",
	Long: `waveType ist ein Diktat-Werkzeug für den Desktop: Hotkey halten,
sprechen, loslassen - der transkribierte Text landet an der
Cursorposition der aktiven Anwendung.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := wavetype.New(settingsFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Einstellungsdatei (default: ~/.config/wavetype/settings.toml)")
}
