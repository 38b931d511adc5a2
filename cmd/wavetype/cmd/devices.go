package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/wavetype/internal/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Listet verfügbare Aufnahmegeräte",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := audio.ListInputDevices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("Keine Aufnahmegeräte gefunden.")
			return nil
		}

		for _, dev := range devices {
			marker := " "
			if dev.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %-40s %d ch, %.0f Hz\n", marker, dev.Name, dev.MaxInputChannels, dev.DefaultSampleRate)
		}
		fmt.Println("\n* = Standardgerät")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
