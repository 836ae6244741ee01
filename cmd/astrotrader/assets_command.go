package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrotrader/internal/settings"
)

func newAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List registered assets with their natal and minimal dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(settings.Assets()))
			for _, asset := range settings.Assets() {
				natal, _ := settings.NatalDate(asset)
				rows = append(rows, []string{
					asset,
					natal,
					settings.MinimalDate(asset).Format("2006-01-02"),
					settings.SourceFile(asset),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Asset", "Natal date", "Minimal date", "Source file"},
				rows,
				nil,
			))
			return nil
		},
	}
}
