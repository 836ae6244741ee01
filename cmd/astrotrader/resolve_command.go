package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrotrader/internal/config"
	"github.com/rewired-gh/astrotrader/internal/logger"
	"github.com/rewired-gh/astrotrader/internal/models"
	"github.com/rewired-gh/astrotrader/internal/settings"
	"github.com/rewired-gh/astrotrader/internal/storage"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noRecord bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the pipeline configuration from ASSET_TO_CALCULATE and MODEL",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := settings.Resolve(config.EnvLookup())
			if err != nil {
				logger.Error("Configuration failed: %v", err)
				if tg := ctx.notifier(); tg != nil {
					if sendErr := tg.SendError(err); sendErr != nil {
						logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
					}
				}
				return err
			}

			run := models.NewRun(resolved, time.Now())
			logger.Info("Resolved %s (model %s, source %s, %d partitions)",
				run.Asset, run.Model, run.SourceFile, run.Partitions)

			if !noRecord {
				err := ctx.withStorage(func(store *storage.Storage) error {
					return store.RecordRun(run)
				})
				if err != nil {
					return fmt.Errorf("failed to record run: %w", err)
				}
				logger.Debug("Recorded run %s", run.ID)
			}

			if tg := ctx.notifier(); tg != nil {
				if err := tg.SendResolved(run); err != nil {
					logger.Warn("Failed to send Telegram notification: %v", err)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				[][]string{
					{"Asset", run.Asset},
					{"Model", run.Model},
					{"Natal date", run.NatalDate},
					{"Source file", run.SourceFile},
					{"Minimal date", run.MinimalDate.Format("2006-01-02")},
					{"Min precision", strconv.FormatFloat(run.MinPrecision, 'g', -1, 64)},
					{"Partitions", strconv.Itoa(run.Partitions)},
					{"Run ID", run.ID},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the resolved run as JSON")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record the run in the ledger")
	return cmd
}
