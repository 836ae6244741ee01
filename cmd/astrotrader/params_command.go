package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrotrader/internal/logger"
	"github.com/rewired-gh/astrotrader/internal/settings"
)

// trainingParameters is the document written to the default parameters file.
type trainingParameters struct {
	Booster                 map[string]any    `json:"booster"`
	Eta                     float64           `json:"eta"`
	Depth                   int               `json:"depth"`
	NumTrees                int               `json:"num_trees"`
	MaxInteractions         int               `json:"max_interactions"`
	SwingTradeDuration      int               `json:"swing_trade_duration"`
	SwingExpectedVolatility float64           `json:"swing_expected_volatility"`
	StagnationThreshold     int               `json:"stagnation_threshold"`
	TopThreshold            int               `json:"top_threshold"`
	DaysToPredict           int               `json:"days_to_predict"`
	Planets                 []settings.Planet `json:"planets"`
	Aspects                 []string          `json:"aspects"`
}

func defaultTrainingParameters() trainingParameters {
	return trainingParameters{
		Booster:                 settings.BoosterParameters(),
		Eta:                     settings.Eta,
		Depth:                   settings.Depth,
		NumTrees:                settings.NumTrees,
		MaxInteractions:         settings.MaxInteractions,
		SwingTradeDuration:      settings.SwingTradeDuration,
		SwingExpectedVolatility: settings.SwingExpectedVolatility,
		StagnationThreshold:     settings.StagnationThreshold,
		TopThreshold:            settings.TopThreshold,
		DaysToPredict:           settings.DaysToPredict,
		Planets:                 settings.PlanetsToCalculate(),
		Aspects:                 settings.AspectsToCalculate(),
	}
}

func newParamsCommand(ctx *commandContext) *cobra.Command {
	var write bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print or write the model training parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(defaultTrainingParameters(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal parameters: %w", err)
			}
			if !write && outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if outPath == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				outPath = cfg.Paths.DefaultParameters
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("failed to create parameters directory: %w", err)
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write parameters: %w", err)
			}
			logger.Info("Wrote training parameters to %s", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote training parameters to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the parameters file to paths.default_parameters instead of printing it")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the parameters file to this path")
	return cmd
}
