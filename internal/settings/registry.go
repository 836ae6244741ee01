// Package settings holds the static registries of the prediction pipeline
// and resolves the per-process configuration from the environment.
package settings

import (
	"sort"
	"time"
)

// Environment variables read by Resolve.
const (
	EnvAsset = "ASSET_TO_CALCULATE"
	EnvModel = "MODEL"
)

// ModelSwingTrade is the model kind selecting the swing-trade strategy.
const ModelSwingTrade = "SWING_TRADE"

const (
	DefaultParametersPath = "./config/default_parameters.json"
	DefaultConfigPath     = "./config/default_config.json"
	sourceFileTemplate    = "./input/%s_Daily"
)

// Swing trade labelling constants.
const (
	SwingTradeDuration      = 5
	SwingExpectedVolatility = 3.5
	StagnationThreshold     = 5
	TopThreshold            = 2
	DaysToPredict           = 30
)

// Boosted-tree training constants.
const (
	Eta             = 0.3
	Depth           = 7
	NumTrees        = 1000
	MaxInteractions = 50
)

const dateLayout = "2006-01-02"

// Planet names an astrological body.
type Planet string

const (
	Sun     Planet = "SUN"
	Moon    Planet = "MOON"
	Venus   Planet = "VENUS"
	Mercury Planet = "MERCURY"
	Mars    Planet = "MARS"
	Jupiter Planet = "JUPITER"
	Saturn  Planet = "SATURN"
)

var natalDates = map[string]string{
	"PETR4.SA": "1953-10-03T19:05:00-03:00",
	"VALE3.SA": "1997-05-06T17:47:00-03:00",
	"ITUB4.SA": "2008-11-04T10:00:00-03:00",
	"BBDC4.SA": "1943-03-10T10:00:00-03:00",
	"ABEV3.SA": "1999-07-01T10:00:00-03:00",
	"^BVSP":    "1968-01-02T10:00:00-03:00",
}

var minimalStockDates = map[string]time.Time{
	"PETR4.SA": mustDate("1996-02-01"),
}

var dateMinimal = mustDate("1998-01-01")

var boosterParameters = map[string]any{
	"booster":     "gbtree",
	"objective":   "reg:squarederror",
	"eval_metric": "auc",
	"tree_method": "auto",
	"silent":      0,
	"subsample":   0.5,
}

var planetsToCalculate = []Planet{Sun, Moon, Venus, Mercury, Mars, Jupiter, Saturn}

// NatalDate returns the registered natal timestamp of asset.
func NatalDate(asset string) (string, bool) {
	d, ok := natalDates[asset]
	return d, ok
}

// Assets returns the registered asset identifiers in sorted order.
func Assets() []string {
	assets := make([]string, 0, len(natalDates))
	for a := range natalDates {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}

// MinimalDate returns the earliest valid data date for asset.
func MinimalDate(asset string) time.Time {
	if d, ok := minimalStockDates[asset]; ok {
		return d
	}
	return dateMinimal
}

// DefaultMinimalDate returns the earliest valid data date for assets
// without their own entry.
func DefaultMinimalDate() time.Time {
	return dateMinimal
}

// BoosterParameters returns a copy of the boosted-tree parameter set.
func BoosterParameters() map[string]any {
	params := make(map[string]any, len(boosterParameters))
	for k, v := range boosterParameters {
		params[k] = v
	}
	return params
}

// PlanetsToCalculate returns a copy of the bodies used for feature generation.
func PlanetsToCalculate() []Planet {
	return append([]Planet(nil), planetsToCalculate...)
}

// AspectsToCalculate returns the aspects used for feature generation. None are configured.
func AspectsToCalculate() []string {
	return []string{}
}

func mustDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
