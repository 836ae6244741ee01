package settings

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"
)

var (
	// ErrMissingConfiguration is returned when a required environment variable is not set.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrUnknownAsset is returned when the asset has no natal date registered.
	ErrUnknownAsset = errors.New("unknown asset")
)

// Lookup retrieves an environment value and reports whether it was set.
// os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// MapLookup returns a Lookup backed by a fixed map.
func MapLookup(env map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// Config is the configuration derived for one process. It is never
// modified after Resolve returns it.
type Config struct {
	Asset        string
	Model        string
	NatalDate    string
	SourceFile   string
	MinimalDate  time.Time
	MinPrecision float64
	Partitions   int

	natalTime time.Time
}

// Resolve reads the asset and model kind from lookup and derives the
// dependent configuration.
func Resolve(lookup Lookup) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	asset, err := required(lookup, EnvAsset)
	if err != nil {
		return nil, err
	}
	model, err := required(lookup, EnvModel)
	if err != nil {
		return nil, err
	}

	natal, ok := NatalDate(asset)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no natal date registered", ErrUnknownAsset, asset)
	}
	natalTime, err := time.Parse(time.RFC3339, natal)
	if err != nil {
		return nil, fmt.Errorf("invalid natal date for %s: %w", asset, err)
	}

	return &Config{
		Asset:        asset,
		Model:        model,
		NatalDate:    natal,
		SourceFile:   SourceFile(asset),
		MinimalDate:  MinimalDate(asset),
		MinPrecision: minPrecision(model),
		Partitions:   Partitions(),
		natalTime:    natalTime,
	}, nil
}

// SourceFile returns the daily quote input path for asset.
func SourceFile(asset string) string {
	return fmt.Sprintf(sourceFileTemplate, asset)
}

// Partitions is the parallelism degree offered to downstream consumers.
func Partitions() int {
	return runtime.NumCPU() * 2
}

// NatalTime returns the parsed natal timestamp.
func (c *Config) NatalTime() time.Time {
	return c.natalTime
}

// ValidFrom reports whether data dated t is on or after the minimal date.
func (c *Config) ValidFrom(t time.Time) bool {
	return !t.Before(c.MinimalDate)
}

// IsSwingTrade reports whether the swing-trade model kind is selected.
func (c *Config) IsSwingTrade() bool {
	return c.Model == ModelSwingTrade
}

// minPrecision selects the precision threshold for the model kind.
// Both kinds currently share the same threshold.
func minPrecision(model string) float64 {
	if model == ModelSwingTrade {
		return 0.000001
	}
	return 0.000001
}

func required(lookup Lookup, key string) (string, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s was not set", ErrMissingConfiguration, key)
	}
	return v, nil
}
