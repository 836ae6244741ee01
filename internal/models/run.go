// Package models defines the core domain entities: resolved pipeline runs.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/astrotrader/internal/settings"
)

// Run records the configuration a pipeline process resolved at startup.
type Run struct {
	ID           string         `json:"id"`
	Asset        string         `json:"asset"`
	Model        string         `json:"model"`
	NatalDate    string         `json:"natal_date"`
	SourceFile   string         `json:"source_file"`
	MinimalDate  time.Time      `json:"minimal_date"`
	MinPrecision float64        `json:"min_precision"`
	Partitions   int            `json:"partitions"`
	Parameters   map[string]any `json:"parameters"`
	ResolvedAt   time.Time      `json:"resolved_at"`
}

// NewRun builds a run record for a resolved configuration.
func NewRun(cfg *settings.Config, now time.Time) *Run {
	return &Run{
		ID:           uuid.NewString(),
		Asset:        cfg.Asset,
		Model:        cfg.Model,
		NatalDate:    cfg.NatalDate,
		SourceFile:   cfg.SourceFile,
		MinimalDate:  cfg.MinimalDate,
		MinPrecision: cfg.MinPrecision,
		Partitions:   cfg.Partitions,
		Parameters:   settings.BoosterParameters(),
		ResolvedAt:   now,
	}
}

// Validate checks run field constraints.
func (r *Run) Validate() error {
	if r.ID == "" {
		return errors.New("run ID must not be empty")
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return errors.New("run ID must be a UUID")
	}
	if r.Asset == "" {
		return errors.New("asset must not be empty")
	}
	if _, ok := settings.NatalDate(r.Asset); !ok {
		return errors.New("asset must be registered")
	}
	if r.Model == "" {
		return errors.New("model must not be empty")
	}
	if r.SourceFile == "" {
		return errors.New("source file must not be empty")
	}
	if r.MinPrecision <= 0 {
		return errors.New("min precision must be positive")
	}
	if r.Partitions < 1 {
		return errors.New("partitions must be at least 1")
	}
	if r.ResolvedAt.IsZero() {
		return errors.New("resolved at must be set")
	}
	if r.ResolvedAt.After(time.Now()) {
		return errors.New("resolved at must not be in the future")
	}
	return nil
}
