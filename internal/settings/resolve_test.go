package settings

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestResolve_AllAssets(t *testing.T) {
	for _, asset := range Assets() {
		t.Run(asset, func(t *testing.T) {
			cfg, err := Resolve(MapLookup(map[string]string{
				EnvAsset: asset,
				EnvModel: ModelSwingTrade,
			}))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			want, _ := NatalDate(asset)
			if cfg.NatalDate != want {
				t.Errorf("natal date = %q, want %q", cfg.NatalDate, want)
			}
			if cfg.NatalTime().IsZero() {
				t.Error("natal time not parsed")
			}
			if cfg.SourceFile != "./input/"+asset+"_Daily" {
				t.Errorf("unexpected source file %q", cfg.SourceFile)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "asset unset",
			env:     map[string]string{EnvModel: ModelSwingTrade},
			wantErr: ErrMissingConfiguration,
			wantMsg: EnvAsset,
		},
		{
			name:    "asset empty",
			env:     map[string]string{EnvAsset: "", EnvModel: ModelSwingTrade},
			wantErr: ErrMissingConfiguration,
			wantMsg: EnvAsset,
		},
		{
			name:    "model unset",
			env:     map[string]string{EnvAsset: "PETR4.SA"},
			wantErr: ErrMissingConfiguration,
			wantMsg: EnvModel,
		},
		{
			name:    "unknown asset",
			env:     map[string]string{EnvAsset: "AAPL", EnvModel: ModelSwingTrade},
			wantErr: ErrUnknownAsset,
			wantMsg: "AAPL",
		},
		{
			name:    "asset match is case sensitive",
			env:     map[string]string{EnvAsset: "petr4.sa", EnvModel: ModelSwingTrade},
			wantErr: ErrUnknownAsset,
			wantMsg: "petr4.sa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(MapLookup(tt.env))
			if cfg != nil {
				t.Errorf("expected nil config, got %+v", cfg)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestResolve_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvAsset, "PETR4.SA")
	t.Setenv(EnvModel, ModelSwingTrade)

	cfg, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.SourceFile != "./input/PETR4.SA_Daily" {
		t.Errorf("source file = %q", cfg.SourceFile)
	}
}

func TestResolve_PrecisionIgnoresModel(t *testing.T) {
	var got []float64
	for _, model := range []string{ModelSwingTrade, "TREND", "x"} {
		cfg, err := Resolve(MapLookup(map[string]string{EnvAsset: "VALE3.SA", EnvModel: model}))
		if err != nil {
			t.Fatalf("Resolve(%s): %v", model, err)
		}
		if cfg.IsSwingTrade() != (model == ModelSwingTrade) {
			t.Errorf("IsSwingTrade mismatch for %s", model)
		}
		got = append(got, cfg.MinPrecision)
	}
	for _, p := range got {
		if p != 0.000001 {
			t.Errorf("precision = %g, want 0.000001", p)
		}
	}
}

func TestResolve_MinimalDate(t *testing.T) {
	petr, err := Resolve(MapLookup(map[string]string{EnvAsset: "PETR4.SA", EnvModel: ModelSwingTrade}))
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(1996, 2, 1, 0, 0, 0, 0, time.UTC); !petr.MinimalDate.Equal(want) {
		t.Errorf("PETR4.SA minimal date = %v, want %v", petr.MinimalDate, want)
	}

	bvsp, err := Resolve(MapLookup(map[string]string{EnvAsset: "^BVSP", EnvModel: ModelSwingTrade}))
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(1998, 1, 1, 0, 0, 0, 0, time.UTC); !DefaultMinimalDate().Equal(want) {
		t.Errorf("default minimal date = %v, want %v", DefaultMinimalDate(), want)
	}
	if !bvsp.MinimalDate.Equal(DefaultMinimalDate()) {
		t.Errorf("^BVSP minimal date = %v, want %v", bvsp.MinimalDate, DefaultMinimalDate())
	}
	if bvsp.ValidFrom(time.Date(1997, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("1997-12-31 should be before the minimal date")
	}
	if !bvsp.ValidFrom(DefaultMinimalDate()) {
		t.Error("minimal date itself should be valid")
	}
}

func TestResolve_Partitions(t *testing.T) {
	cfg, err := Resolve(MapLookup(map[string]string{EnvAsset: "ITUB4.SA", EnvModel: ModelSwingTrade}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Partitions < 2 || cfg.Partitions%2 != 0 {
		t.Errorf("partitions = %d, want an even number >= 2", cfg.Partitions)
	}
}

func TestRegistryCopies(t *testing.T) {
	params := BoosterParameters()
	params["booster"] = "dart"
	if BoosterParameters()["booster"] != "gbtree" {
		t.Error("booster parameters mutated through returned map")
	}

	planets := PlanetsToCalculate()
	if len(planets) != 7 {
		t.Fatalf("expected 7 planets, got %d", len(planets))
	}
	planets[0] = Saturn
	if PlanetsToCalculate()[0] != Sun {
		t.Error("planets mutated through returned slice")
	}

	if len(AspectsToCalculate()) != 0 {
		t.Error("expected no aspects")
	}
}

func TestAssetsSorted(t *testing.T) {
	assets := Assets()
	if len(assets) != 6 {
		t.Fatalf("expected 6 assets, got %d", len(assets))
	}
	for i := 1; i < len(assets); i++ {
		if assets[i-1] >= assets[i] {
			t.Errorf("assets not sorted: %v", assets)
		}
	}
}
