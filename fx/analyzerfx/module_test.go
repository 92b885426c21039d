package analyzerfx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/openingweeks"
	"github.com/discochess/openingweeks/internal/stats"
)

const gameLog = "Date,Moves,EloRating\n01/02/24,e2e4 e7e5 g1f3 b8c6 f1c4,1000\n"

func TestModule_Defaults(t *testing.T) {
	var a *openingweeks.Analyzer
	app := fxtest.New(t,
		fx.Supply(zap.NewNop(), Config{}),
		Module,
		fx.Populate(&a),
	)
	app.RequireStart()
	defer app.RequireStop()

	if a.Mode() != openingweeks.Strict || a.Catalog().Len() != 10 {
		t.Errorf("analyzer mode = %v, catalog = %d", a.Mode(), a.Catalog().Len())
	}
}

func TestModule_ConfigAndMetricsFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	metricsPath := filepath.Join(dir, "openingweeks.prom")
	if err := os.WriteFile(configPath, []byte("mode: permissive\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var a *openingweeks.Analyzer
	app := fxtest.New(t,
		fx.Supply(zap.NewNop(), Config{ConfigFile: configPath, MetricsFile: metricsPath}),
		Module,
		fx.Populate(&a),
	)
	app.RequireStart()

	if a.Mode() != openingweeks.Permissive {
		t.Errorf("Mode() = %v, want permissive", a.Mode())
	}
	if _, err := a.AnalyzeLog(context.Background(), strings.NewReader(gameLog)); err != nil {
		t.Fatalf("AnalyzeLog() error = %v", err)
	}

	app.RequireStop()

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), stats.MetricGamesClassified+" 1") {
		t.Errorf("metrics textfile missing classified counter:\n%s", data)
	}
}

func TestModule_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("unknown: true\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var a *openingweeks.Analyzer
	app := fx.New(
		fx.NopLogger,
		fx.Supply(zap.NewNop(), Config{ConfigFile: path}),
		Module,
		fx.Populate(&a),
	)
	if app.Err() == nil {
		t.Error("fx.New() should fail on an unknown config key")
	}
}
