package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/fightlog/internal/config"
	"github.com/verte-zerg/fightlog/internal/dashboard"
)

func writeCombatLog(t *testing.T) string {
	t.Helper()
	lines := []string{
		"2021-03-17T20:30:00.000Z INFO COMBAT - Combat _||_ Event=[Your Spiral Cast hit Thrall Soul for 272 (12 absorbed) Ice damage.] ",
		"2021-03-17T20:30:01.000Z INFO COMBAT - Combat _||_ Event=[Zankara Claw hit You for 40 Physical damage.] ",
	}
	path := filepath.Join(t.TempDir(), "combat.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderJSONWritesChartOptions(t *testing.T) {
	path := writeCombatLog(t)
	out, err := runCLI(t, "render", path, "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, `"type": "treemap"`) || !strings.Contains(out, `"type": "bar"`) {
		t.Fatalf("expected treemap and bar options:\n%s", out)
	}
	if !strings.Contains(out, "Damage done by enemy") {
		t.Fatalf("expected slot titles in output")
	}
}

func TestRenderRejectsSeveralFiles(t *testing.T) {
	path := writeCombatLog(t)
	_, err := runCLI(t, "render", path, path, "--quiet")
	if !errors.Is(err, dashboard.ErrMultiFileSelection) {
		t.Fatalf("expected multi-file error, got %v", err)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	path := writeCombatLog(t)
	if _, err := runCLI(t, "render", path, "--format", "svg", "--quiet"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseDumpsFights(t *testing.T) {
	path := writeCombatLog(t)
	out, err := runCLI(t, "parse", path, "--quiet")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(out, `"opponent": [`) || !strings.Contains(out, `"Thrall Soul"`) {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}

func TestFightsListsLabels(t *testing.T) {
	path := writeCombatLog(t)
	out, err := runCLI(t, "fights", path, "--quiet")
	if err != nil {
		t.Fatalf("fights failed: %v", err)
	}
	if !strings.Contains(out, "Thrall Soul, Zankara") {
		t.Fatalf("expected fight label:\n%s", out)
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Parse.Window != nil || len(cfg.Palette.DamageReceived) != 0 {
		t.Fatalf("expected commented template to set nothing")
	}
}
