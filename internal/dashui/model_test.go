package dashui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fightlog/internal/chart"
	"github.com/verte-zerg/fightlog/internal/dashboard"
	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/parser"
)

func logLine(ts, body string) string {
	return ts + " INFO COMBAT - Combat _||_ Event=[" + body + "] "
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combat.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func newTestModel(path string) *Model {
	board := chart.NewBoard()
	lib := chart.NewTextLibrary(60, 4, false)
	reg := chart.NewRegistry(board, lib)
	sel := dashboard.NewSelector(dashboard.NewState(), time.UTC)
	orch := dashboard.NewOrchestrator(reg, dashboard.DefaultPalettes(), nil)
	ctrl := dashboard.NewController(sel, orch, parser.New(nil), nil, nil)
	ctrl.SetParserFunc(func(src dashboard.Source) dashboard.Parser {
		return parser.ForFile(src.Name(), nil)
	})
	cfg := model.Config{Window: 60, MinDuration: 0}
	return NewModel(ctrl, board, lib, cfg, path)
}

func TestModelLoadsFileOnInit(t *testing.T) {
	path := writeLog(t,
		logLine("2021-03-17T20:30:00.000Z", "Your Spiral Cast hit Thrall Soul for 272 (12 absorbed) Ice damage."),
		logLine("2021-03-17T20:30:01.000Z", "Your Freezing Storm hit Zankara for 100 Ice damage."),
		logLine("2021-03-17T20:30:01.000Z", "Broken event body"),
	)
	m := newTestModel(path)
	m.Update(tea.WindowSizeMsg{Width: 220, Height: 60})

	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected a decode command")
	}
	m.Update(cmd())

	if m.ctrl.Selector().Len() != 1 || m.ctrl.Selector().Index() != 0 {
		t.Fatalf("expected fight 0 selected")
	}
	if !strings.Contains(m.alert, "Broken event body") {
		t.Fatalf("expected alert with the broken line, got %q", m.alert)
	}
	if !strings.Contains(m.View(), "Parse warnings") {
		t.Fatalf("expected warning modal in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.alert != "" {
		t.Fatalf("expected alert dismissed")
	}
	labels := m.ctrl.Selector().Labels()
	if len(labels) != 1 || !strings.HasSuffix(labels[0], "Thrall Soul, Zankara") {
		t.Fatalf("unexpected labels: %v", labels)
	}
	if !strings.Contains(m.View(), "Fight: 1/1") {
		t.Fatalf("expected selected fight in header")
	}
	if !strings.Contains(m.board.View(), "Damage done by kind") {
		t.Fatalf("expected charts on the board")
	}
}

func TestModelDiscardsStaleDecode(t *testing.T) {
	first := writeLog(t, logLine("2021-03-17T20:30:00.000Z", "Your Retaliate hit UDeadPRO for 2 Nature damage."))
	second := writeLog(t, logLine("2021-03-17T21:30:00.000Z", "Your Retaliate hit Zankara for 3 Nature damage."))
	m := newTestModel("")

	stale := m.load(first)
	fresh := m.load(second)
	m.Update(fresh())
	m.Update(stale())

	labels := m.ctrl.Selector().Labels()
	if len(labels) != 1 || !strings.HasSuffix(labels[0], "Zankara") {
		t.Fatalf("expected the latest file to win, got %v", labels)
	}
}

func TestModelSwitchesParserWithFileType(t *testing.T) {
	logPath := writeLog(t, logLine("2021-03-17T20:30:00.000Z", "Your Retaliate hit Zankara for 3 Nature damage."))
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var dump bytes.Buffer
	if err := parser.EncodeResult(&dump, parser.New(nil).Parse(string(data), 60, 0)); err != nil {
		t.Fatalf("EncodeResult failed: %v", err)
	}
	dumpPath := filepath.Join(t.TempDir(), "fights.json")
	if err := os.WriteFile(dumpPath, dump.Bytes(), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	m := newTestModel(dumpPath)
	m.Update(m.Init()())
	if m.ctrl.Selector().Len() != 1 || m.errMsg != "" {
		t.Fatalf("expected dump loaded, errMsg=%q", m.errMsg)
	}

	m.Update(m.load(logPath)())
	if m.alert != "" {
		t.Fatalf("unexpected alert after loading a log: %q", m.alert)
	}
	labels := m.ctrl.Selector().Labels()
	if len(labels) != 1 || !strings.HasSuffix(labels[0], "Zankara") || m.errMsg != "" {
		t.Fatalf("expected log parsed after dump, labels=%v errMsg=%q", labels, m.errMsg)
	}
}

func TestModelShowsMalformedDumpError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	m := newTestModel(path)
	m.Update(m.Init()())
	if m.alert != "" {
		t.Fatalf("expected no line warning, got %q", m.alert)
	}
	if !strings.Contains(m.errMsg, "failed to decode parse result") {
		t.Fatalf("expected decode error in footer, got %q", m.errMsg)
	}
}

func TestModelStepsBetweenFights(t *testing.T) {
	path := writeLog(t,
		logLine("2021-03-17T20:30:00.000Z", "Your Retaliate hit UDeadPRO for 2 Nature damage."),
		logLine("2021-03-17T21:30:00.000Z", "Your Retaliate hit Zankara for 3 Nature damage."),
	)
	m := newTestModel(path)
	m.Update(m.Init()())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if m.ctrl.Selector().Index() != 1 {
		t.Fatalf("expected second fight selected, got %d", m.ctrl.Selector().Index())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if m.ctrl.Selector().Index() != 1 {
		t.Fatalf("expected selection to stay on the last fight")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if m.ctrl.Selector().Index() != 0 {
		t.Fatalf("expected first fight selected, got %d", m.ctrl.Selector().Index())
	}
}

func TestApplySettingsRejectsBadNumbers(t *testing.T) {
	m := newTestModel("")
	m.startSettings()
	m.inputs[inputWindow].SetValue("abc")
	if _, err := m.applySettings(); err == nil {
		t.Fatalf("expected error for non-numeric window")
	}
	m.inputs[inputWindow].SetValue("30")
	m.inputs[inputMinDuration].SetValue("5")
	m.inputs[inputFile].SetValue(" /tmp/combat.log ")
	path, err := m.applySettings()
	if err != nil {
		t.Fatalf("applySettings failed: %v", err)
	}
	if path != "/tmp/combat.log" || m.cfg.Window != 30 || m.cfg.MinDuration != 5 {
		t.Fatalf("unexpected settings: path=%q cfg=%+v", path, m.cfg)
	}
}
