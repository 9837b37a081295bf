// Package main provides the CLI entrypoint for fightlog.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/fightlog/internal/chart"
	"github.com/verte-zerg/fightlog/internal/config"
	"github.com/verte-zerg/fightlog/internal/dashboard"
	"github.com/verte-zerg/fightlog/internal/dashui"
	flog "github.com/verte-zerg/fightlog/internal/log"
	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/parser"
	"github.com/verte-zerg/fightlog/internal/stats"
)

const (
	defaultWindow      = 60
	defaultMinDuration = 0
	defaultWidth       = 0
	defaultHeight      = 8
	fallbackWidth      = 100
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	parseWindow      int64
	parseMinDuration int64
	parseAggregate   bool
	logVerbose       bool
	logQuiet         bool

	renderFight  int
	renderFormat string
	renderWidth  int
	renderHeight int
	renderColor  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fightlog [file]",
		Short:         "Combat log dashboard",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().Int64Var(&parseWindow, "window", defaultWindow, "seconds without damage that end a fight")
	rootCmd.PersistentFlags().Int64Var(&parseMinDuration, "min-duration", defaultMinDuration, "drop fights shorter than this many seconds")
	rootCmd.PersistentFlags().BoolVar(&parseAggregate, "aggregate", false, "show whole-log damage breakdowns instead of fights")
	rootCmd.PersistentFlags().BoolVarP(&logVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&logQuiet, "quiet", "q", false, "only log warnings and errors")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newFightsCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// settings is the merged result of flags and the config file.
type settings struct {
	cfg      model.Config
	palettes dashboard.Palettes
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "window", &parseWindow, fileCfg.Parse.Window)
	applyInt64Config(cmd, "min-duration", &parseMinDuration, fileCfg.Parse.MinDuration)
	applyBoolConfig(cmd, "aggregate", &parseAggregate, fileCfg.Parse.Aggregate)
	applyIntConfig(cmd, "width", &renderWidth, fileCfg.Render.Width)
	applyIntConfig(cmd, "height", &renderHeight, fileCfg.Render.Height)
	applyBoolConfig(cmd, "color", &renderColor, fileCfg.Render.Color)

	palettes := dashboard.DefaultPalettes()
	applyPalette(&palettes.DamageReceived, fileCfg.Palette.DamageReceived)
	applyPalette(&palettes.HealReceived, fileCfg.Palette.HealReceived)
	applyPalette(&palettes.DamageEmitted, fileCfg.Palette.DamageEmitted)
	applyPalette(&palettes.HealEmitted, fileCfg.Palette.HealEmitted)

	return settings{
		cfg: model.Config{
			Window:      parseWindow,
			MinDuration: parseMinDuration,
			Width:       renderWidth,
			Height:      renderHeight,
			Color:       renderColor,
			Aggregate:   parseAggregate,
		},
		palettes: palettes,
	}, nil
}

func runDashboardCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := dashboardLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	board := chart.NewBoard()
	lib := chart.NewTextLibrary(fallbackWidth, s.cfg.Height, true)
	ctrl := newController(board, lib, s, nil, logger)

	path := ""
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		if _, err := ctrl.Start(dashboard.FileSources(args...)); err != nil {
			return err
		}
	}

	m := dashui.NewModel(ctrl, board, lib, s.cfg, path)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render every chart slot once to stdout",
		Args:  cobra.ArbitraryArgs,
		RunE:  runRenderCmd,
	}
	cmd.Flags().IntVar(&renderFight, "fight", 0, "index of the fight to render")
	cmd.Flags().StringVar(&renderFormat, "format", formatText, "output format: text or json")
	cmd.Flags().IntVar(&renderWidth, "width", defaultWidth, "chart width in columns (default: terminal width)")
	cmd.Flags().IntVar(&renderHeight, "height", defaultHeight, "bar chart height in rows")
	cmd.Flags().BoolVar(&renderColor, "color", false, "force coloured output")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := flog.Setup(os.Stderr, logVerbose, logQuiet)

	var lib chart.Library
	switch renderFormat {
	case formatText:
		out := cmd.OutOrStdout()
		width := s.cfg.Width
		if width <= 0 {
			width = terminalWidth(out)
		}
		lib = chart.NewTextLibrary(width, s.cfg.Height, stats.ShouldUseColor(out, s.cfg.Color))
	case formatJSON:
		lib = chart.OptionsLibrary{}
	default:
		return fmt.Errorf("--format must be %q or %q", formatText, formatJSON)
	}

	board := chart.NewBoard()
	ctrl := newController(board, lib, s, warningBanner(), logger)
	out, err := ctrl.Ingest(context.Background(), dashboard.FileSources(args...), s.cfg.Window, s.cfg.MinDuration)
	if err != nil {
		return err
	}
	if !out.Rendered {
		logErrln("No fights found.")
		return nil
	}
	if renderFight != 0 && !s.cfg.Aggregate {
		if err := ctrl.SelectFight(renderFight); err != nil {
			return err
		}
	}
	if err := writeBoard(cmd.OutOrStdout(), board); err != nil {
		return err
	}
	if out.RenderErr != nil {
		return fmt.Errorf("failed to render some charts: %w", out.RenderErr)
	}
	return nil
}

func newFightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fights <file>",
		Short: "List fights found in a log",
		Args:  cobra.ArbitraryArgs,
		RunE:  runFightsCmd,
	}
}

func runFightsCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := flog.Setup(os.Stderr, logVerbose, logQuiet)

	sel := dashboard.NewSelector(dashboard.NewState(), nil)
	ctrl := dashboard.NewController(sel, nil, nil, warningBanner(), logger)
	t, err := ctrl.Start(dashboard.FileSources(args...))
	if err != nil {
		return err
	}
	text, err := ctrl.Decode(context.Background(), t.Source)
	if err != nil {
		return err
	}
	p := parser.ForFile(args[0], logger)
	if err := dashboard.CheckInput(p, text); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	res := p.Parse(text, s.cfg.Window, s.cfg.MinDuration)
	if len(res.Errors) > 0 {
		warningBanner().Alert(dashboard.FormatWarnings(res.Errors))
	}
	labels := sel.Load(res.Fights)
	return stats.RenderFightList(cmd.OutOrStdout(), res.Fights, labels, 24)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Dump the parse result as JSON",
		Args:  cobra.ArbitraryArgs,
		RunE:  runParseCmd,
	}
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := flog.Setup(os.Stderr, logVerbose, logQuiet)

	ctrl := dashboard.NewController(dashboard.NewSelector(dashboard.NewState(), nil), nil, nil, nil, logger)
	t, err := ctrl.Start(dashboard.FileSources(args...))
	if err != nil {
		return err
	}
	text, err := ctrl.Decode(context.Background(), t.Source)
	if err != nil {
		return err
	}
	p := parser.ForFile(args[0], logger)
	if err := dashboard.CheckInput(p, text); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if s.cfg.Aggregate {
		return parser.EncodeResult(cmd.OutOrStdout(), p.ParseAggregate(text, s.cfg.Window))
	}
	return parser.EncodeResult(cmd.OutOrStdout(), p.Parse(text, s.cfg.Window, s.cfg.MinDuration))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newController(board *chart.Board, lib chart.Library, s settings, notifier dashboard.Notifier, logger *slog.Logger) *dashboard.Controller {
	reg := chart.NewRegistry(board, lib)
	sel := dashboard.NewSelector(dashboard.NewState(), nil)
	orch := dashboard.NewOrchestrator(reg, s.palettes, logger)
	ctrl := dashboard.NewController(sel, orch, parser.New(logger), notifier, logger)
	ctrl.SetParserFunc(func(src dashboard.Source) dashboard.Parser {
		return parser.ForFile(src.Name(), logger)
	})
	if s.cfg.Aggregate {
		ctrl.SetMode(dashboard.ModeAggregate)
	}
	return ctrl
}

// dashboardLogger keeps the alt screen clean: logs go to a file in verbose mode and nowhere otherwise.
func dashboardLogger() (*slog.Logger, func(), error) {
	if !logVerbose {
		return flog.Setup(io.Discard, false, logQuiet), func() {}, nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return flog.Setup(f, true, logQuiet), closeLog, nil
}

// warningBanner prints parse warnings to stderr under a highlighted heading.
func warningBanner() dashboard.Notifier {
	heading := color.New(color.FgYellow, color.Bold)
	return dashboard.NotifierFunc(func(message string) {
		head, rest, _ := strings.Cut(message, "\n")
		if _, err := heading.Fprintln(os.Stderr, strings.TrimSpace(head)); err != nil {
			// Best-effort logging to stderr.
			_ = err
		}
		logErrln(rest)
	})
}

func writeBoard(w io.Writer, board *chart.Board) error {
	view := board.View()
	if view == "" {
		return nil
	}
	if _, err := fmt.Fprintln(w, view); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyPalette(target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	*target = append([]string(nil), value...)
}

func defaultConfigTemplate() string {
	p := dashboard.DefaultPalettes()
	return fmt.Sprintf(`# fightlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[parse]
# window = %d             # Seconds without damage that end a fight
# min-duration = %d        # Drop fights shorter than this many seconds
# aggregate = false       # Show whole-log breakdowns instead of fights

[render]
# width = 100             # Chart width in columns (default: terminal width)
# height = %d              # Bar chart height in rows
# color = false           # Force coloured output

[palette]
# Two colours per chart: value, absorbed.
# damage-received = [%s]
# heal-received = [%s]
# damage-emitted = [%s]
# heal-emitted = [%s]
`,
		defaultWindow,
		defaultMinDuration,
		defaultHeight,
		quoteList(p.DamageReceived),
		quoteList(p.HealReceived),
		quoteList(p.DamageEmitted),
		quoteList(p.HealEmitted),
	)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
