// Package dashboard selects fights and drives chart rendering for a loaded log.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/verte-zerg/fightlog/internal/model"
)

// WarningPrefix starts the alert listing unparsable lines.
const WarningPrefix = "cannot parse the following lines : \n"

// Parser turns log text into fights or a whole-log aggregate.
type Parser interface {
	Parse(text string, window, minDuration int64) model.ParseResult
	ParseAggregate(text string, window int64) model.AggregateResult
}

// Checker is implemented by parsers that can reject an input as a whole.
type Checker interface {
	Check(text string) error
}

// CheckInput returns the whole-input failure reported by p, when p can report one.
func CheckInput(p Parser, text string) error {
	if c, ok := p.(Checker); ok {
		return c.Check(text)
	}
	return nil
}

// Source is a chosen log file.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a log from disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Open implements Source.
func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// FileSources wraps paths as sources.
func FileSources(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, FileSource{Path: p})
	}
	return out
}

// Notifier shows a message to the user.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert implements Notifier.
func (f NotifierFunc) Alert(message string) {
	f(message)
}

// Mode selects how a log is parsed and drawn.
type Mode int

// Modes.
const (
	// ModeFights segments the log into fights and draws the selected one.
	ModeFights Mode = iota
	// ModeAggregate draws damage breakdowns for the whole log.
	ModeAggregate
)

// Ticket identifies one ingestion. Only the latest ticket may finish.
type Ticket struct {
	Generation uint64
	Source     Source
}

// Outcome reports what an ingestion applied.
type Outcome struct {
	Generation uint64
	Labels     []string
	Warnings   []string
	// Rendered is false when there was nothing to draw; previous charts stay on screen.
	Rendered  bool
	RenderErr error
}

// Controller loads a chosen log into the selector and draws it.
type Controller struct {
	state    *State
	selector *Selector
	orch     *Orchestrator
	parser   Parser
	choose   func(Source) Parser
	notifier Notifier
	mode     Mode
	log      *slog.Logger
}

// NewController wires the ingestion steps together.
func NewController(selector *Selector, orch *Orchestrator, parser Parser, notifier Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		state:    selector.state,
		selector: selector,
		orch:     orch,
		parser:   parser,
		notifier: notifier,
		log:      logger.With(slog.String("module", "dashboard")),
	}
}

// SetMode switches between fight and aggregate parsing for later ingestions.
func (c *Controller) SetMode(m Mode) {
	c.mode = m
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetParser replaces the parser for later ingestions.
func (c *Controller) SetParser(p Parser) {
	c.parser = p
}

// SetParserFunc makes every ingestion pick its parser from the chosen source.
// A nil result falls back to the parser set with SetParser.
func (c *Controller) SetParserFunc(f func(Source) Parser) {
	c.choose = f
}

func (c *Controller) parserFor(src Source) Parser {
	if c.choose != nil && src != nil {
		if p := c.choose(src); p != nil {
			return p
		}
	}
	return c.parser
}

// SetNotifier replaces the target of parse warnings.
func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

// Selector returns the fight selector.
func (c *Controller) Selector() *Selector {
	return c.selector
}

// Generation returns the generation of the latest started ingestion.
func (c *Controller) Generation() uint64 {
	return c.state.Generation
}

// Start checks that exactly one source was chosen and opens a new generation.
func (c *Controller) Start(sources []Source) (Ticket, error) {
	if len(sources) != 1 {
		return Ticket{}, fmt.Errorf("failed to start ingestion of %d files: %w", len(sources), ErrMultiFileSelection)
	}
	c.state.Generation++
	c.log.Debug("ingestion started",
		slog.Uint64("generation", c.state.Generation),
		slog.String("source", sources[0].Name()),
	)
	return Ticket{Generation: c.state.Generation, Source: sources[0]}, nil
}

// Decode reads the source as text, honouring UTF-8 and UTF-16 byte order marks.
func (c *Controller) Decode(ctx context.Context, src Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rc, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			// Best-effort close for a read-only log.
			_ = cerr
		}
	}()
	text, err := DecodeText(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// DecodeText reads r as UTF-8, switching to UTF-16 when a byte order mark says so.
func DecodeText(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Finish parses text and applies the result, unless a newer ingestion has started.
// Unparsable lines are reported through the notifier in one alert and do not stop the load.
// An input the parser rejects as a whole is returned as an error and nothing is applied.
func (c *Controller) Finish(t Ticket, text string, window, minDuration int64) (Outcome, error) {
	if t.Generation != c.state.Generation {
		return Outcome{}, fmt.Errorf("failed to finish ingestion %d (current %d): %w", t.Generation, c.state.Generation, ErrStaleIngestion)
	}
	p := c.parserFor(t.Source)
	if err := CheckInput(p, text); err != nil {
		return Outcome{}, fmt.Errorf("failed to parse %s: %w", sourceName(t.Source), err)
	}
	out := Outcome{Generation: t.Generation}

	if c.mode == ModeAggregate {
		res := p.ParseAggregate(text, window)
		out.Warnings = res.Errors
		c.warn(res.Errors)
		c.selector.Load(nil)
		agg := res.DPSStats
		c.state.Aggregate = &agg
		out.RenderErr = c.orch.RenderAggregate(agg)
		out.Rendered = true
		return out, nil
	}

	res := p.Parse(text, window, minDuration)
	out.Warnings = res.Errors
	c.warn(res.Errors)
	out.Labels = c.selector.Load(res.Fights)
	c.log.Info("log loaded",
		slog.Uint64("generation", t.Generation),
		slog.Int("fights", len(res.Fights)),
		slog.Int("warnings", len(res.Errors)),
	)
	if len(res.Fights) == 0 {
		return out, nil
	}
	out.RenderErr = c.SelectFight(0)
	out.Rendered = true
	return out, nil
}

// Ingest runs Start, Decode and Finish for one chosen file.
func (c *Controller) Ingest(ctx context.Context, sources []Source, window, minDuration int64) (Outcome, error) {
	t, err := c.Start(sources)
	if err != nil {
		return Outcome{}, err
	}
	text, err := c.Decode(ctx, t.Source)
	if err != nil {
		return Outcome{}, err
	}
	return c.Finish(t, text, window, minDuration)
}

// SelectFight selects fights[index] and redraws every slot from it.
func (c *Controller) SelectFight(index int) error {
	f, err := c.selector.Select(index)
	if err != nil {
		return err
	}
	return c.orch.RenderFight(f)
}

// Redraw draws the current fight, or the aggregate, again. Nothing happens when neither is loaded.
func (c *Controller) Redraw() error {
	if c.state.Aggregate != nil {
		return c.orch.RenderAggregate(*c.state.Aggregate)
	}
	f, ok := c.selector.Current()
	if !ok {
		return nil
	}
	return c.orch.RenderFight(f)
}

func sourceName(src Source) string {
	if src == nil {
		return "input"
	}
	return src.Name()
}

// FormatWarnings builds the alert text for unparsable lines.
func FormatWarnings(lines []string) string {
	return WarningPrefix + strings.Join(lines, "\n")
}

func (c *Controller) warn(lines []string) {
	if len(lines) == 0 {
		return
	}
	c.log.Warn("unparsable lines", slog.Int("count", len(lines)))
	if c.notifier != nil {
		c.notifier.Alert(FormatWarnings(lines))
	}
}
