// Package chart manages chart instances bound to named board anchors.
package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/fightlog/internal/stats"
)

const defaultChartHeight = 8

// TextLibrary renders charts as terminal text.
// Width, Height and Color apply to charts rendered after they change.
type TextLibrary struct {
	Width  int
	Height int
	Color  bool
}

// NewTextLibrary returns a text library with the given geometry.
func NewTextLibrary(width, height int, color bool) *TextLibrary {
	return &TextLibrary{Width: width, Height: height, Color: color}
}

// NewChart implements Library.
func (l *TextLibrary) NewChart(anchor Anchor, opts Options) (Chart, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	return &textChart{lib: l, anchor: anchor, opts: opts}, nil
}

type textChart struct {
	lib     *TextLibrary
	anchor  Anchor
	opts    Options
	mounted bool
}

func (c *textChart) Render() error {
	var buf bytes.Buffer
	switch c.opts.Chart.Type {
	case TypeTreemap:
		if err := stats.PlotTreemap(&buf, c.opts.titleText(), c.opts.Categories(), c.opts.Colors, c.lib.Width, c.lib.Color); err != nil {
			return err
		}
	case TypeBar:
		height := c.opts.Chart.Height
		if height <= 0 {
			height = c.lib.Height
		}
		if height <= 0 {
			height = defaultChartHeight
		}
		if err := stats.PlotStackedBars(&buf, c.opts.titleText(), c.opts.NamedSeries(), c.opts.Colors, c.lib.Width, height, c.lib.Color); err != nil {
			return err
		}
	}
	c.anchor.Mount(strings.TrimRight(buf.String(), "\n"))
	c.mounted = true
	return nil
}

func (c *textChart) Destroy() {
	if !c.mounted {
		return
	}
	c.anchor.Unmount()
	c.mounted = false
}

// OptionsLibrary mounts the options object itself as indented JSON.
type OptionsLibrary struct{}

// NewChart implements Library.
func (OptionsLibrary) NewChart(anchor Anchor, opts Options) (Chart, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	return &optionsChart{anchor: anchor, opts: opts}, nil
}

type optionsChart struct {
	anchor  Anchor
	opts    Options
	mounted bool
}

func (c *optionsChart) Render() error {
	data, err := json.MarshalIndent(c.opts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chart options: %w", err)
	}
	c.anchor.Mount(string(data))
	c.mounted = true
	return nil
}

func (c *optionsChart) Destroy() {
	if !c.mounted {
		return
	}
	c.anchor.Unmount()
	c.mounted = false
}

func checkType(opts Options) error {
	switch opts.Chart.Type {
	case TypeTreemap, TypeBar:
		return nil
	default:
		return fmt.Errorf("unsupported chart type %q", opts.Chart.Type)
	}
}
