// Package chart manages chart instances bound to named board anchors.
package chart

import (
	"strconv"

	"github.com/verte-zerg/fightlog/internal/stats"
)

// Chart types understood by the libraries.
const (
	TypeTreemap = "treemap"
	TypeBar     = "bar"
)

// Options is the declarative description a Library turns into a chart.
// Field names follow the browser charting library so the JSON can be fed to it as-is.
type Options struct {
	Chart       ChartConfig  `json:"chart"`
	Title       *Title       `json:"title,omitempty"`
	Series      []Series     `json:"series"`
	Colors      []string     `json:"colors,omitempty"`
	PlotOptions *PlotOptions `json:"plotOptions,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
}

// ChartConfig selects the chart type and its container behaviour.
type ChartConfig struct {
	Type    string   `json:"type"`
	Stacked bool     `json:"stacked,omitempty"`
	Height  int      `json:"height,omitempty"`
	Toolbar *Toolbar `json:"toolbar,omitempty"`
	Zoom    *Zoom    `json:"zoom,omitempty"`
}

// Toolbar toggles the chart toolbar.
type Toolbar struct {
	Show bool `json:"show"`
}

// Zoom toggles zooming.
type Zoom struct {
	Enabled bool `json:"enabled"`
}

// Title is the chart heading.
type Title struct {
	Text string `json:"text"`
}

// Legend toggles the legend.
type Legend struct {
	Show bool `json:"show"`
}

// PlotOptions carries type-specific settings.
type PlotOptions struct {
	Treemap *TreemapOptions `json:"treemap,omitempty"`
}

// TreemapOptions controls treemap colouring.
type TreemapOptions struct {
	Distributed  bool `json:"distributed"`
	EnableShades bool `json:"enableShades"`
}

// Series is one data series of a chart.
type Series struct {
	Name string  `json:"name,omitempty"`
	Data []Point `json:"data"`
}

// Point is an x/y pair; x is a category label or a second offset.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// CategoryOptions describes a treemap over ordered categories.
func CategoryOptions(title string, cats []stats.Category) Options {
	points := make([]Point, 0, len(cats))
	for _, c := range cats {
		points = append(points, Point{X: c.Label, Y: c.Value})
	}
	return Options{
		Chart:  ChartConfig{Type: TypeTreemap},
		Title:  &Title{Text: title},
		Series: []Series{{Data: points}},
		PlotOptions: &PlotOptions{
			Treemap: &TreemapOptions{Distributed: true},
		},
		Legend: &Legend{Show: false},
	}
}

// TimeSeriesOptions describes stacked bars, one point per second offset.
func TimeSeriesOptions(title string, series []stats.NamedSeries, palette []string) Options {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		points := make([]Point, len(s.Data))
		for i, v := range s.Data {
			points[i] = Point{X: strconv.Itoa(i), Y: v}
		}
		out = append(out, Series{Name: s.Name, Data: points})
	}
	return Options{
		Chart: ChartConfig{
			Type:    TypeBar,
			Stacked: true,
			Toolbar: &Toolbar{Show: false},
			Zoom:    &Zoom{Enabled: false},
		},
		Title:  &Title{Text: title},
		Series: out,
		Colors: palette,
		Legend: &Legend{Show: true},
	}
}

// Categories reads the treemap points back as categories, in order.
func (o Options) Categories() []stats.Category {
	if len(o.Series) == 0 {
		return nil
	}
	out := make([]stats.Category, 0, len(o.Series[0].Data))
	for _, p := range o.Series[0].Data {
		out = append(out, stats.Category{Label: p.X, Value: p.Y})
	}
	return out
}

// NamedSeries reads the bar series back as value sequences.
func (o Options) NamedSeries() []stats.NamedSeries {
	out := make([]stats.NamedSeries, 0, len(o.Series))
	for _, s := range o.Series {
		values := make([]float64, len(s.Data))
		for i, p := range s.Data {
			values[i] = p.Y
		}
		out = append(out, stats.NamedSeries{Name: s.Name, Data: values})
	}
	return out
}

func (o Options) titleText() string {
	if o.Title == nil {
		return ""
	}
	return o.Title.Text
}
