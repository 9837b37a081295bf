// Package stats contains series building, fight metrics and text chart rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	maxLabelWidth       = 24
	axisSeparator       = " │ "
	noDataNote          = "No data."
	untypedLabel        = "(untyped)"
	terminalWidthBackup = 80
)

// DefaultPalette colours categories when a chart carries no palette of its own.
var DefaultPalette = []string{
	"#C89A3A", "#4F9DDE", "#E0605E", "#52C41A", "#9B6BD3",
	"#13C2C2", "#EB7CB4", "#A0D911", "#FA8C16", "#6E7FD8",
}

var partialBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Used instead of colour to tell categories apart on monochrome output.
var shadeRunes = []rune{'█', '▓', '▒', '░'}

// PlotStackedBars renders series stacked on top of each other, one column per second.
// Columns are averaged into buckets when there are more seconds than width.
// Series of unequal length are clipped to the shortest non-empty one.
func PlotStackedBars(w io.Writer, title string, series []NamedSeries, colors []string, width, height int, useColor bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	series = filterSeries(series)
	n := minSeriesLen(series)
	if n == 0 {
		return writeNoData(w)
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = terminalWidth()
	}

	clipped := make([]NamedSeries, len(series))
	for i, s := range series {
		clipped[i] = NamedSeries{Name: s.Name, Data: s.Data[:n]}
	}

	axisWidth := runewidth.StringWidth(formatAmount(maxStackTotal(clipped)))
	plotWidth := PlotWidthFor(width, axisWidth)
	fitted := make([][]float64, len(clipped))
	for i, s := range clipped {
		if n > plotWidth {
			fitted[i] = resampleSeries(s.Data, plotWidth)
		} else {
			fitted[i] = s.Data
		}
	}
	cols := len(fitted[0])

	maxTotal := 0.0
	for x := 0; x < cols; x++ {
		total := 0.0
		for _, values := range fitted {
			total += math.Max(values[x], 0)
		}
		maxTotal = math.Max(maxTotal, total)
	}
	scale := maxTotal
	if scale <= 0 {
		scale = 1
	}

	totalUnits := float64(height * 8)
	tops := make([][]int, len(fitted))
	for si := range fitted {
		tops[si] = make([]int, cols)
	}
	for x := 0; x < cols; x++ {
		acc := 0.0
		for si, values := range fitted {
			acc += math.Max(values[x], 0)
			tops[si][x] = int(math.Round(acc / scale * totalUnits))
		}
	}

	for _, s := range clipped {
		total, peak := seriesTotalPeak(s.Data)
		if _, err := fmt.Fprintf(w, "%s: total=%s peak=%s\n", s.Name, formatAmount(total), formatAmount(peak)); err != nil {
			return err
		}
	}

	axisLabels := makeAxisLabels(height, maxTotal)
	last := len(tops) - 1
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, axisLabels[y], axisSeparator))
		rowBottom := (height - 1 - y) * 8
		for x := 0; x < cols; x++ {
			filled := tops[last][x] - rowBottom
			if filled <= 0 {
				row.WriteRune(' ')
				continue
			}
			if filled > 8 {
				filled = 8
			}
			unit := rowBottom + filled - 1
			owner := 0
			for si := range tops {
				if tops[si][x] > unit {
					owner = si
					break
				}
			}
			row.WriteString(paint(string(partialBlocks[filled]), paletteColor(colors, owner), useColor))
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderTimeAxis(axisWidth, cols, n)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(clipped, colors, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// PlotTreemap renders categories as a proportional strip followed by ranked rows.
func PlotTreemap(w io.Writer, title string, cats []Category, colors []string, width int, useColor bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	total := 0.0
	maxVal := 0.0
	for _, c := range cats {
		if c.Value > 0 {
			total += c.Value
			maxVal = math.Max(maxVal, c.Value)
		}
	}
	if len(cats) == 0 || total <= 0 {
		return writeNoData(w)
	}
	if width <= 0 {
		width = terminalWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if len(colors) == 0 {
		colors = DefaultPalette
	}

	var strip strings.Builder
	for i, cells := range allocateCells(cats, total, width) {
		if cells == 0 {
			continue
		}
		strip.WriteString(paint(strings.Repeat(string(fillRune(i, useColor)), cells), paletteColor(colors, i), useColor))
	}
	if _, err := fmt.Fprintln(w, strip.String()); err != nil {
		return err
	}

	labelWidth := 0
	valueWidth := 0
	for _, c := range cats {
		labelWidth = maxInt(labelWidth, runewidth.StringWidth(displayLabel(c.Label)))
		valueWidth = maxInt(valueWidth, len(formatAmount(c.Value)))
	}
	labelWidth = minInt(labelWidth, maxLabelWidth)
	barWidth := maxInt(1, width-labelWidth-valueWidth-len("100.0%")-3)
	for i, c := range cats {
		label := runewidth.FillRight(runewidth.Truncate(displayLabel(c.Label), labelWidth, "…"), labelWidth)
		barLen := 0
		if c.Value > 0 {
			barLen = int(math.Round(c.Value / maxVal * float64(barWidth)))
		}
		bar := paint(strings.Repeat(string(fillRune(i, useColor)), barLen), paletteColor(colors, i), useColor) +
			strings.Repeat(" ", barWidth-barLen)
		share := math.Max(c.Value, 0) / total * 100
		if _, err := fmt.Fprintf(w, "%s %s %*s %5.1f%%\n", label, bar, valueWidth, formatAmount(c.Value), share); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func writeNoData(w io.Writer) error {
	if _, err := fmt.Fprintln(w, noDataNote); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func filterSeries(series []NamedSeries) []NamedSeries {
	out := make([]NamedSeries, 0, len(series))
	for _, s := range series {
		if len(s.Data) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func minSeriesLen(series []NamedSeries) int {
	if len(series) == 0 {
		return 0
	}
	minLen := len(series[0].Data)
	for _, s := range series[1:] {
		if len(s.Data) < minLen {
			minLen = len(s.Data)
		}
	}
	return minLen
}

func maxStackTotal(series []NamedSeries) float64 {
	maxTotal := 0.0
	for x := 0; x < minSeriesLen(series); x++ {
		total := 0.0
		for _, s := range series {
			total += math.Max(s.Data[x], 0)
		}
		maxTotal = math.Max(maxTotal, total)
	}
	return maxTotal
}

func seriesTotalPeak(values []float64) (float64, float64) {
	var total, peak float64
	for _, v := range values {
		total += v
		peak = math.Max(peak, v)
	}
	return total, peak
}

// PlotWidthFor computes the column count that fits next to an axis of the given width.
func PlotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether output to w should carry colour.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int, maxTotal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatAmount(maxTotal)
	if height > 2 {
		labels[height/2] = formatAmount(maxTotal / 2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func renderTimeAxis(axisWidth, cols, seconds int) string {
	prefix := strings.Repeat(" ", axisWidth+runewidth.StringWidth(axisSeparator))
	left := "0s"
	right := fmt.Sprintf("%ds", seconds-1)
	gap := cols - len(left) - len(right)
	if seconds <= 1 || gap < 1 {
		return prefix + left
	}
	return prefix + left + strings.Repeat(" ", gap) + right
}

func renderLegend(series []NamedSeries, colors []string, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		marker := paint(string(partialBlocks[len(partialBlocks)-1]), paletteColor(colors, i), useColor)
		parts = append(parts, marker+" "+s.Name)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// allocateCells splits width cells across categories by largest remainder.
func allocateCells(cats []Category, total float64, width int) []int {
	cells := make([]int, len(cats))
	remainders := make([]float64, len(cats))
	used := 0
	for i, c := range cats {
		if c.Value <= 0 {
			continue
		}
		exact := c.Value / total * float64(width)
		cells[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(cells[i])
		used += cells[i]
	}
	for ; used < width; used++ {
		best := -1
		for i, r := range remainders {
			if cats[i].Value <= 0 {
				continue
			}
			if best == -1 || r > remainders[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		cells[best]++
		remainders[best] = -1
	}
	return cells
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func fillRune(i int, useColor bool) rune {
	if useColor {
		return shadeRunes[0]
	}
	return shadeRunes[i%len(shadeRunes)]
}

func paletteColor(colors []string, i int) string {
	if len(colors) == 0 {
		return ""
	}
	return colors[i%len(colors)]
}

func paint(s, color string, useColor bool) string {
	if !useColor || color == "" || s == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func displayLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return untypedLabel
	}
	return label
}

func formatAmount(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
