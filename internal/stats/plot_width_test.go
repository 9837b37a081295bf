package stats

import (
	"testing"
	"unicode/utf8"
)

func TestPlotWidthFor(t *testing.T) {
	axisWidth := 4
	total := 80
	expected := total - axisWidth - utf8.RuneCountInString(axisSeparator)
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total, axisWidth); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0, axisWidth); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeriesAveragesBuckets(t *testing.T) {
	got := resampleSeries([]float64{2, 4, 6, 8}, 2)
	if len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Fatalf("unexpected resample %v", got)
	}
	short := resampleSeries([]float64{1, 2}, 5)
	if len(short) != 2 {
		t.Fatalf("expected short series to stay unstretched, got %v", short)
	}
}
