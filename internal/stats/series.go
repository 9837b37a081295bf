// Package stats contains series building, fight metrics and text chart rendering.
package stats

import (
	"sort"

	"github.com/verte-zerg/fightlog/internal/model"
)

// Category is one labelled value of a categorical chart.
type Category struct {
	Label string
	Value float64
}

// NamedSeries is one named value sequence of a time-series chart.
// Data is index-aligned to seconds from the fight start.
type NamedSeries struct {
	Name string
	Data []float64
}

// BuildCategorySeries orders a category mapping for a treemap or bar chart.
// Values sort descending; equal values keep the mapping's iteration order.
func BuildCategorySeries(stat *model.Amounts) []Category {
	entries := stat.Entries()
	out := make([]Category, 0, len(entries))
	for _, e := range entries {
		out = append(out, Category{Label: e.Key, Value: float64(e.Value)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// BuildTimeSeries wraps values as a named series without resampling.
func BuildTimeSeries(name string, values []float64) NamedSeries {
	return NamedSeries{Name: name, Data: values}
}

// SampleValues returns the amounts of a by-seconds sequence in order.
func SampleValues(samples []model.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s.Amount)
	}
	return out
}
