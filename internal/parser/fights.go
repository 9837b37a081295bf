// Package parser turns combat log text into per-fight statistics.
package parser

import (
	"sort"
	"time"

	"github.com/verte-zerg/fightlog/internal/model"
)

// splitFights groups timestamps into fights.
// Times are truncated to whole seconds; a gap strictly longer than window
// seconds starts a new fight.
func splitFights(times []time.Time, window int64) []model.TimeRange {
	if len(times) == 0 {
		return nil
	}
	if window < 0 {
		window = 0
	}
	secs := make([]int64, len(times))
	for i, t := range times {
		secs[i] = t.Unix()
	}
	sort.Slice(secs, func(i, j int) bool {
		return secs[i] < secs[j]
	})

	var out []model.TimeRange
	start := secs[0]
	prev := start
	for _, cur := range secs[1:] {
		if cur-prev > window {
			out = append(out, model.TimeRange{Start: start, End: prev})
			start = cur
		}
		prev = cur
	}
	return append(out, model.TimeRange{Start: start, End: prev})
}

// dropShort removes fights lasting less than minDuration seconds.
func dropShort(ranges []model.TimeRange, minDuration int64) []model.TimeRange {
	out := ranges[:0]
	for _, r := range ranges {
		if r.Duration() < minDuration {
			continue
		}
		out = append(out, r)
	}
	return out
}

// fightIndex returns the range covering the second at, or -1.
func fightIndex(ranges []model.TimeRange, at int64) int {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].End >= at
	})
	if i < len(ranges) && ranges[i].Start <= at {
		return i
	}
	return -1
}
