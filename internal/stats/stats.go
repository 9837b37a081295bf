// Package stats contains series building, fight metrics and text chart rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/fightlog/internal/model"
)

const sparkChars = " .:-=+*#%@"

// FightMetrics computes damage and healing per second over a fight.
// A fight that starts and ends in the same second counts as one second long.
func FightMetrics(f model.Fight) (dps, hps float64) {
	seconds := float64(f.Time.Duration() + 1)
	if seconds <= 0 {
		return 0, 0
	}
	dps = float64(f.DPSStats.EmitByKind.Total()) / seconds
	hps = float64(f.HealStats.ReceivedByAlly.Total()) / seconds
	return dps, hps
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderFightList prints one row per fight with its label, totals and a damage sparkline.
func RenderFightList(w io.Writer, fights []model.Fight, labels []string, sparkWidth int) error {
	if len(fights) == 0 {
		_, err := fmt.Fprintln(w, "No fights found.")
		return err
	}
	headers := []string{"#", "Fight", "Damage", "DPS", "Heal in", "HPS", "Damage/s"}
	rows := make([][]string, 0, len(fights))
	for i, f := range fights {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		dps, hps := FightMetrics(f)
		values := SampleValues(f.DPSStats.EmitBySeconds)
		if sparkWidth > 0 && len(values) > sparkWidth {
			values = resampleSeries(values, sparkWidth)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			label,
			fmt.Sprintf("%d", f.DPSStats.EmitByKind.Total()),
			fmt.Sprintf("%.1f", dps),
			fmt.Sprintf("%d", f.HealStats.ReceivedByAlly.Total()),
			fmt.Sprintf("%.1f", hps),
			Sparkline(values),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
