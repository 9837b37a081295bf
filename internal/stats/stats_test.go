package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/fightlog/internal/model"
)

func TestFightMetrics(t *testing.T) {
	f := model.Fight{
		Time:      model.TimeRange{Start: 100, End: 109},
		DPSStats:  model.Stats{EmitByKind: model.AmountsOf(model.Amount{Key: "Ice", Value: 300}, model.Amount{Key: "Fire", Value: 200})},
		HealStats: model.Stats{ReceivedByAlly: model.AmountsOf(model.Amount{Key: "You", Value: 50})},
	}
	dps, hps := FightMetrics(f)
	if dps != 50 {
		t.Fatalf("expected dps 50, got %v", dps)
	}
	if hps != 5 {
		t.Fatalf("expected hps 5, got %v", hps)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderFightList(t *testing.T) {
	fights := []model.Fight{
		{
			Time:     model.TimeRange{Start: 0, End: 1},
			DPSStats: model.Stats{EmitByKind: model.AmountsOf(model.Amount{Key: "Ice", Value: 20}), EmitBySeconds: []model.Sample{{Second: 0, Amount: 5}, {Second: 1, Amount: 15}}},
		},
	}
	var buf bytes.Buffer
	if err := RenderFightList(&buf, fights, []string{"Thrall Soul"}, 10); err != nil {
		t.Fatalf("RenderFightList failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Thrall Soul") || !strings.Contains(lines[1], "10.0") {
		t.Fatalf("unexpected row %q", lines[1])
	}

	buf.Reset()
	if err := RenderFightList(&buf, nil, nil, 10); err != nil {
		t.Fatalf("RenderFightList failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No fights found." {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
