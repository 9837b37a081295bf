package stats

import (
	"testing"

	"github.com/verte-zerg/fightlog/internal/model"
)

func TestBuildCategorySeriesSortsDescending(t *testing.T) {
	stat := model.AmountsOf(
		model.Amount{Key: "Ice", Value: 10},
		model.Amount{Key: "Nature", Value: 40},
		model.Amount{Key: "Fire", Value: 25},
	)
	got := BuildCategorySeries(stat)
	want := []Category{{"Nature", 40}, {"Fire", 25}, {"Ice", 10}}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestBuildCategorySeriesKeepsTieOrder(t *testing.T) {
	first := model.AmountsOf(
		model.Amount{Key: "Enemy A", Value: 50},
		model.Amount{Key: "Boss", Value: 90},
		model.Amount{Key: "Enemy B", Value: 50},
	)
	got := BuildCategorySeries(first)
	if got[1].Label != "Enemy A" || got[2].Label != "Enemy B" {
		t.Fatalf("expected Enemy A before Enemy B, got %+v", got)
	}

	second := model.AmountsOf(
		model.Amount{Key: "Enemy B", Value: 50},
		model.Amount{Key: "Enemy A", Value: 50},
	)
	got = BuildCategorySeries(second)
	if got[0].Label != "Enemy B" || got[1].Label != "Enemy A" {
		t.Fatalf("expected Enemy B before Enemy A, got %+v", got)
	}
}

func TestBuildCategorySeriesEmpty(t *testing.T) {
	if got := BuildCategorySeries(model.NewAmounts()); len(got) != 0 {
		t.Fatalf("expected empty series, got %+v", got)
	}
	if got := BuildCategorySeries(nil); len(got) != 0 {
		t.Fatalf("expected empty series for nil mapping, got %+v", got)
	}
}

func TestBuildTimeSeriesKeepsValues(t *testing.T) {
	values := []float64{0, 12, 0, 7}
	s := BuildTimeSeries("Damage", values)
	if s.Name != "Damage" {
		t.Fatalf("unexpected name %q", s.Name)
	}
	if len(s.Data) != len(values) {
		t.Fatalf("expected %d points, got %d", len(values), len(s.Data))
	}
	for i := range values {
		if s.Data[i] != values[i] {
			t.Fatalf("point %d: expected %v, got %v", i, values[i], s.Data[i])
		}
	}
}

func TestSampleValues(t *testing.T) {
	samples := []model.Sample{{Second: 0, Amount: 3}, {Second: 1, Amount: 0}, {Second: 2, Amount: 9}}
	got := SampleValues(samples)
	if len(got) != 3 || got[0] != 3 || got[1] != 0 || got[2] != 9 {
		t.Fatalf("unexpected values %v", got)
	}
}
