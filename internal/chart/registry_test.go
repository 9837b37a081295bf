package chart

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/stats"
)

type fakeLibrary struct {
	live    int
	created int
	events  []string
	failOn  string
}

func (l *fakeLibrary) NewChart(anchor Anchor, opts Options) (Chart, error) {
	l.created++
	l.events = append(l.events, "create "+anchor.ID())
	return &fakeChart{lib: l, anchor: anchor, opts: opts}, nil
}

type fakeChart struct {
	lib    *fakeLibrary
	anchor Anchor
	opts   Options
}

func (c *fakeChart) Render() error {
	if c.lib.failOn == c.anchor.ID() {
		return errors.New("boom")
	}
	c.lib.live++
	c.anchor.Mount(c.opts.Chart.Type)
	return nil
}

func (c *fakeChart) Destroy() {
	c.lib.events = append(c.lib.events, "destroy "+c.anchor.ID())
	if c.anchor.(*Pane).Mounted() > 0 {
		c.lib.live--
		c.anchor.Unmount()
	}
}

func TestRegistryReplacesChartInSlot(t *testing.T) {
	board := NewBoard()
	lib := &fakeLibrary{}
	reg := NewRegistry(board, lib)
	data := model.AmountsOf(model.Amount{Key: "Ice", Value: 10})

	for i := 0; i < 5; i++ {
		if err := reg.RenderCategory(SlotDamageEmitByKind, data); err != nil {
			t.Fatalf("RenderCategory failed: %v", err)
		}
	}
	if lib.live != 1 {
		t.Fatalf("expected 1 live chart, got %d", lib.live)
	}
	if lib.created != 5 {
		t.Fatalf("expected 5 creations, got %d", lib.created)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 bound slot, got %d", reg.Len())
	}
	pane, _ := board.Anchor(SlotDamageEmitByKind.Anchor())
	if got := pane.(*Pane).Mounted(); got != 1 {
		t.Fatalf("expected one mounted chart on the pane, got %d", got)
	}
}

func TestRegistryDestroysBeforeCreating(t *testing.T) {
	lib := &fakeLibrary{}
	reg := NewRegistry(NewBoard(), lib)
	slot := SlotHealEmitByAlly
	if err := reg.RenderCategory(slot, model.NewAmounts()); err != nil {
		t.Fatalf("RenderCategory failed: %v", err)
	}
	if err := reg.RenderCategory(slot, model.NewAmounts()); err != nil {
		t.Fatalf("RenderCategory failed: %v", err)
	}
	want := []string{
		"create " + slot.Anchor(),
		"destroy " + slot.Anchor(),
		"create " + slot.Anchor(),
	}
	if strings.Join(lib.events, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lifecycle: %v", lib.events)
	}
}

func TestRegistryMissingAnchor(t *testing.T) {
	board := NewBoard(SlotDamageReceivedByKind)
	lib := &fakeLibrary{}
	reg := NewRegistry(board, lib)

	err := reg.RenderCategory(SlotDamageEmitByEnemy, model.NewAmounts())
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("expected ErrAnchorNotFound, got %v", err)
	}
	var anchorErr *AnchorError
	if !errors.As(err, &anchorErr) || anchorErr.Slot != SlotDamageEmitByEnemy {
		t.Fatalf("expected AnchorError for slot, got %v", err)
	}
	if reg.Bound(SlotDamageEmitByEnemy) {
		t.Fatalf("expected nothing bound after failure")
	}
	if lib.created != 0 {
		t.Fatalf("expected no chart creation, got %d", lib.created)
	}
	if err := reg.RenderCategory(SlotDamageReceivedByKind, model.NewAmounts()); err != nil {
		t.Fatalf("other slot should still render: %v", err)
	}
}

func TestRegistryRenderFailureLeavesSlotEmpty(t *testing.T) {
	slot := SlotDamageReceivedSeconds
	lib := &fakeLibrary{}
	reg := NewRegistry(NewBoard(), lib)
	if err := reg.RenderTimeSeries(slot, nil, nil); err != nil {
		t.Fatalf("RenderTimeSeries failed: %v", err)
	}
	lib.failOn = slot.Anchor()
	if err := reg.RenderTimeSeries(slot, nil, nil); err == nil {
		t.Fatalf("expected render failure")
	}
	if reg.Bound(slot) {
		t.Fatalf("expected slot to be unbound")
	}
	if lib.live != 0 {
		t.Fatalf("expected no live charts, got %d", lib.live)
	}
}

func TestRegistryOptionsShape(t *testing.T) {
	var got []Options
	lib := libraryFunc(func(anchor Anchor, opts Options) (Chart, error) {
		got = append(got, opts)
		return &fakeChart{lib: &fakeLibrary{}, anchor: anchor, opts: opts}, nil
	})
	reg := NewRegistry(NewBoard(), lib)

	cats := model.AmountsOf(
		model.Amount{Key: "Fire", Value: 5},
		model.Amount{Key: "Ice", Value: 20},
	)
	if err := reg.RenderCategory(SlotDamageEmitByKind, cats); err != nil {
		t.Fatalf("RenderCategory failed: %v", err)
	}
	series := []stats.NamedSeries{
		stats.BuildTimeSeries("Damage", []float64{1, 2}),
		stats.BuildTimeSeries("Absorbed", []float64{0, 3}),
	}
	if err := reg.RenderTimeSeries(SlotDamageEmitSeconds, series, []string{"#111111", "#222222"}); err != nil {
		t.Fatalf("RenderTimeSeries failed: %v", err)
	}

	tree := got[0]
	if tree.Chart.Type != TypeTreemap || len(tree.Series) != 1 {
		t.Fatalf("unexpected treemap options: %+v", tree)
	}
	if tree.Series[0].Data[0] != (Point{X: "Ice", Y: 20}) || tree.Series[0].Data[1] != (Point{X: "Fire", Y: 5}) {
		t.Fatalf("unexpected treemap points: %+v", tree.Series[0].Data)
	}

	bars := got[1]
	if bars.Chart.Type != TypeBar || !bars.Chart.Stacked {
		t.Fatalf("expected stacked bar chart, got %+v", bars.Chart)
	}
	if len(bars.Series) != 2 || bars.Series[1].Name != "Absorbed" {
		t.Fatalf("unexpected bar series: %+v", bars.Series)
	}
	if bars.Series[1].Data[1] != (Point{X: "1", Y: 3}) {
		t.Fatalf("unexpected bar point: %+v", bars.Series[1].Data[1])
	}
	if len(bars.Colors) != 2 || bars.Colors[0] != "#111111" {
		t.Fatalf("unexpected palette: %v", bars.Colors)
	}
}

type libraryFunc func(anchor Anchor, opts Options) (Chart, error)

func (f libraryFunc) NewChart(anchor Anchor, opts Options) (Chart, error) {
	return f(anchor, opts)
}

func TestRegistryClearEmptiesSlot(t *testing.T) {
	board := NewBoard()
	lib := &fakeLibrary{}
	reg := NewRegistry(board, lib)
	if err := reg.RenderCategory(SlotHealEmitByAlly, model.NewAmounts()); err != nil {
		t.Fatalf("RenderCategory failed: %v", err)
	}
	reg.Clear(SlotHealEmitByAlly)
	reg.Clear(SlotHealEmitByAlly)
	if reg.Bound(SlotHealEmitByAlly) || reg.Len() != 0 {
		t.Fatalf("expected slot unbound after Clear")
	}
	if lib.live != 0 {
		t.Fatalf("expected no live charts, got %d", lib.live)
	}
	if board.View() != "" {
		t.Fatalf("expected empty board, got %q", board.View())
	}
}
