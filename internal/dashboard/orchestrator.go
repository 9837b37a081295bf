// Package dashboard selects fights and drives chart rendering for a loaded log.
package dashboard

import (
	"errors"
	"log/slog"

	"github.com/verte-zerg/fightlog/internal/chart"
	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/stats"
)

// Series names used by the per-second charts.
const (
	SeriesDamage   = "Damage"
	SeriesHeal     = "Heal"
	SeriesAbsorbed = "Absorbed"
)

// Renderer draws a chart into a slot. *chart.Registry implements it.
type Renderer interface {
	RenderCategory(slot chart.SlotID, data *model.Amounts) error
	RenderTimeSeries(slot chart.SlotID, series []stats.NamedSeries, palette []string) error
	Clear(slot chart.SlotID)
}

// Palettes colours the per-second charts: value first, absorbed second.
type Palettes struct {
	DamageReceived []string
	HealReceived   []string
	DamageEmitted  []string
	HealEmitted    []string
}

// DefaultPalettes returns the built-in per-second chart colours.
func DefaultPalettes() Palettes {
	return Palettes{
		DamageReceived: []string{"#FF4D4F", "#8C8C8C"},
		HealReceived:   []string{"#52C41A", "#8C8C8C"},
		DamageEmitted:  []string{"#FA8C16", "#8C8C8C"},
		HealEmitted:    []string{"#13C2C2", "#8C8C8C"},
	}
}

// Orchestrator fills every slot from one fight or from a whole-log aggregate.
type Orchestrator struct {
	charts   Renderer
	palettes Palettes
	log      *slog.Logger
}

// NewOrchestrator returns an orchestrator drawing through charts.
func NewOrchestrator(charts Renderer, palettes Palettes, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		charts:   charts,
		palettes: palettes,
		log:      logger.With(slog.String("module", "dashboard")),
	}
}

// RenderFight redraws all ten slots from f in dashboard order.
// A failing slot is logged and does not stop the others; the failures are joined.
func (o *Orchestrator) RenderFight(f model.Fight) error {
	dps, heal := f.DPSStats, f.HealStats
	var errs []error

	timeSeries := []struct {
		slot     chart.SlotID
		name     string
		values   []model.Sample
		absorbed []model.Sample
		palette  []string
	}{
		{chart.SlotDamageReceivedSeconds, SeriesDamage, dps.ReceivedBySeconds, dps.ReceivedBySecondsAbsorbed, o.palettes.DamageReceived},
		{chart.SlotHealReceivedSeconds, SeriesHeal, heal.ReceivedBySeconds, heal.ReceivedBySecondsAbsorbed, o.palettes.HealReceived},
		{chart.SlotDamageEmitSeconds, SeriesDamage, dps.EmitBySeconds, dps.EmitBySecondsAbsorbed, o.palettes.DamageEmitted},
		{chart.SlotHealEmitSeconds, SeriesHeal, heal.EmitBySeconds, heal.EmitBySecondsAbsorbed, o.palettes.HealEmitted},
	}
	for _, ts := range timeSeries {
		series := []stats.NamedSeries{
			stats.BuildTimeSeries(ts.name, stats.SampleValues(ts.values)),
			stats.BuildTimeSeries(SeriesAbsorbed, stats.SampleValues(ts.absorbed)),
		}
		errs = o.collect(errs, ts.slot, o.charts.RenderTimeSeries(ts.slot, series, ts.palette))
	}

	categories := []struct {
		slot chart.SlotID
		data *model.Amounts
	}{
		{chart.SlotDamageReceivedByKind, dps.ReceivedByKind},
		{chart.SlotDamageEmitByKind, dps.EmitByKind},
		{chart.SlotDamageReceivedByEnemy, dps.ReceivedByEnemy},
		{chart.SlotDamageEmitByEnemy, dps.EmitByEnemy},
		{chart.SlotHealReceivedByAlly, heal.ReceivedByAlly},
		{chart.SlotHealEmitByAlly, heal.EmitByAlly},
	}
	for _, c := range categories {
		errs = o.collect(errs, c.slot, o.charts.RenderCategory(c.slot, c.data))
	}
	return errors.Join(errs...)
}

// RenderAggregate redraws the four damage breakdown slots from whole-log stats
// and empties the slots it does not draw.
func (o *Orchestrator) RenderAggregate(s model.Stats) error {
	drawn := map[chart.SlotID]bool{}
	for _, slot := range AggregateSlots() {
		drawn[slot] = true
	}
	for _, slot := range chart.AllSlots() {
		if !drawn[slot] {
			o.charts.Clear(slot)
		}
	}

	var errs []error
	for _, c := range []struct {
		slot chart.SlotID
		data *model.Amounts
	}{
		{chart.SlotDamageReceivedByKind, s.ReceivedByKind},
		{chart.SlotDamageEmitByKind, s.EmitByKind},
		{chart.SlotDamageReceivedByEnemy, s.ReceivedByEnemy},
		{chart.SlotDamageEmitByEnemy, s.EmitByEnemy},
	} {
		errs = o.collect(errs, c.slot, o.charts.RenderCategory(c.slot, c.data))
	}
	return errors.Join(errs...)
}

// AggregateSlots lists the slots RenderAggregate draws.
func AggregateSlots() []chart.SlotID {
	return []chart.SlotID{
		chart.SlotDamageReceivedByKind,
		chart.SlotDamageEmitByKind,
		chart.SlotDamageReceivedByEnemy,
		chart.SlotDamageEmitByEnemy,
	}
}

func (o *Orchestrator) collect(errs []error, slot chart.SlotID, err error) []error {
	if err == nil {
		return errs
	}
	o.log.Warn("chart render failed", slog.String("slot", slot.String()), slog.Any("error", err))
	return append(errs, err)
}
