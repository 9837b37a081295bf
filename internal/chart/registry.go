// Package chart manages chart instances bound to named board anchors.
package chart

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/fightlog/internal/model"
	"github.com/verte-zerg/fightlog/internal/stats"
)

// ErrAnchorNotFound is returned when a slot's anchor is missing from the surface.
var ErrAnchorNotFound = errors.New("anchor not found")

// AnchorError names the slot whose anchor could not be resolved.
type AnchorError struct {
	Slot   SlotID
	Anchor string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("failed to render %s: anchor %q not found", e.Slot, e.Anchor)
}

// Unwrap lets errors.Is match ErrAnchorNotFound.
func (e *AnchorError) Unwrap() error {
	return ErrAnchorNotFound
}

// Anchor is a place on a surface that holds at most one rendered chart.
type Anchor interface {
	ID() string
	Mount(content string)
	Unmount()
}

// Surface resolves anchor ids to anchors.
type Surface interface {
	Anchor(id string) (Anchor, bool)
}

// Chart is a live chart instance created by a Library.
type Chart interface {
	Render() error
	Destroy()
}

// Library creates charts from declarative options.
type Library interface {
	NewChart(anchor Anchor, opts Options) (Chart, error)
}

// Registry keeps at most one live chart per slot.
type Registry struct {
	surface Surface
	lib     Library
	charts  map[SlotID]Chart
}

// NewRegistry returns an empty registry drawing on surface with lib.
func NewRegistry(surface Surface, lib Library) *Registry {
	return &Registry{
		surface: surface,
		lib:     lib,
		charts:  map[SlotID]Chart{},
	}
}

// RenderCategory replaces the slot's chart with a treemap of data.
func (r *Registry) RenderCategory(slot SlotID, data *model.Amounts) error {
	return r.Render(slot, CategoryOptions(slot.Title(), stats.BuildCategorySeries(data)))
}

// RenderTimeSeries replaces the slot's chart with stacked bars of series.
func (r *Registry) RenderTimeSeries(slot SlotID, series []stats.NamedSeries, palette []string) error {
	return r.Render(slot, TimeSeriesOptions(slot.Title(), series, palette))
}

// Render destroys the chart bound to slot, if any, then creates, renders and binds a new one.
// On failure nothing is left bound to the slot.
func (r *Registry) Render(slot SlotID, opts Options) error {
	r.Clear(slot)
	anchor, ok := r.surface.Anchor(slot.Anchor())
	if !ok {
		return &AnchorError{Slot: slot, Anchor: slot.Anchor()}
	}
	c, err := r.lib.NewChart(anchor, opts)
	if err != nil {
		return fmt.Errorf("failed to create %s chart: %w", slot, err)
	}
	if err := c.Render(); err != nil {
		c.Destroy()
		return fmt.Errorf("failed to render %s chart: %w", slot, err)
	}
	r.charts[slot] = c
	return nil
}

// Clear destroys the chart bound to slot, if any, and leaves the slot empty.
func (r *Registry) Clear(slot SlotID) {
	if old, ok := r.charts[slot]; ok {
		old.Destroy()
		delete(r.charts, slot)
	}
}

// Bound reports whether a live chart is bound to slot.
func (r *Registry) Bound(slot SlotID) bool {
	_, ok := r.charts[slot]
	return ok
}

// Len returns the number of live charts.
func (r *Registry) Len() int {
	return len(r.charts)
}
