// Package chart manages chart instances bound to named board anchors.
package chart

import "fmt"

// SlotID names one visualization slot on the dashboard.
type SlotID int

// Slots in dashboard order.
const (
	SlotDamageReceivedSeconds SlotID = iota
	SlotHealReceivedSeconds
	SlotDamageEmitSeconds
	SlotHealEmitSeconds
	SlotDamageReceivedByKind
	SlotDamageEmitByKind
	SlotDamageReceivedByEnemy
	SlotDamageEmitByEnemy
	SlotHealReceivedByAlly
	SlotHealEmitByAlly
	slotCount
)

// Kind tells categorical charts from time-series charts.
type Kind int

// Chart kinds.
const (
	KindCategorical Kind = iota
	KindTimeSeries
)

type slotInfo struct {
	anchor string
	title  string
	kind   Kind
}

var slotTable = [slotCount]slotInfo{
	SlotDamageReceivedSeconds: {"chart_damage_received_seconds", "Damage received / absorbed per second", KindTimeSeries},
	SlotHealReceivedSeconds:   {"chart_heal_received_seconds", "Heal received / absorbed per second", KindTimeSeries},
	SlotDamageEmitSeconds:     {"chart_damage_emit_seconds", "Damage done / absorbed per second", KindTimeSeries},
	SlotHealEmitSeconds:       {"chart_heal_emit_seconds", "Heal done / absorbed per second", KindTimeSeries},
	SlotDamageReceivedByKind:  {"chart_received_by_kind", "Damage received by kind", KindCategorical},
	SlotDamageEmitByKind:      {"chart_emit_by_kind", "Damage done by kind", KindCategorical},
	SlotDamageReceivedByEnemy: {"chart_received_by_enemy", "Damage received by enemy", KindCategorical},
	SlotDamageEmitByEnemy:     {"chart_emit_by_enemy", "Damage done by enemy", KindCategorical},
	SlotHealReceivedByAlly:    {"chart_heal_received_by_ally", "Heal received by ally", KindCategorical},
	SlotHealEmitByAlly:        {"chart_heal_emit_by_ally", "Heal done by ally", KindCategorical},
}

// AllSlots returns every slot in dashboard order.
func AllSlots() []SlotID {
	out := make([]SlotID, 0, slotCount)
	for s := SlotID(0); s < slotCount; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is a known slot.
func (s SlotID) Valid() bool {
	return s >= 0 && s < slotCount
}

// Anchor returns the bare anchor id the slot renders into.
func (s SlotID) Anchor() string {
	if !s.Valid() {
		return ""
	}
	return slotTable[s].anchor
}

// Title returns the heading shown above the slot.
func (s SlotID) Title() string {
	if !s.Valid() {
		return ""
	}
	return slotTable[s].title
}

// Kind returns the chart kind for the slot.
func (s SlotID) Kind() Kind {
	if !s.Valid() {
		return KindCategorical
	}
	return slotTable[s].kind
}

func (s SlotID) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SlotID(%d)", int(s))
	}
	return slotTable[s].anchor
}
