// Package model defines shared data structures.
package model

// Config defines parse and render settings after flags and config file are merged.
type Config struct {
	Window      int64
	MinDuration int64
	Width       int
	Height      int
	Color       bool
	Aggregate   bool
}

// ParseResult is the output of the two-threshold parser.
type ParseResult struct {
	Errors []string `json:"errors"`
	Fights []Fight  `json:"fights"`
}

// AggregateResult is the output of the single-threshold parser: one Stats for the whole log.
type AggregateResult struct {
	Errors   []string `json:"errors"`
	DPSStats Stats    `json:"dps_stats"`
}

// TimeRange bounds a fight in epoch seconds, both ends inclusive.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns the fight length in seconds.
func (r TimeRange) Duration() int64 {
	return r.End - r.Start
}

// Fight is one contiguous interval of combat activity.
type Fight struct {
	Time      TimeRange `json:"time"`
	Opponent  []string  `json:"opponent"`
	DPSStats  Stats     `json:"dps_stats"`
	HealStats Stats     `json:"heal_stats"`
}

// Stats holds received and emitted breakdowns for damage or healing.
type Stats struct {
	ReceivedByKind  *Amounts `json:"received_by_kind"`
	EmitByKind      *Amounts `json:"emit_by_kind"`
	ReceivedByEnemy *Amounts `json:"received_by_enemy"`
	EmitByEnemy     *Amounts `json:"emit_by_enemy"`
	ReceivedByAlly  *Amounts `json:"received_by_ally,omitempty"`
	EmitByAlly      *Amounts `json:"emit_by_ally,omitempty"`

	ReceivedBySeconds         []Sample `json:"received_by_seconds"`
	ReceivedBySecondsAbsorbed []Sample `json:"received_by_seconds_absorbed"`
	EmitBySeconds             []Sample `json:"emit_by_seconds"`
	EmitBySecondsAbsorbed     []Sample `json:"emit_by_seconds_absorbed"`
}

// NewStats returns Stats with every mapping allocated.
func NewStats() Stats {
	return Stats{
		ReceivedByKind:  NewAmounts(),
		EmitByKind:      NewAmounts(),
		ReceivedByEnemy: NewAmounts(),
		EmitByEnemy:     NewAmounts(),
		ReceivedByAlly:  NewAmounts(),
		EmitByAlly:      NewAmounts(),
	}
}

// Sample is the amount accumulated during one second, offset from the fight start.
type Sample struct {
	Second int64 `json:"second"`
	Amount int64 `json:"amount"`
}

// NewSamples returns n zeroed samples with consecutive offsets.
func NewSamples(n int64) []Sample {
	if n <= 0 {
		return nil
	}
	out := make([]Sample, n)
	for i := range out {
		out[i].Second = int64(i)
	}
	return out
}
