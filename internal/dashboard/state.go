// Package dashboard selects fights and drives chart rendering for a loaded log.
package dashboard

import "github.com/verte-zerg/fightlog/internal/model"

// NoSelection marks State.Current when no fight is selected.
const NoSelection = -1

// State is the dashboard data shared by the selector and the controller.
type State struct {
	Fights     []model.Fight
	Current    int
	Generation uint64

	// Aggregate holds the whole-log stats when the log was parsed without segmentation.
	Aggregate *model.Stats
}

// NewState returns an empty state with nothing selected.
func NewState() *State {
	return &State{Current: NoSelection}
}

// Reset drops the loaded fights and the selection. Generation is kept.
func (s *State) Reset() {
	s.Fights = nil
	s.Current = NoSelection
	s.Aggregate = nil
}

// HasSelection reports whether Current points at a loaded fight.
func (s *State) HasSelection() bool {
	return len(s.Fights) > 0 && s.Current >= 0 && s.Current < len(s.Fights)
}
