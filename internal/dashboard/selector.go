// Package dashboard selects fights and drives chart rendering for a loaded log.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/fightlog/internal/model"
)

// LabelTimeLayout formats fight bounds in labels.
const LabelTimeLayout = "2006-01-02 15:04:05"

// Selector holds the loaded fights and the selected index.
type Selector struct {
	state  *State
	loc    *time.Location
	labels []string
}

// NewSelector returns a selector over state labelling times in loc (local time when nil).
func NewSelector(state *State, loc *time.Location) *Selector {
	if loc == nil {
		loc = time.Local
	}
	return &Selector{state: state, loc: loc}
}

// Load replaces the fights, clears the selection and returns one label per fight.
func (s *Selector) Load(fights []model.Fight) []string {
	s.state.Reset()
	s.state.Fights = fights
	s.labels = make([]string, len(fights))
	for i, f := range fights {
		s.labels[i] = Label(f, s.loc)
	}
	return s.Labels()
}

// Select makes fights[index] current. On failure the selection is unchanged.
func (s *Selector) Select(index int) (model.Fight, error) {
	if index < 0 || index >= len(s.state.Fights) {
		return model.Fight{}, fmt.Errorf("failed to select fight %d of %d: %w", index, len(s.state.Fights), ErrIndexOutOfRange)
	}
	s.state.Current = index
	return s.state.Fights[index], nil
}

// Current returns the selected fight.
func (s *Selector) Current() (model.Fight, bool) {
	if !s.state.HasSelection() {
		return model.Fight{}, false
	}
	return s.state.Fights[s.state.Current], true
}

// Index returns the selected index, or NoSelection.
func (s *Selector) Index() int {
	if !s.state.HasSelection() {
		return NoSelection
	}
	return s.state.Current
}

// Labels returns a copy of the fight labels in load order.
func (s *Selector) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Fights returns the loaded fights.
func (s *Selector) Fights() []model.Fight {
	return s.state.Fights
}

// Len returns the number of loaded fights.
func (s *Selector) Len() int {
	return len(s.state.Fights)
}

// Label describes a fight as "<start>..<end> <opponents>".
func Label(f model.Fight, loc *time.Location) string {
	start := time.Unix(f.Time.Start, 0).In(loc).Format(LabelTimeLayout)
	end := time.Unix(f.Time.End, 0).In(loc).Format(LabelTimeLayout)
	label := start + ".." + end
	if len(f.Opponent) == 0 {
		return label
	}
	return label + " " + strings.Join(f.Opponent, ", ")
}
