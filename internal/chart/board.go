// Package chart manages chart instances bound to named board anchors.
package chart

import "strings"

// Pane is a board anchor holding the output of one chart.
type Pane struct {
	id      string
	slot    SlotID
	content string
	mounts  int
}

// ID implements Anchor.
func (p *Pane) ID() string {
	return p.id
}

// Slot returns the slot the pane was created for.
func (p *Pane) Slot() SlotID {
	return p.slot
}

// Mount implements Anchor.
func (p *Pane) Mount(content string) {
	p.content = content
	p.mounts++
}

// Unmount implements Anchor.
func (p *Pane) Unmount() {
	p.content = ""
	if p.mounts > 0 {
		p.mounts--
	}
}

// Content returns the rendered chart, empty when nothing is mounted.
func (p *Pane) Content() string {
	return p.content
}

// Mounted returns how many charts are currently mounted on the pane.
func (p *Pane) Mounted() int {
	return p.mounts
}

// Board is an ordered set of panes, one per slot anchor.
type Board struct {
	panes []*Pane
	byID  map[string]*Pane
}

// NewBoard creates a pane for each slot; with no slots it creates all of them.
func NewBoard(slots ...SlotID) *Board {
	if len(slots) == 0 {
		slots = AllSlots()
	}
	b := &Board{byID: make(map[string]*Pane, len(slots))}
	for _, s := range slots {
		p := &Pane{id: s.Anchor(), slot: s}
		b.panes = append(b.panes, p)
		b.byID[p.id] = p
	}
	return b
}

// Anchor implements Surface.
func (b *Board) Anchor(id string) (Anchor, bool) {
	p, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// Panes returns the panes in board order.
func (b *Board) Panes() []*Pane {
	return b.panes
}

// View stacks the content of every mounted pane.
func (b *Board) View() string {
	parts := make([]string, 0, len(b.panes))
	for _, p := range b.panes {
		if p.content == "" {
			continue
		}
		parts = append(parts, p.content)
	}
	return strings.Join(parts, "\n\n")
}
