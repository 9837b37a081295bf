// Package parser turns combat log text into per-fight statistics.
package parser

import (
	"regexp"
	"strconv"
	"time"
)

const (
	selfEmitter  = "Your"
	selfReceiver = "You"
)

var (
	envelopePattern = regexp.MustCompile(`([-0-9T:.]+Z).*Event=\[(.*)\]`)

	damagePattern = regexp.MustCompile(`^([^ ]+) (.+?) hit (.+) for ([0-9]+) ?(?:\(([0-9]+) absorbed\))? ?(?:([^(]+) damage)? ?(\(Critical\))?\.$`)
	healPattern   = regexp.MustCompile(`^([^ ]+) (.+?) healed (.+) for ([0-9]+)(?: \(([0-9]+) absorbed\))?(?: hit points)?( \(Critical\))?\.$`)

	foodPattern     = regexp.MustCompile(`^Your meal restored You for ([0-9]+) food\.$`)
	resourcePattern = regexp.MustCompile(`^(.+) (restored|drained) You for ([0-9]+) (.+)\.$`)
)

// EventKind classifies a recognised log body.
type EventKind int

// Event kinds.
const (
	EventIgnored EventKind = iota
	EventDamage
	EventHeal
)

// Event is one damage or heal line.
type Event struct {
	Kind     EventKind
	At       time.Time
	Emitter  string
	Spell    string
	Target   string
	Amount   int64
	Absorbed int64
	Type     string
	Critical bool
}

// FromSelf reports whether the player caused the event.
func (e Event) FromSelf() bool {
	return e.Emitter == selfEmitter
}

// ToSelf reports whether the player received the event.
func (e Event) ToSelf() bool {
	return e.Target == selfReceiver
}

type lineResult int

const (
	lineSkipped lineResult = iota
	lineEvent
	lineInvalid
)

// parseLine reads one raw log line.
// Lines without an event envelope are skipped; an envelope that cannot be read is invalid.
func parseLine(line string) (Event, lineResult) {
	m := envelopePattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, lineSkipped
	}
	at, err := time.Parse(time.RFC3339Nano, m[1])
	if err != nil {
		return Event{}, lineInvalid
	}
	ev, ok := parseBody(m[2])
	if !ok {
		return Event{}, lineInvalid
	}
	ev.At = at
	return ev, lineEvent
}

func parseBody(body string) (Event, bool) {
	if foodPattern.MatchString(body) || resourcePattern.MatchString(body) {
		return Event{Kind: EventIgnored}, true
	}
	if m := damagePattern.FindStringSubmatch(body); m != nil {
		amount, err := strconv.ParseInt(m[4], 10, 64)
		if err != nil {
			return Event{}, false
		}
		absorbed, ok := optionalInt(m[5])
		if !ok {
			return Event{}, false
		}
		return Event{
			Kind:     EventDamage,
			Emitter:  m[1],
			Spell:    m[2],
			Target:   m[3],
			Amount:   amount,
			Absorbed: absorbed,
			Type:     m[6],
			Critical: m[7] != "",
		}, true
	}
	if m := healPattern.FindStringSubmatch(body); m != nil {
		amount, err := strconv.ParseInt(m[4], 10, 64)
		if err != nil {
			return Event{}, false
		}
		absorbed, ok := optionalInt(m[5])
		if !ok {
			return Event{}, false
		}
		return Event{
			Kind:     EventHeal,
			Emitter:  m[1],
			Spell:    m[2],
			Target:   m[3],
			Amount:   amount,
			Absorbed: absorbed,
			Critical: m[6] != "",
		}, true
	}
	return Event{}, false
}

func optionalInt(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
