// Package parser turns combat log text into per-fight statistics.
package parser

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/fightlog/internal/model"
)

// Engine is what Parser and Replay both provide.
type Engine interface {
	Parse(text string, window, minDuration int64) model.ParseResult
	ParseAggregate(text string, window int64) model.AggregateResult
}

// ForFile returns Replay for .json dumps and a log parser for anything else.
func ForFile(name string, logger *slog.Logger) Engine {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return Replay{}
	}
	return New(logger)
}

// Parser reads combat log text.
type Parser struct {
	log *slog.Logger
}

// New returns a parser logging to logger, or to the default logger when nil.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{log: logger.With(slog.String("module", "parser"))}
}

// Parse splits the log into fights and computes damage and heal stats for each.
// Damage events involving the player drive segmentation: a gap longer than window
// seconds starts a new fight and fights shorter than minDuration seconds are dropped.
func (p *Parser) Parse(text string, window, minDuration int64) model.ParseResult {
	events, errs := p.scan(text)

	var times []time.Time
	for _, ev := range events {
		if ev.Kind == EventDamage && (ev.FromSelf() || ev.ToSelf()) {
			times = append(times, ev.At)
		}
	}
	ranges := dropShort(splitFights(times, window), minDuration)

	fights := make([]model.Fight, len(ranges))
	seen := make([]map[string]bool, len(ranges))
	for i, r := range ranges {
		n := r.Duration() + 1
		fights[i] = model.Fight{
			Time:      r,
			Opponent:  []string{},
			DPSStats:  newDamageStats(n),
			HealStats: newHealStats(n),
		}
		seen[i] = map[string]bool{}
	}

	for _, ev := range events {
		at := ev.At.Unix()
		i := fightIndex(ranges, at)
		if i < 0 {
			continue
		}
		f := &fights[i]
		offset := at - f.Time.Start
		switch ev.Kind {
		case EventDamage:
			enemy, ok := addDamage(&f.DPSStats, ev, offset)
			if ok && !seen[i][enemy] {
				seen[i][enemy] = true
				f.Opponent = append(f.Opponent, enemy)
			}
		case EventHeal:
			addHeal(&f.HealStats, ev, offset)
		}
	}

	p.log.Debug("parsed log",
		slog.Int("events", len(events)),
		slog.Int("errors", len(errs)),
		slog.Int("fights", len(fights)),
	)
	return model.ParseResult{Errors: errs, Fights: fights}
}

// ParseAggregate computes damage stats over the whole log without segmentation.
// The per-second series are bucketed into window-second steps.
func (p *Parser) ParseAggregate(text string, window int64) model.AggregateResult {
	events, errs := p.scan(text)
	if window < 1 {
		window = 1
	}

	var damage []Event
	for _, ev := range events {
		if ev.Kind == EventDamage && (ev.FromSelf() || ev.ToSelf()) {
			damage = append(damage, ev)
		}
	}
	if len(damage) == 0 {
		return model.AggregateResult{Errors: errs, DPSStats: newDamageStats(0)}
	}

	first, last := damage[0].At.Unix(), damage[0].At.Unix()
	for _, ev := range damage[1:] {
		at := ev.At.Unix()
		if at < first {
			first = at
		}
		if at > last {
			last = at
		}
	}
	stats := newDamageStats((last-first)/window + 1)
	for _, ev := range damage {
		addDamage(&stats, ev, (ev.At.Unix()-first)/window)
	}
	for _, samples := range [][]model.Sample{
		stats.ReceivedBySeconds, stats.ReceivedBySecondsAbsorbed,
		stats.EmitBySeconds, stats.EmitBySecondsAbsorbed,
	} {
		for i := range samples {
			samples[i].Second = int64(i) * window
		}
	}

	p.log.Debug("parsed log aggregate",
		slog.Int("events", len(events)),
		slog.Int("errors", len(errs)),
	)
	return model.AggregateResult{Errors: errs, DPSStats: stats}
}

func (p *Parser) scan(text string) ([]Event, []string) {
	var events []Event
	errs := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		ev, res := parseLine(line)
		switch res {
		case lineInvalid:
			errs = append(errs, line)
		case lineEvent:
			if ev.Kind != EventIgnored {
				events = append(events, ev)
			}
		}
	}
	return events, errs
}

func newDamageStats(n int64) model.Stats {
	s := model.NewStats()
	s.ReceivedByAlly = nil
	s.EmitByAlly = nil
	fillSamples(&s, n)
	return s
}

func newHealStats(n int64) model.Stats {
	s := model.NewStats()
	fillSamples(&s, n)
	return s
}

func fillSamples(s *model.Stats, n int64) {
	s.ReceivedBySeconds = model.NewSamples(n)
	s.ReceivedBySecondsAbsorbed = model.NewSamples(n)
	s.EmitBySeconds = model.NewSamples(n)
	s.EmitBySecondsAbsorbed = model.NewSamples(n)
}

// addDamage records a damage event and returns the enemy involved.
func addDamage(s *model.Stats, ev Event, offset int64) (string, bool) {
	switch {
	case ev.FromSelf():
		s.EmitByKind.Add(ev.Type, ev.Amount)
		s.EmitByEnemy.Add(ev.Target, ev.Amount)
		addSample(s.EmitBySeconds, offset, ev.Amount)
		addSample(s.EmitBySecondsAbsorbed, offset, ev.Absorbed)
		return ev.Target, ev.Target != selfReceiver
	case ev.ToSelf():
		s.ReceivedByKind.Add(ev.Type, ev.Amount)
		s.ReceivedByEnemy.Add(ev.Emitter, ev.Amount)
		addSample(s.ReceivedBySeconds, offset, ev.Amount)
		addSample(s.ReceivedBySecondsAbsorbed, offset, ev.Absorbed)
		return ev.Emitter, true
	}
	return "", false
}

// addHeal records a heal event; the player shows up as "You" among allies.
func addHeal(s *model.Stats, ev Event, offset int64) {
	if ev.FromSelf() {
		s.EmitByKind.Add(ev.Spell, ev.Amount)
		s.EmitByAlly.Add(ev.Target, ev.Amount)
		addSample(s.EmitBySeconds, offset, ev.Amount)
		addSample(s.EmitBySecondsAbsorbed, offset, ev.Absorbed)
	}
	if ev.ToSelf() {
		healer := ev.Emitter
		if ev.FromSelf() {
			healer = selfReceiver
		}
		s.ReceivedByKind.Add(ev.Spell, ev.Amount)
		s.ReceivedByAlly.Add(healer, ev.Amount)
		addSample(s.ReceivedBySeconds, offset, ev.Amount)
		addSample(s.ReceivedBySecondsAbsorbed, offset, ev.Absorbed)
	}
}

func addSample(samples []model.Sample, offset, amount int64) {
	if offset < 0 || offset >= int64(len(samples)) {
		return
	}
	samples[offset].Amount += amount
}

// Replay serves results previously dumped as JSON instead of parsing log text.
// Thresholds are ignored: the dump already carries its segmentation.
type Replay struct{}

// Check reports whether text is a readable dump.
func (Replay) Check(text string) error {
	if _, err := DecodeResult(strings.NewReader(text)); err != nil {
		return err
	}
	return nil
}

// Parse decodes a dumped ParseResult. A malformed dump yields no fights; Check reports why.
func (Replay) Parse(text string, _, _ int64) model.ParseResult {
	res, err := DecodeResult(strings.NewReader(text))
	if err != nil {
		return model.ParseResult{Errors: []string{}, Fights: []model.Fight{}}
	}
	return res
}

// ParseAggregate decodes a dumped AggregateResult. A malformed dump yields empty stats.
func (Replay) ParseAggregate(text string, _ int64) model.AggregateResult {
	var res model.AggregateResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return model.AggregateResult{Errors: []string{}, DPSStats: newDamageStats(0)}
	}
	return res
}
