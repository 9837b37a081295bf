// Package model defines shared data structures.
package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Amounts maps a category (kind, enemy or ally) to a total amount.
// Iteration follows first-insertion order; a nil *Amounts behaves as empty.
type Amounts struct {
	m *orderedmap.OrderedMap[string, int64]
}

// NewAmounts returns an empty mapping.
func NewAmounts() *Amounts {
	return &Amounts{m: orderedmap.New[string, int64]()}
}

// AmountsOf builds a mapping from pairs, keeping their order.
func AmountsOf(pairs ...Amount) *Amounts {
	a := NewAmounts()
	for _, p := range pairs {
		a.Set(p.Key, p.Value)
	}
	return a
}

// Amount is a single key/value entry of Amounts.
type Amount struct {
	Key   string
	Value int64
}

// Add increments key by v, inserting it at the end when new.
func (a *Amounts) Add(key string, v int64) {
	a.init()
	cur, _ := a.m.Get(key)
	a.m.Set(key, cur+v)
}

// Set overwrites the value for key, keeping its original position when present.
func (a *Amounts) Set(key string, v int64) {
	a.init()
	a.m.Set(key, v)
}

// Get returns the value stored for key.
func (a *Amounts) Get(key string) (int64, bool) {
	if a == nil || a.m == nil {
		return 0, false
	}
	return a.m.Get(key)
}

// Len returns the number of categories.
func (a *Amounts) Len() int {
	if a == nil || a.m == nil {
		return 0
	}
	return a.m.Len()
}

// Entries returns the pairs in insertion order.
func (a *Amounts) Entries() []Amount {
	if a.Len() == 0 {
		return nil
	}
	out := make([]Amount, 0, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Amount{Key: pair.Key, Value: pair.Value})
	}
	return out
}

// Total sums every value.
func (a *Amounts) Total() int64 {
	var sum int64
	for _, e := range a.Entries() {
		sum += e.Value
	}
	return sum
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (a *Amounts) MarshalJSON() ([]byte, error) {
	if a == nil || a.m == nil {
		return []byte("{}"), nil
	}
	return a.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (a *Amounts) UnmarshalJSON(data []byte) error {
	a.m = orderedmap.New[string, int64]()
	return a.m.UnmarshalJSON(data)
}

func (a *Amounts) init() {
	if a.m == nil {
		a.m = orderedmap.New[string, int64]()
	}
}
