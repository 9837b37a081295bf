package model

import (
	"encoding/json"
	"testing"
)

func TestAmountsKeepInsertionOrder(t *testing.T) {
	a := NewAmounts()
	a.Add("Ice", 10)
	a.Add("Nature", 5)
	a.Add("Ice", 3)
	a.Add("Fire", 7)

	entries := a.Entries()
	want := []Amount{{"Ice", 13}, {"Nature", 5}, {"Fire", 7}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range want {
		if entries[i] != e {
			t.Fatalf("entry %d: expected %+v, got %+v", i, e, entries[i])
		}
	}
	if a.Total() != 25 {
		t.Fatalf("expected total 25, got %d", a.Total())
	}
}

func TestNilAmountsIsEmpty(t *testing.T) {
	var a *Amounts
	if a.Len() != 0 {
		t.Fatalf("expected nil amounts to be empty")
	}
	if a.Entries() != nil {
		t.Fatalf("expected no entries")
	}
	if _, ok := a.Get("x"); ok {
		t.Fatalf("expected missing key")
	}
}

func TestAmountsJSONPreservesOrder(t *testing.T) {
	in := []byte(`{"Zeta":4,"Alpha":4,"Mid":9}`)
	var a Amounts
	if err := json.Unmarshal(in, &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries := a.Entries()
	if len(entries) != 3 || entries[0].Key != "Zeta" || entries[1].Key != "Alpha" || entries[2].Key != "Mid" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	out, err := json.Marshal(&a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != string(in) {
		t.Fatalf("expected %s, got %s", in, out)
	}
}

func TestNewSamplesOffsets(t *testing.T) {
	samples := NewSamples(3)
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s.Second != int64(i) || s.Amount != 0 {
			t.Fatalf("unexpected sample %d: %+v", i, s)
		}
	}
	if NewSamples(0) != nil {
		t.Fatalf("expected nil for zero length")
	}
}
