package monitor

import (
	"sort"
	"testing"

	"go.uber.org/zap"
)

func TestForcedHealthySignals(t *testing.T) {
	m := NewForcedHealthyManager(nil, zap.NewNop(), nil)

	m.processSignal("chitra:on")
	if !m.IsForced("chitra") {
		t.Fatal("chitra must be forced after on-signal")
	}
	// Регистр не важен и в сигнале, и в проверке
	if !m.IsForced("CHITRA") {
		t.Fatal("lookup must be case-insensitive")
	}

	m.processSignal("Ravi:on")
	if !m.IsForced("ravi") {
		t.Fatal("signal names must be lowercased")
	}

	m.processSignal("chitra:off")
	if m.IsForced("chitra") {
		t.Fatal("chitra must be dropped after off-signal")
	}

	// Мусорные сигналы игнорируются молча
	m.processSignal("no-separator")
	m.processSignal(":on")
	m.processSignal("ravi:maybe")
	if !m.IsForced("ravi") {
		t.Fatal("malformed signals must not mutate state")
	}
}

func TestForcedHealthyList(t *testing.T) {
	m := NewForcedHealthyManager(nil, zap.NewNop(), nil)
	m.Mark("Chitra")
	m.Mark("ravi")

	got := m.List()
	sort.Strings(got)
	want := []string{"chitra", "ravi"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
}
