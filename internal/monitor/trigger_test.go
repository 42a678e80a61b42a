package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
	"go.uber.org/zap"
)

type fakeEnumerator struct {
	orders []*domain.Order
	err    error
}

func (f *fakeEnumerator) ListOrders(context.Context) ([]*domain.Order, error) {
	return f.orders, f.err
}

type fakeRecorder struct {
	mu     sync.Mutex
	seen   []string
	failOn string
}

func (f *fakeRecorder) RecordSample(_ context.Context, o *domain.Order, _ *domain.SampleOverride) (*domain.MetricSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, o.ID)
	if o.ID == f.failOn {
		return nil, errors.New("boom")
	}
	return &domain.MetricSample{OrderID: o.ID}, nil
}

func (f *fakeRecorder) seenIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.seen))
	copy(out, f.seen)
	return out
}

func TestTriggerCycleSurvivesPerOrderFailure(t *testing.T) {
	orders := []*domain.Order{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	enum := &fakeEnumerator{orders: orders}
	rec := &fakeRecorder{failOn: "b"}

	loop := NewTriggerLoop(time.Hour, enum, rec, nil, zap.NewNop())
	loop.runCycle(context.Background())

	seen := rec.seenIDs()
	if len(seen) != 3 {
		t.Fatalf("cycle must visit all orders despite failure, visited %v", seen)
	}
	for i, want := range []string{"a", "b", "c"} {
		if seen[i] != want {
			t.Fatalf("visit order mismatch: got %v", seen)
		}
	}
}

func TestTriggerCycleSkipsOnEnumerationFailure(t *testing.T) {
	enum := &fakeEnumerator{err: errors.New("db down")}
	rec := &fakeRecorder{}

	loop := NewTriggerLoop(time.Hour, enum, rec, nil, zap.NewNop())
	loop.runCycle(context.Background())

	if len(rec.seenIDs()) != 0 {
		t.Fatal("no orders must be evaluated when enumeration fails")
	}
}

func TestTriggerStartStop(t *testing.T) {
	enum := &fakeEnumerator{orders: []*domain.Order{{ID: "a"}}}
	rec := &fakeRecorder{}

	loop := NewTriggerLoop(5*time.Millisecond, enum, rec, nil, zap.NewNop())
	loop.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for len(rec.seenIDs()) == 0 {
		select {
		case <-deadline:
			t.Fatal("trigger loop never ran a cycle")
		case <-time.After(5 * time.Millisecond):
		}
	}

	loop.Stop()
	loop.Stop() // Повторный Stop безопасен
}

func TestTriggerStopsOnContextCancel(t *testing.T) {
	enum := &fakeEnumerator{}
	rec := &fakeRecorder{}

	ctx, cancel := context.WithCancel(context.Background())
	loop := NewTriggerLoop(time.Millisecond, enum, rec, nil, zap.NewNop())
	loop.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		loop.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger goroutine did not exit on context cancel")
	}
}
