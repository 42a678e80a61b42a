package monitor

import (
	"testing"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

func makeOrder(uptime, latency float64) *domain.Order {
	return &domain.Order{
		ID:           "ord-1",
		UserName:     "ravi",
		ServiceType:  "hosting",
		SLAUptimePct: uptime,
		SLALatencyMs: latency,
		Status:       domain.StatusPending,
	}
}

func samples(pairs ...[2]float64) []domain.MetricSample {
	out := make([]domain.MetricSample, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, domain.MetricSample{UptimePct: p[0], LatencyMs: p[1]})
	}
	return out
}

func TestEvaluateEmptyWindow(t *testing.T) {
	status, reason := Evaluate(makeOrder(99.0, 500), nil)
	if status != domain.StatusPending {
		t.Fatalf("expected PENDING for empty window, got %s", status)
	}
	if reason != "" {
		t.Fatalf("expected empty reason, got %q", reason)
	}
}

func TestEvaluateAllHealthy(t *testing.T) {
	order := makeOrder(99.0, 500)
	recent := samples([2]float64{99.5, 120}, [2]float64{99.9, 200}, [2]float64{100, 80})

	status, reason := Evaluate(order, recent)
	if status != domain.StatusOK {
		t.Fatalf("expected OK, got %s", status)
	}
	if reason != "" {
		t.Fatalf("expected empty reason, got %q", reason)
	}
}

func TestEvaluateBoundaryIsCompliant(t *testing.T) {
	// Ровно на пороге — не нарушение, сравнения строгие
	order := makeOrder(99.0, 500)
	recent := samples([2]float64{99.0, 500})

	status, _ := Evaluate(order, recent)
	if status != domain.StatusOK {
		t.Fatalf("expected OK at exact thresholds, got %s", status)
	}
}

func TestEvaluateBreachReasons(t *testing.T) {
	order := makeOrder(99.0, 500)

	tests := []struct {
		name   string
		recent []domain.MetricSample
		want   string
	}{
		{
			name:   "uptime only",
			recent: samples([2]float64{95, 120}),
			want:   "uptime 95.0% < 99.0%",
		},
		{
			name:   "latency only",
			recent: samples([2]float64{99.5, 600}),
			want:   "latency 600.0ms > 500.0ms",
		},
		{
			name:   "both metrics in one sample",
			recent: samples([2]float64{95, 600}),
			want:   "uptime 95.0% < 99.0%; latency 600.0ms > 500.0ms",
		},
		{
			name:   "fractional values survive formatting",
			recent: samples([2]float64{95.25, 120}),
			want:   "uptime 95.25% < 99.0%",
		},
		{
			name: "newest violation first",
			recent: samples(
				[2]float64{94, 120},
				[2]float64{99.5, 700},
			),
			want: "uptime 94.0% < 99.0%; latency 700.0ms > 500.0ms",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, reason := Evaluate(order, tc.recent)
			if status != domain.StatusBreached {
				t.Fatalf("expected BREACHED, got %s", status)
			}
			if reason != tc.want {
				t.Fatalf("reason mismatch:\n got: %q\nwant: %q", reason, tc.want)
			}
		})
	}
}

func TestEvaluateSingleStaleViolationKeepsBreach(t *testing.T) {
	// Одно старое нарушение в окне держит заказ в BREACHED
	order := makeOrder(99.0, 500)
	recent := samples(
		[2]float64{99.9, 100},
		[2]float64{99.8, 110},
		[2]float64{95, 600},
	)

	status, _ := Evaluate(order, recent)
	if status != domain.StatusBreached {
		t.Fatalf("expected BREACHED while violation stays in window, got %s", status)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	order := makeOrder(99.0, 500)
	recent := samples([2]float64{95, 600})

	s1, r1 := Evaluate(order, recent)
	s2, r2 := Evaluate(order, recent)
	if s1 != s2 || r1 != r2 {
		t.Fatalf("same input produced different verdicts: (%s, %q) vs (%s, %q)", s1, r1, s2, r2)
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{95, "95.0"},
		{95.0, "95.0"},
		{95.25, "95.25"},
		{600, "600.0"},
		{99.9, "99.9"},
		{0, "0.0"},
	}
	for _, tc := range tests {
		if got := formatMetric(tc.in); got != tc.want {
			t.Errorf("formatMetric(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
