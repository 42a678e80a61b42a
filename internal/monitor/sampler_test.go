package monitor

import (
	"math/rand/v2"
	"testing"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

type staticForced map[string]bool

func (f staticForced) IsForced(name string) bool { return f[name] }

func fixedSampler(forced ForcedHealthyProvider, bias float64) *Sampler {
	// Детерминированный PCG, чтобы прогоны были воспроизводимыми
	return NewSampler(forced, bias, rand.New(rand.NewPCG(42, 0)))
}

func f64(v float64) *float64 { return &v }

func TestSampleOverrideVerbatim(t *testing.T) {
	s := fixedSampler(nil, 0.7)
	order := makeOrder(99.0, 500)

	up, lat := s.Sample(order, &domain.SampleOverride{UptimePct: f64(42.5), LatencyMs: f64(1234)})
	if up != 42.5 || lat != 1234 {
		t.Fatalf("override must pass through verbatim, got (%v, %v)", up, lat)
	}
}

func TestSampleOverridePartialDefaults(t *testing.T) {
	s := fixedSampler(nil, 0.7)
	order := makeOrder(99.0, 500)

	tests := []struct {
		name     string
		override *domain.SampleOverride
		wantUp   float64
		wantLat  float64
	}{
		{"only uptime", &domain.SampleOverride{UptimePct: f64(97)}, 97, 200},
		{"only latency", &domain.SampleOverride{LatencyMs: f64(777)}, 99, 777},
		{"empty override", &domain.SampleOverride{}, 99, 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up, lat := s.Sample(order, tc.override)
			if up != tc.wantUp || lat != tc.wantLat {
				t.Fatalf("got (%v, %v), want (%v, %v)", up, lat, tc.wantUp, tc.wantLat)
			}
		})
	}
}

func TestSampleForcedHealthy(t *testing.T) {
	s := fixedSampler(staticForced{"chitra": true}, 0.7)
	order := makeOrder(99.99, 50) // Настолько жесткий SLA, что рандом почти всегда нарушает
	order.UserName = "chitra"

	for i := 0; i < 100; i++ {
		up, lat := s.Sample(order, nil)
		if up != 99.9 || lat != 200 {
			t.Fatalf("forced name must always get (99.9, 200), got (%v, %v) on draw %d", up, lat, i)
		}
	}
}

func TestSampleOverrideBeatsForced(t *testing.T) {
	// Явный оверрайд сильнее списка принудительно здоровых
	s := fixedSampler(staticForced{"chitra": true}, 0.7)
	order := makeOrder(99.0, 500)
	order.UserName = "chitra"

	up, lat := s.Sample(order, &domain.SampleOverride{UptimePct: f64(10), LatencyMs: f64(9000)})
	if up != 10 || lat != 9000 {
		t.Fatalf("override must win over forced list, got (%v, %v)", up, lat)
	}
}

func TestSampleRangesRespectBias(t *testing.T) {
	s := fixedSampler(nil, 0.7)
	order := makeOrder(99.0, 500)

	healthy, breaching := 0, 0
	for i := 0; i < 2000; i++ {
		up, lat := s.Sample(order, nil)

		// Допуск 0.01 на округление до двух знаков
		switch {
		case up >= order.SLAUptimePct && lat <= order.SLALatencyMs:
			healthy++
			if up < order.SLAUptimePct+0.2-0.01 || up > 100 {
				t.Fatalf("healthy uptime out of range: %v", up)
			}
			if lat < 100-0.01 || lat > order.SLALatencyMs*0.9+0.01 {
				t.Fatalf("healthy latency out of range: %v", lat)
			}
		default:
			breaching++
			if up < order.SLAUptimePct-8-0.01 || up > order.SLAUptimePct-1+0.01 {
				t.Fatalf("breaching uptime out of range: %v", up)
			}
			if lat < order.SLALatencyMs*1.3-0.01 || lat > order.SLALatencyMs*2.0+0.01 {
				t.Fatalf("breaching latency out of range: %v", lat)
			}
		}
	}

	// При bias 0.7 на 2000 прогонов доля здоровых не может уехать далеко
	ratio := float64(healthy) / 2000
	if ratio < 0.6 || ratio > 0.8 {
		t.Fatalf("healthy ratio %v too far from bias 0.7 (healthy=%d, breaching=%d)", ratio, healthy, breaching)
	}
}

func TestSampleLowLatencyThresholdCollapses(t *testing.T) {
	// Порог задержки ниже ~111мс схлопывает здоровый диапазон в точку 100
	s := fixedSampler(nil, 1.0) // Всегда здоровая ветка
	order := makeOrder(99.0, 80)

	for i := 0; i < 50; i++ {
		_, lat := s.Sample(order, nil)
		if lat != 100 {
			t.Fatalf("collapsed latency range must yield 100, got %v", lat)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{99.999, 100},
		{99.994, 99.99},
		{0.005, 0.01},
		{200, 200},
	}
	for _, tc := range tests {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
