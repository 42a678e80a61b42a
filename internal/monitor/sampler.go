package monitor

import (
	"math"
	"math/rand/v2" // Используем v2 для Go 1.25
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

// Дефолты детерминированной подмены, если передали только одно из полей
const (
	overrideDefaultUptime  = 99.0
	overrideDefaultLatency = 200.0
)

// ForcedHealthyProvider отвечает, входит ли имя владельца в список
// принудительно здоровых (демо-оверрайд, вынесенный из бизнес-логики).
type ForcedHealthyProvider interface {
	IsForced(userName string) bool
}

// Sampler синтезирует замеры (uptime_pct, latency_ms) для заказа.
// Без оверрайда распределение смещено в пользу соблюдения SLA:
// с вероятностью healthyBias замер попадает в "здоровый" диапазон.
type Sampler struct {
	forced      ForcedHealthyProvider
	healthyBias float64
	rnd         *rand.Rand
}

func NewSampler(forced ForcedHealthyProvider, healthyBias float64, rnd *rand.Rand) *Sampler {
	if healthyBias <= 0 || healthyBias > 1 {
		healthyBias = 0.7
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Sampler{forced: forced, healthyBias: healthyBias, rnd: rnd}
}

// Sample — чистая функция входа и источника случайности, без сайд-эффектов.
// Оверрайд полностью отключает рандомизацию.
func (s *Sampler) Sample(order *domain.Order, override *domain.SampleOverride) (uptimePct, latencyMs float64) {
	if override != nil {
		up, lat := overrideDefaultUptime, overrideDefaultLatency
		if override.UptimePct != nil {
			up = *override.UptimePct
		}
		if override.LatencyMs != nil {
			lat = *override.LatencyMs
		}
		return round2(up), round2(lat)
	}

	// Принудительно здоровый замер для имен из списка оверрайдов
	if s.forced != nil && s.forced.IsForced(order.UserName) {
		return 99.9, 200
	}

	if s.rnd.Float64() < s.healthyBias {
		// Здоровый диапазон: uptime выше порога с запасом, latency ниже порога
		up := s.uniform(math.Max(order.SLAUptimePct+0.2, 0), 100)
		lat := s.uniform(100, math.Max(order.SLALatencyMs*0.9, 100))
		return round2(up), round2(lat)
	}

	// Нарушающий диапазон: uptime ниже порога, latency в 1.3-2 раза выше
	up := s.uniform(math.Max(order.SLAUptimePct-8, 0), math.Max(order.SLAUptimePct-1, 0))
	lat := s.uniform(order.SLALatencyMs*1.3, order.SLALatencyMs*2.0)
	return round2(up), round2(lat)
}

// uniform — равномерное значение из [lo, hi).
// При порогах задержки ниже ~111мс верхняя граница здорового диапазона
// опускается ниже нижней; схлопываем такой диапазон в точку, чтобы он
// никогда не был пустым или перевернутым.
func (s *Sampler) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
