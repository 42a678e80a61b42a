package domain

// DashboardStats — агрегат для операторской панели.
type DashboardStats struct {
	Orders OrderStats  `json:"orders"`
	Alerts AlertStats  `json:"alerts"`
	Health HealthStats `json:"health"`
}

type OrderStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	OK       int64 `json:"ok"`
	Breached int64 `json:"breached"`
}

type AlertStats struct {
	LastHour   int64 `json:"last_hour"`
	Breaches   int64 `json:"breaches"`
	Recoveries int64 `json:"recoveries"`
}

// HealthStats считается по замерам за последний час.
type HealthStats struct {
	BreachRatio  float64 `json:"breach_ratio"` // Доля заказов в BREACHED
	AvgUptimePct float64 `json:"avg_uptime_pct"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
