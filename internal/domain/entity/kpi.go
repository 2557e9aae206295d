package entity

// KPITotals are the raw sums and counts over a reporting window.
type KPITotals struct {
	Production float64 // Σ forno_m2 over entries.
	Orders     float64 // Σ pedidos_m2 over entries.
	Loss       float64 // Σ qty_m2 over breakages.
	Delays     int64
	Complaints int64
}

// GoalSnapshot are the goal values the overview was computed against.
type GoalSnapshot struct {
	FornoDaily      float64 `json:"forno_daily"`
	ProductionDay   float64 `json:"prod_day"`
	ProductionNight float64 `json:"prod_night"`
	LossPct         float64 `json:"loss_pct"`
}

// KPIOverview is the 30-day summary served to dashboards.
type KPIOverview struct {
	Production     float64      `json:"production_30d_m2"`
	Orders         float64      `json:"orders_30d_m2"`
	Loss           float64      `json:"loss_30d_m2"`
	LossPct        float64      `json:"loss_pct"`
	Delays         int64        `json:"delays_count"`
	Complaints     int64        `json:"complaints_count"`
	UtilizationPct float64      `json:"utilization_pct"`
	Goals          GoalSnapshot `json:"goals"`
	ExecutiveText  string       `json:"executive_text"`
}
