package entity

// Goal is a named numeric target used by the KPI overview.
type Goal struct {
	ID    uint
	Key   string
	Value float64
	Unit  string
}

// Well-known goal keys.
const (
	GoalFornoDaily      = "forno_daily"
	GoalProductionDay   = "production_day"
	GoalProductionNight = "production_night"
	GoalLossPct         = "loss_pct"
)
