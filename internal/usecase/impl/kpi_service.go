package impl

import (
	"context"
	"log/slog"
	"math"
	"time"

	"indicators/config"
	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	"indicators/internal/domain/repository"
	"indicators/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	kpiWindowDays = 30

	// lossDenominatorFloor keeps loss_pct finite when nothing was produced.
	lossDenominatorFloor = 1.0
)

var goalDefaults = map[string]float64{
	entity.GoalFornoDaily:      1.0,
	entity.GoalProductionDay:   0.0,
	entity.GoalProductionNight: 0.0,
	entity.GoalLossPct:         0.0,
}

// kpiService implements the KPIUsecase interface.
type kpiService struct {
	kpiRepo repository.KPIRepository
	goals   usecase.GoalUsecase
	report  *reportWriter
	now     func() time.Time
	logger  *slog.Logger
}

// KPIServiceParams holds dependencies for KPIService, injected by Fx.
type KPIServiceParams struct {
	fx.In

	KPIRepo repository.KPIRepository
	Goals   usecase.GoalUsecase
	Config  *config.Config
	Logger  *slog.Logger
	Clock   func() time.Time `optional:"true"`
}

// NewKPIService fails when the configured executive template does not parse.
func NewKPIService(params KPIServiceParams) (usecase.KPIUsecase, error) {
	var reportCfg *config.ReportConfig
	if params.Config != nil {
		reportCfg = params.Config.Report
	}

	report, err := newReportWriter(reportCfg)
	if err != nil {
		return nil, err
	}

	now := params.Clock
	if now == nil {
		now = time.Now
	}

	return &kpiService{
		kpiRepo: params.KPIRepo,
		goals:   params.Goals,
		report:  report,
		now:     now,
		logger:  params.Logger,
	}, nil
}

// window is today minus 29 days through today, as UTC calendar dates.
func (srv *kpiService) window() (from, to time.Time) {
	y, m, d := srv.now().UTC().Date()
	to = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return to.AddDate(0, 0, -(kpiWindowDays - 1)), to
}

func (srv *kpiService) Overview(ctx context.Context) (*entity.KPIOverview, error) {
	from, to := srv.window()

	totals, err := srv.kpiRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate KPI totals")
	}

	goals, err := srv.goalSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	overview := &entity.KPIOverview{
		Production:     totals.Production,
		Orders:         totals.Orders,
		Loss:           totals.Loss,
		LossPct:        totals.Loss / math.Max(totals.Production, lossDenominatorFloor) * 100,
		Delays:         totals.Delays,
		Complaints:     totals.Complaints,
		UtilizationPct: utilization(totals.Production, goals.FornoDaily),
		Goals:          goals,
	}

	if overview.ExecutiveText, err = srv.report.Render(overview); err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("KPI overview computed",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Float64("production", overview.Production),
	)

	return overview, nil
}

func (srv *kpiService) goalSnapshot(ctx context.Context) (entity.GoalSnapshot, error) {
	values := make(map[string]float64, len(goalDefaults))
	for key, def := range goalDefaults {
		v, err := srv.goals.ValueOrDefault(ctx, key, def)
		if err != nil {
			return entity.GoalSnapshot{}, errors.Wrapf(err, "failed to read goal %s", key)
		}
		values[key] = v
	}

	return entity.GoalSnapshot{
		FornoDaily:      values[entity.GoalFornoDaily],
		ProductionDay:   values[entity.GoalProductionDay],
		ProductionNight: values[entity.GoalProductionNight],
		LossPct:         values[entity.GoalLossPct],
	}, nil
}

// utilization compares production against the daily kiln goal over the whole window.
// A zero goal yields 0 rather than a division error.
func utilization(production, fornoDaily float64) float64 {
	if fornoDaily == 0 {
		return 0
	}

	return production / (fornoDaily * kpiWindowDays) * 100
}
