package impl

import (
	"strings"
	"text/template"

	"indicators/config"
	"indicators/internal/domain/entity"

	"github.com/pkg/errors"
)

const (
	defaultExecutiveTemplate = `Produção consolidada de {{printf "%.0f" .Production}} m² nos últimos 30 dias, ` +
		`com utilização do forno {{printf "%.1f" .UtilizationPct}}% ({{.Trend}}). ` +
		`As perdas acumuladas representam {{printf "%.1f" .LossPct}}% da produção. ` +
		`Foi registrado {{.Delays}} atraso(s) e {{.Complaints}} reclamação(ões) no período. ` +
		`Pedidos no período somam {{printf "%.0f" .Orders}} m². ` +
		`Reforçar ações de redução de perdas e atenção às causas de atrasos.`

	defaultTrendAbove  = "acima do planejado"
	defaultTrendBelow  = "abaixo do planejado"
	defaultTrendStable = "estável"

	trendAboveThreshold = 90.0
	trendBelowThreshold = 70.0
)

// reportData is what the executive template can reference.
type reportData struct {
	entity.KPIOverview
	Trend string
}

// reportWriter renders the narrative paragraph of the KPI overview.
type reportWriter struct {
	tmpl        *template.Template
	trendAbove  string
	trendBelow  string
	trendStable string
}

func newReportWriter(cfg *config.ReportConfig) (*reportWriter, error) {
	if cfg == nil {
		cfg = &config.ReportConfig{}
	}

	src := orDefault(cfg.ExecutiveTemplate, defaultExecutiveTemplate)
	tmpl, err := template.New("executive").Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse executive text template")
	}

	return &reportWriter{
		tmpl:        tmpl,
		trendAbove:  orDefault(cfg.TrendAbove, defaultTrendAbove),
		trendBelow:  orDefault(cfg.TrendBelow, defaultTrendBelow),
		trendStable: orDefault(cfg.TrendStable, defaultTrendStable),
	}, nil
}

// trend classifies kiln utilization against plan.
func (w *reportWriter) trend(utilization float64) string {
	switch {
	case utilization >= trendAboveThreshold:
		return w.trendAbove
	case utilization < trendBelowThreshold:
		return w.trendBelow
	default:
		return w.trendStable
	}
}

func (w *reportWriter) Render(kpi *entity.KPIOverview) (string, error) {
	var sb strings.Builder
	data := reportData{KPIOverview: *kpi, Trend: w.trend(kpi.UtilizationPct)}
	if err := w.tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "render executive text")
	}

	return sb.String(), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
