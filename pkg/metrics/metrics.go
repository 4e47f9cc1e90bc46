// Package metrics exposes the latest analysis as prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pvaudit/pvevolution/pkg/analysis"
)

// Metrics bundles the evolution metrics.
type Metrics struct {
	Rows             prometheus.Gauge
	AboveTargetRatio prometheus.Gauge
	AveragePR        *prometheus.GaugeVec
	TargetBudget     prometheus.Gauge
	RenderDuration   prometheus.Histogram
}

// New constructs the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pvevolution_rows",
			Help: "Number of daily rows in the analyzed range",
		}),
		AboveTargetRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pvevolution_above_target_ratio",
			Help: "Share of days whose PR is strictly above the target budget",
		}),
		AveragePR: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pvevolution_average_pr",
				Help: "Average PR over the trailing window",
			},
			[]string{"window"},
		),
		TargetBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pvevolution_target_budget_percent",
			Help: "Target budget PR on the last analyzed day",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pvevolution_render_seconds",
			Help:    "Chart rendering duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.Rows,
		m.AboveTargetRatio,
		m.AveragePR,
		m.TargetBudget,
		m.RenderDuration,
	)
	return m
}

// Observe records the figures of an analysis result.
func (m *Metrics) Observe(res *analysis.Result) {
	s := res.Summary
	m.Rows.Set(float64(s.Rows))
	m.AboveTargetRatio.Set(s.AboveTargetRatio)
	for _, avg := range s.Averages {
		setAverage(m.AveragePR.WithLabelValues(strconv.Itoa(avg.Days)+"d"), avg.Value)
	}
	setAverage(m.AveragePR.WithLabelValues("lifetime"), s.Lifetime)
	if len(res.Rows) > 0 {
		m.TargetBudget.Set(res.Rows[len(res.Rows)-1].TargetBudget)
	}
}

// ObserveRender records how long rendering the chart took.
func (m *Metrics) ObserveRender(d time.Duration) {
	m.RenderDuration.Observe(d.Seconds())
}

func setAverage(g prometheus.Gauge, value string) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	g.Set(v)
}
