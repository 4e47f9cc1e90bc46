package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaudit/pvevolution/pkg/analysis"
	"github.com/pvaudit/pvevolution/pkg/types"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	res := &analysis.Result{
		Rows: []types.AnnotatedRow{
			{TargetBudget: 73.9},
			{TargetBudget: 73.3},
		},
		Summary: types.EvolutionSummary{
			Rows:             2,
			AboveTarget:      1,
			AboveTargetRatio: 0.5,
			Averages: []types.TrailingAverage{
				{Days: 7, Value: "75.5"},
				{Days: 30, Value: "NaN"},
			},
			Lifetime: "76.2",
		},
	}
	m.Observe(res)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rows))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.AboveTargetRatio))
	assert.Equal(t, 73.3, testutil.ToFloat64(m.TargetBudget))
	assert.Equal(t, 75.5, testutil.ToFloat64(m.AveragePR.WithLabelValues("7d")))
	assert.Equal(t, 76.2, testutil.ToFloat64(m.AveragePR.WithLabelValues("lifetime")))
	assert.True(t, math.IsNaN(testutil.ToFloat64(m.AveragePR.WithLabelValues("30d"))))

	m.ObserveRender(250 * time.Millisecond)
	count, err := testutil.GatherAndCount(reg, "pvevolution_render_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
