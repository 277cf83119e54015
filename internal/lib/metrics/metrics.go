package metrics

import (
	"ShopBot/bot/chat"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turns records finished dialog turns. It implements chat.TurnListener.
type Turns struct {
	total    *prometheus.CounterVec
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTurns registers the turn metrics in reg.
func NewTurns(reg prometheus.Registerer) *Turns {
	f := promauto.With(reg)
	return &Turns{
		total: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_turns_total",
				Help: "Dialog turns by workflow and outcome.",
			},
			[]string{"workflow", "kind"},
		),
		steps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_step_turns_total",
				Help: "Dialog turns by the step they ended on.",
			},
			[]string{"workflow", "step"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopbot_turn_duration_seconds",
				Help:    "Duration of dialog turns.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow"},
		),
	}
}

func (t *Turns) OnTurn(e chat.TurnEvent) {
	wf := string(e.WorkflowID)
	if wf == "" {
		wf = "unknown"
	}
	t.total.WithLabelValues(wf, string(e.Kind)).Inc()
	if e.Step != "" {
		t.steps.WithLabelValues(wf, string(e.Step)).Inc()
	}
	t.duration.WithLabelValues(wf).Observe(e.Duration.Seconds())
}
