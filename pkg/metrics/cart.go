package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart/wishlist mutation traffic and cue fan-out.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	cues      *prometheus.CounterVec
	fanout    *prometheus.HistogramVec
}

// NewCartMetrics registers the session state metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Mutating session state operations by store and operation.",
	}, []string{"store", "op"})
	cues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_change_cues_total",
		Help: "Change cues emitted after committed writes.",
	}, []string{"store"})
	fanout := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_cue_fanout_subscribers",
		Help:    "Subscribers reached per emitted change cue.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	}, []string{"store"})
	reg.MustRegister(mutations, cues, fanout)
	return &CartMetrics{
		mutations: mutations,
		cues:      cues,
		fanout:    fanout,
	}
}

// IncMutation counts one mutating operation against the named store.
func (c *CartMetrics) IncMutation(store, op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// IncCue counts one emitted change cue.
func (c *CartMetrics) IncCue(store string) {
	if c == nil || c.cues == nil {
		return
	}
	c.cues.WithLabelValues(normalizeLabel(store)).Inc()
}

// ObserveFanout records how many subscribers a cue reached.
func (c *CartMetrics) ObserveFanout(store string, subscribers int) {
	if c == nil || c.fanout == nil {
		return
	}
	c.fanout.WithLabelValues(normalizeLabel(store)).Observe(float64(subscribers))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
