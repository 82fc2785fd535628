// Package metrics counts resolver decisions in a private prometheus
// registry. The CLI can dump the registry as a node-exporter text file.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clincoref"

// Recorder holds the resolver counters. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	Registry *prometheus.Registry

	Mentions   prometheus.Counter
	Candidates prometheus.Histogram
	Links      *prometheus.CounterVec
	Singletons prometheus.Counter
	Pruned     prometheus.Counter
	Violations prometheus.Counter
	Nulls      prometheus.Counter
	Instances  *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Mentions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mentions_processed_total",
			Help:      "Mentions visited by the decision engine.",
		}),
		Candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_per_mention",
			Help:      "Candidate clusters proposed per mention.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		Links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Mentions linked to an antecedent cluster.",
		}, []string{"decoding"}),
		Singletons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singletons_total",
			Help:      "Mentions that started a new cluster.",
		}),
		Pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singletons_pruned_total",
			Help:      "Singleton clusters removed at the end of processing.",
		}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_invariant_violations_total",
			Help:      "Rejected second links of an already linked anaphor.",
		}),
		Nulls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "null_features_total",
			Help:      "Null feature values replaced by the sentinel.",
		}),
		Instances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_instances_total",
			Help:      "Training instances emitted.",
		}, []string{"kind"}),
	}

	r.Registry.MustRegister(r.Mentions, r.Candidates, r.Links, r.Singletons,
		r.Pruned, r.Violations, r.Nulls, r.Instances)
	return r
}

func (r *Recorder) Mention(candidates int) {
	if r == nil {
		return
	}
	r.Mentions.Inc()
	r.Candidates.Observe(float64(candidates))
}

func (r *Recorder) Link(decoding string) {
	if r == nil {
		return
	}
	r.Links.WithLabelValues(decoding).Inc()
}

func (r *Recorder) Singleton() {
	if r == nil {
		return
	}
	r.Singletons.Inc()
}

func (r *Recorder) Prune(n int) {
	if r == nil {
		return
	}
	r.Pruned.Add(float64(n))
}

func (r *Recorder) Violation() {
	if r == nil {
		return
	}
	r.Violations.Inc()
}

func (r *Recorder) Null(n int) {
	if r == nil || n == 0 {
		return
	}
	r.Nulls.Add(float64(n))
}

func (r *Recorder) Instance(kind string) {
	if r == nil {
		return
	}
	r.Instances.WithLabelValues(kind).Inc()
}

// WriteFile dumps the registry in the prometheus text format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
