package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the companion's prometheus registry and counters.
type Recorder struct {
	registry *prometheus.Registry

	Replies          *prometheus.CounterVec
	ResponderErrors  prometheus.Counter
	DrugMentions     prometheus.Counter
	SessionsCreated  prometheus.Counter
	LabellerFallback prometheus.Counter
}

// NewRecorder creates a Recorder backed by a private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "replies_total",
			Help:      "Replies produced, labelled by response category.",
		}, []string{"category"}),
		ResponderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "responder_errors_total",
			Help:      "Turns where the responder failed and the clarification message was used.",
		}),
		DrugMentions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "drug_mentions_total",
			Help:      "User messages flagged for substance mentions.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "sessions_created_total",
			Help:      "Anonymous sessions created.",
		}),
		LabellerFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "emotion_labeller_fallback_total",
			Help:      "Text emotion inferences that fell back to neutral.",
		}),
	}

	reg.MustRegister(r.Replies, r.ResponderErrors, r.DrugMentions, r.SessionsCreated, r.LabellerFallback)
	reg.MustRegister(collectors.NewGoCollector())
	return r
}

// ObserveReply counts one reply for category.
func (r *Recorder) ObserveReply(category string) {
	if r == nil {
		return
	}
	r.Replies.WithLabelValues(category).Inc()
}

func (r *Recorder) ObserveResponderError() {
	if r == nil {
		return
	}
	r.ResponderErrors.Inc()
}

func (r *Recorder) ObserveDrugMention() {
	if r == nil {
		return
	}
	r.DrugMentions.Inc()
}

func (r *Recorder) ObserveSession() {
	if r == nil {
		return
	}
	r.SessionsCreated.Inc()
}

func (r *Recorder) ObserveLabellerFallback() {
	if r == nil {
		return
	}
	r.LabellerFallback.Inc()
}

// Registry exposes the underlying registry for gathering in tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
