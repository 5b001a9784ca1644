// Package recognizer is a development stand-in for the handwriting
// recognition service. It validates uploads the same way the real service
// does and answers with configured text, so the client can be exercised
// without the model.
package recognizer

import (
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okulikov/handtext/internal/logging"
)

// Service holds the canned recognition text, the per-host rate limiter
// and the request metrics.
type Service struct {
	log     logging.Logger
	text    string
	limiter *hostLimiter
	reg     *prometheus.Registry
	reqs    *prometheus.CounterVec
}

// NewService builds the stub. text is returned for every valid upload.
// rps/burst configure the per-host rate limit; non-positive values
// disable limiting.
func NewService(log logging.Logger, text string, rps float64, burst int) *Service {
	reg := prometheus.NewRegistry()
	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recognizer_requests_total",
		Help: "Recognition requests by endpoint and status code.",
	}, []string{"endpoint", "code"})
	reg.MustRegister(reqs)

	return &Service{
		log:     log,
		text:    text,
		limiter: newHostLimiter(rps, burst),
		reg:     reg,
		reqs:    reqs,
	}
}

func (s *Service) count(endpoint string, code int) {
	s.reqs.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// Router exposes the two recognition endpoints plus health and metrics.
// Only the recognition endpoints are rate limited.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/process", s.limit("process", s.process)).Methods("POST")
	r.HandleFunc("/segment_and_recognize", s.limit("segment_and_recognize", s.segmentAndRecognize)).Methods("POST")
	return r
}
