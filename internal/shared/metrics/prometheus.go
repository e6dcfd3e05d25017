package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	patientSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patient_searches_total",
			Help: "Total number of patient searches",
		},
		[]string{"outcome"},
	)

	patientsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patients_registered_total",
			Help: "Total number of patients registered at the front desk",
		},
	)

	duplicatesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_records_rejected_total",
			Help: "Total number of registrations or import rows rejected as duplicates",
		},
		[]string{"source"},
	)

	patientsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patients_imported_total",
			Help: "Total number of patients accepted from batch imports",
		},
		[]string{"format"},
	)

	importRowErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_row_errors_total",
			Help: "Total number of import entries skipped with an error",
		},
		[]string{"format"},
	)

	appointmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Total number of appointments scheduled",
		},
		[]string{"type"},
	)
)

// RecordSearch increments the search counter with the given outcome
func RecordSearch(outcome string) {
	patientSearches.WithLabelValues(outcome).Inc()
}

// RecordRegistration increments the registration counter
func RecordRegistration() {
	patientsRegistered.Inc()
}

// RecordDuplicateRejected increments the duplicate rejection counter
func RecordDuplicateRejected(source string) {
	duplicatesRejected.WithLabelValues(source).Inc()
}

// RecordImport adds accepted and errored entry counts for a batch import
func RecordImport(format string, imported, errored int) {
	patientsImported.WithLabelValues(format).Add(float64(imported))
	importRowErrors.WithLabelValues(format).Add(float64(errored))
}

// RecordAppointment increments the appointment counter
func RecordAppointment(appointmentType string) {
	appointmentsCreated.WithLabelValues(appointmentType).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instruments HTTP handlers with request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
