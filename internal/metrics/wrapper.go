package metrics

// MetricsWrapper exposes the metrics as plain methods so that consumers can
// declare small interfaces instead of importing Prometheus types. This keeps
// the controller and web packages mockable in tests.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *MetricsWrapper) FailuresInc() {
	w.m.PredictionFailures.Inc()
}

func (w *MetricsWrapper) TransportErrorsInc() {
	w.m.TransportErrors.Inc()
}

func (w *MetricsWrapper) DuplicatesInc() {
	w.m.DuplicateRequests.Inc()
}

func (w *MetricsWrapper) LatencyObserve(v float64) {
	w.m.PredictionLatency.Observe(v)
}

func (w *MetricsWrapper) QualityObserve(v float64) {
	w.m.PredictedQuality.Observe(v)
}

func (w *MetricsWrapper) RejectionsInc() {
	w.m.FeatureRejections.Inc()
}

func (w *MetricsWrapper) WSClientsAdd(delta float64) {
	w.m.WSClients.Add(delta)
}
