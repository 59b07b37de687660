package metrics

import "github.com/penglongli/gin-metrics/ginmetrics"

// AuthRejectionsMetric counts requests turned away by the auth gate, labelled by reason.
const AuthRejectionsMetric = "campus_auth_rejections_total"

func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	m.SetMetricPath(path)
	m.SetSlowTime(1)

	// used to p95, p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	if m.GetMetric(AuthRejectionsMetric).Type == ginmetrics.None {
		_ = m.AddMetric(&ginmetrics.Metric{
			Type:        ginmetrics.Counter,
			Name:        AuthRejectionsMetric,
			Description: "requests rejected by the auth gate",
			Labels:      []string{"reason"},
		})
	}

	return m
}

// RecordAuthRejection is a no-op when the monitor was never set up.
func RecordAuthRejection(reason string) {
	_ = ginmetrics.GetMonitor().GetMetric(AuthRejectionsMetric).Inc([]string{reason})
}
