package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_registrations_total",
		Help: "Student registrations accepted.",
	})

	marksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_marks_total",
		Help: "Attendance records created, by marking method.",
	}, []string{"method"})
)

// metricMethod collapses the caller-supplied method into a closed label
// set so arbitrary request values cannot grow the metric unbounded.
func metricMethod(m string) string {
	switch m {
	case "manual", "qr":
		return m
	default:
		return "other"
	}
}
