package service

import "github.com/prometheus/client_golang/prometheus"

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_registrations_total", Help: "User registrations by result"},
		[]string{"result"},
	)
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_logins_total", Help: "Token obtain attempts by result"},
		[]string{"result"},
	)
	resetRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "password_reset_requests_total", Help: "Password reset requests by result"},
		[]string{"result"},
	)
	resetConfirmsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "password_reset_confirms_total", Help: "Password reset confirmations by result"},
		[]string{"result"},
	)
	resetMailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "password_reset_mail_failures_total", Help: "Reset notifications that failed to send"},
	)
)

func init() {
	prometheus.MustRegister(registrationsTotal, loginsTotal, resetRequestsTotal, resetConfirmsTotal, resetMailFailures)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
