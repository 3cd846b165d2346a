// Package metrics объявляет prometheus метрики сервиса.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lms_http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lms_http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "lms_http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	// SubscriptionEvents переходы подписок: created, activated, cancelled.
	SubscriptionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lms_subscription_events_total", Help: "Subscription lifecycle events"},
		[]string{"event"},
	)
	// PaymentVerifications результаты проверки подписи платежа: ok, invalid, duplicate.
	PaymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lms_payment_verifications_total", Help: "Payment signature verification results"},
		[]string{"result"},
	)
	// CatalogCache попадания и промахи кэша каталога.
	CatalogCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lms_catalog_cache_total", Help: "Catalog cache lookups"},
		[]string{"result"},
	)
)

var once sync.Once

// MustRegister регистрирует метрики в реестре по умолчанию. Повторный вызов ничего не делает.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight,
			SubscriptionEvents, PaymentVerifications, CatalogCache)
	})
}
