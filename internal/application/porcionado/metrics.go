package porcionado

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados de MarkPortioned para la etiqueta "result".
const (
	resultOK           = "ok"
	resultAlready      = "already_porcionado"
	resultInsufficient = "insufficient_material"
	resultRejected     = "rejected"
	resultError        = "error"
)

var (
	markTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "porcionado_mark_total",
		Help: "Marcados de porcionado por resultado",
	}, []string{"result"})

	markDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "porcionado_mark_duration_seconds",
		Help:    "Duración de MarkPortioned (incluye reintentos de la transacción)",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms a ~4s
	})

	consumedGramsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "porcionado_consumed_grams_total",
		Help: "Gramos de barra consumidos por porcionados confirmados",
	})

	shortageGrams = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "porcionado_shortage_grams",
		Help:    "Faltante en gramos de los marcados rechazados por falta de material",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})
)
