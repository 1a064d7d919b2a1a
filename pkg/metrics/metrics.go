// Package metrics expone los contadores Prometheus del motor. Se registran
// en el registry global y el router los publica en /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersAllocated pedidos que quedaron totalmente reservados.
	OrdersAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_orders_allocated_total",
		Help: "Pedidos con reserva completa de inventario.",
	})

	// AllocationFailures intentos de asignación revertidos por falta de stock.
	AllocationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_allocation_failures_total",
		Help: "Asignaciones fallidas y compensadas.",
	})

	// WavesPlanned olas generadas por el planificador.
	WavesPlanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_waves_planned_total",
		Help: "Olas de picking planeadas.",
	})

	// PickTasksCompleted tareas de picking cerradas.
	PickTasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_pick_tasks_completed_total",
		Help: "Tareas de picking completadas.",
	})

	// ShortPicks tareas completadas con faltante.
	ShortPicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_short_picks_total",
		Help: "Tareas de picking completadas con cantidad menor a la pedida.",
	})

	// PutAwaysCompleted tareas de put-away confirmadas.
	PutAwaysCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_putaways_completed_total",
		Help: "Tareas de put-away completadas.",
	})

	// ShipmentsDispatched envíos despachados con transportadora.
	ShipmentsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wms_shipments_dispatched_total",
		Help: "Envíos despachados.",
	})

	// ExpiringLots lotes dentro del horizonte de vencimiento (lo fija el job).
	ExpiringLots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wms_expiring_lots",
		Help: "Lotes que vencen dentro del horizonte configurado.",
	})

	// StalePickTasks tareas sin avance más allá del umbral (lo fija el job).
	StalePickTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wms_stale_pick_tasks",
		Help: "Tareas de picking estancadas según el monitoreo periódico.",
	})
)
