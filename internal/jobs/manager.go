// Package jobs contiene los trabajos de fondo del almacén, programados con
// expresiones cron: el barrido de lotes próximos a vencer y el monitoreo de
// tareas de picking estancadas. Ambos publican su resultado como gauges de
// Prometheus y dejan rastro en el log; no mutan datos.
package jobs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/config"
)

// Manager coordina los trabajos programados de la aplicación.
type Manager struct {
	expiringLots *ExpiringLotsJob
	staleTasks   *StalePickTasksJob
}

// NewManager construye el coordinador con todos los trabajos cableados.
func NewManager(
	lots repository.LotRepository,
	tasks repository.PickTaskRepository,
	cfg config.JobsConfig,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		expiringLots: NewExpiringLotsJob(lots, cfg, log),
		staleTasks:   NewStalePickTasksJob(tasks, cfg, log),
	}
}

// StartAll arranca todos los trabajos; si uno falla detiene los ya iniciados.
func (m *Manager) StartAll() error {
	if err := m.expiringLots.Start(); err != nil {
		return fmt.Errorf("iniciar barrido de vencimientos: %w", err)
	}
	if err := m.staleTasks.Start(); err != nil {
		m.expiringLots.Stop()
		return fmt.Errorf("iniciar monitoreo de tareas: %w", err)
	}
	return nil
}

// StopAll detiene todos los trabajos.
func (m *Manager) StopAll() {
	m.staleTasks.Stop()
	m.expiringLots.Stop()
}
