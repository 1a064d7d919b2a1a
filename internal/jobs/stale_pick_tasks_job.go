package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/config"
	"github.com/invorya/wms-api/pkg/metrics"
)

// StalePickTasksJob vigila las tareas de picking asignadas o en progreso que
// llevan demasiado tiempo sin avance y publica el conteo en la gauge
// wms_stale_pick_tasks. El motor no vence tareas por sí mismo; decidir qué
// hacer con una tarea estancada es de la capa operativa.
type StalePickTasksJob struct {
	tasks  repository.PickTaskRepository
	spec   string
	maxAge time.Duration
	cron   *cron.Cron
	log    zerolog.Logger
}

// NewStalePickTasksJob construye el monitoreo con la programación de la config.
func NewStalePickTasksJob(tasks repository.PickTaskRepository, cfg config.JobsConfig, log zerolog.Logger) *StalePickTasksJob {
	return &StalePickTasksJob{
		tasks:  tasks,
		spec:   cfg.StaleTasksCron,
		maxAge: time.Duration(cfg.StaleTaskMaxMin) * time.Minute,
		cron:   cron.New(),
		log:    log.With().Str("job", "stale_pick_tasks").Logger(),
	}
}

// Start programa el monitoreo según la expresión cron configurada.
func (j *StalePickTasksJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		if _, err := j.Scan(context.Background()); err != nil {
			j.log.Error().Err(err).Msg("monitoreo de tareas estancadas falló")
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().Str("cron", j.spec).Dur("max_sin_avance", j.maxAge).
		Msg("monitoreo de tareas estancadas programado")
	return nil
}

// Stop detiene la programación del monitoreo.
func (j *StalePickTasksJob) Stop() {
	j.cron.Stop()
	j.log.Info().Msg("monitoreo de tareas estancadas detenido")
}

// Scan ejecuta una pasada: una tarea se considera estancada cuando está
// ASSIGNED o IN_PROGRESS y su última escritura es más vieja que el umbral.
// Devuelve el número de tareas estancadas.
func (j *StalePickTasksJob) Scan(ctx context.Context) (int, error) {
	tasks, err := j.tasks.ListByStatus(ctx,
		entity.PickTaskStatusAssigned, entity.PickTaskStatusInProgress)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.maxAge)
	stale := 0
	for _, task := range tasks {
		if !task.UpdatedAt.Before(cutoff) {
			continue
		}
		stale++
		j.log.Warn().
			Str("tarea", task.ID).
			Str("estado", task.Status).
			Str("asignada_a", task.AssignedTo).
			Time("ultimo_avance", task.UpdatedAt).
			Msg("tarea de picking sin avance")
	}

	metrics.StalePickTasks.Set(float64(stale))
	if stale > 0 {
		j.log.Info().Int("estancadas", stale).Int("revisadas", len(tasks)).
			Msg("monitoreo de tareas estancadas completado")
	}
	return stale, nil
}
