package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/config"
	"github.com/invorya/wms-api/pkg/metrics"
)

// ExpiringLotsJob barre periódicamente los lotes cuyo vencimiento cae dentro
// del horizonte configurado, publica el conteo en la gauge wms_expiring_lots
// y deja una advertencia por cada lote para que operaciones priorice su
// salida antes de que FEFO ya no pueda colocarlos.
type ExpiringLotsJob struct {
	lots        repository.LotRepository
	spec        string
	horizonDays int
	cron        *cron.Cron
	log         zerolog.Logger
}

// NewExpiringLotsJob construye el barrido con la programación de la config.
func NewExpiringLotsJob(lots repository.LotRepository, cfg config.JobsConfig, log zerolog.Logger) *ExpiringLotsJob {
	return &ExpiringLotsJob{
		lots:        lots,
		spec:        cfg.ExpiringLotsCron,
		horizonDays: cfg.ExpiringLotsDays,
		cron:        cron.New(),
		log:         log.With().Str("job", "expiring_lots").Logger(),
	}
}

// Start programa el barrido según la expresión cron configurada.
func (j *ExpiringLotsJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		if _, err := j.Sweep(context.Background()); err != nil {
			j.log.Error().Err(err).Msg("barrido de lotes por vencer falló")
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().Str("cron", j.spec).Int("horizonte_dias", j.horizonDays).
		Msg("barrido de lotes por vencer programado")
	return nil
}

// Stop detiene la programación del barrido.
func (j *ExpiringLotsJob) Stop() {
	j.cron.Stop()
	j.log.Info().Msg("barrido de lotes por vencer detenido")
}

// Sweep ejecuta una pasada: cuenta los lotes fechados que vencen dentro del
// horizonte y actualiza la gauge. Devuelve el número de lotes encontrados.
func (j *ExpiringLotsJob) Sweep(ctx context.Context) (int, error) {
	limit := time.Now().AddDate(0, 0, j.horizonDays)
	lots, err := j.lots.ListExpiringBefore(ctx, limit)
	if err != nil {
		return 0, err
	}

	metrics.ExpiringLots.Set(float64(len(lots)))
	if len(lots) == 0 {
		j.log.Debug().Msg("sin lotes dentro del horizonte de vencimiento")
		return 0, nil
	}

	for _, lot := range lots {
		j.log.Warn().
			Str("sku", lot.SKU).
			Str("lote", lot.Code).
			Time("vence", *lot.ExpiryDate).
			Msg("lote próximo a vencer")
	}
	j.log.Info().Int("lotes", len(lots)).Time("limite", limit).
		Msg("barrido de lotes por vencer completado")
	return len(lots), nil
}
