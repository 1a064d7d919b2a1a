// Package picking genera y opera las tareas de picking de una ola: una
// tarea por (ubicación, SKU) que consolida las reservas de todos los
// pedidos miembros, con escrituras condicionales por versión para los
// operarios concurrentes.
package picking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/application/waves"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/keymutex"
	"github.com/invorya/wms-api/pkg/metrics"
)

// UseCase casos de uso de picking.
type UseCase struct {
	waves       repository.WaveRepository
	tasks       repository.PickTaskRepository
	allocations repository.AllocationRepository
	orders      repository.OrderRepository
	ledger      *appinv.LedgerUseCase
	orderLocks  *keymutex.KeyMutex
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso de picking.
func NewUseCase(
	wavesRepo repository.WaveRepository,
	tasks repository.PickTaskRepository,
	allocations repository.AllocationRepository,
	orders repository.OrderRepository,
	ledger *appinv.LedgerUseCase,
	orderLocks *keymutex.KeyMutex,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		waves:       wavesRepo,
		tasks:       tasks,
		allocations: allocations,
		orders:      orders,
		ledger:      ledger,
		orderLocks:  orderLocks,
		log:         log,
	}
}

// GenerateTasks libera la ola: consolida las reservas de los pedidos
// miembros en una tarea por (ubicación, SKU), ordenadas por código de
// ubicación para que el recorrido del operario sea secuencial. Liberar una
// ola ya liberada devuelve sus tareas sin generar nada nuevo.
func (uc *UseCase) GenerateTasks(ctx context.Context, waveID string) (*dto.ReleaseWaveResponse, error) {
	wave, err := uc.waves.GetByID(ctx, waveID)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, fmt.Errorf("ola %s: %w", waveID, domain.ErrNotFound)
	}
	if wave.Status == entity.WaveStatusReleased {
		return uc.buildReleaseResponse(ctx, wave)
	}
	if wave.Status != entity.WaveStatusPlanned {
		return nil, fmt.Errorf("ola %s en estado %s no se puede liberar: %w",
			waveID, wave.Status, domain.ErrStateConflict)
	}
	if len(wave.OrderIDs) == 0 {
		return nil, fmt.Errorf("ola %s sin pedidos: %w", waveID, domain.ErrEmptySelection)
	}

	type group struct {
		locationID   string
		locationCode string
		sku          string
		qty          decimal.Decimal
		allocs       []*entity.Allocation
	}
	groups := make(map[string]*group)
	for _, orderID := range wave.OrderIDs {
		allocs, err := uc.allocations.ListByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		for _, a := range allocs {
			key := a.LocationID + "|" + a.SKU
			g, ok := groups[key]
			if !ok {
				g = &group{locationID: a.LocationID, locationCode: a.LocationCode, sku: a.SKU, qty: decimal.Zero}
				groups[key] = g
			}
			g.qty = g.qty.Add(a.Quantity)
			g.allocs = append(g.allocs, a)
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("ola %s sin reservas vivas: %w", waveID, domain.ErrEmptySelection)
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].locationCode != ordered[j].locationCode {
			return ordered[i].locationCode < ordered[j].locationCode
		}
		return ordered[i].sku < ordered[j].sku
	})

	now := time.Now()
	for _, g := range ordered {
		// dentro de la tarea las reservas conservan el orden FEFO de creación
		sort.Slice(g.allocs, func(i, j int) bool {
			if !g.allocs[i].CreatedAt.Equal(g.allocs[j].CreatedAt) {
				return g.allocs[i].CreatedAt.Before(g.allocs[j].CreatedAt)
			}
			return g.allocs[i].ID < g.allocs[j].ID
		})
		allocIDs := make([]string, 0, len(g.allocs))
		for _, a := range g.allocs {
			allocIDs = append(allocIDs, a.ID)
		}
		task := &entity.PickTask{
			ID:            uuid.New().String(),
			WaveID:        wave.ID,
			SKU:           g.sku,
			LocationID:    g.locationID,
			LocationCode:  g.locationCode,
			Quantity:      g.qty,
			AllocationIDs: allocIDs,
			Status:        entity.PickTaskStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.tasks.Create(ctx, task); err != nil {
			return nil, err
		}
	}

	wave.Status = entity.WaveStatusReleased
	wave.ReleasedAt = &now
	if err := uc.waves.Update(ctx, wave); err != nil {
		return nil, err
	}
	uc.log.Info().Str("ola", wave.ID).Int("tareas", len(ordered)).Msg("ola liberada")
	return uc.buildReleaseResponse(ctx, wave)
}

// Assign asigna la tarea a un operario. PENDING → ASSIGNED.
func (uc *UseCase) Assign(ctx context.Context, taskID string, in dto.AssignPickTaskRequest) (*dto.PickTaskResponse, error) {
	if in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	task, err := uc.getExisting(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !entity.PickTaskCanTransition(task.Status, entity.PickTaskStatusAssigned) {
		return nil, fmt.Errorf("tarea %s en estado %s no se puede asignar: %w",
			taskID, task.Status, domain.ErrStateConflict)
	}
	task.Status = entity.PickTaskStatusAssigned
	task.AssignedTo = in.UserID
	task.UpdatedAt = time.Now()
	if err := uc.tasks.UpdateVersioned(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// Start arranca la tarea. ASSIGNED → IN_PROGRESS; la primera tarea en
// arrancar avanza los pedidos de la ola de WAVED a PICKING.
func (uc *UseCase) Start(ctx context.Context, taskID string) (*dto.PickTaskResponse, error) {
	task, err := uc.getExisting(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !entity.PickTaskCanTransition(task.Status, entity.PickTaskStatusInProgress) {
		return nil, fmt.Errorf("tarea %s en estado %s no se puede iniciar: %w",
			taskID, task.Status, domain.ErrStateConflict)
	}
	task.Status = entity.PickTaskStatusInProgress
	task.UpdatedAt = time.Now()
	if err := uc.tasks.UpdateVersioned(ctx, task); err != nil {
		return nil, err
	}
	if err := uc.advanceWaveOrders(ctx, task.WaveID); err != nil {
		uc.log.Error().Err(err).Str("ola", task.WaveID).Msg("no se pudieron avanzar los pedidos a PICKING")
	}
	return toTaskResponse(task), nil
}

// Complete cierra la tarea con la cantidad realmente tomada. La escritura
// condicional por versión decide un único ganador; después se aplican los
// efectos: commit proporcional de las reservas en orden FEFO, liberación
// del faltante y marcación de líneas cortas. Completar una tarea ya
// completada devuelve el resultado guardado sin repetir efectos.
func (uc *UseCase) Complete(ctx context.Context, taskID, actor string, in dto.CompletePickTaskRequest) (*dto.PickTaskResponse, error) {
	task, err := uc.getExisting(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == entity.PickTaskStatusCompleted {
		return toTaskResponse(task), nil
	}
	if !entity.PickTaskCanTransition(task.Status, entity.PickTaskStatusCompleted) {
		return nil, fmt.Errorf("tarea %s en estado %s no se puede completar: %w",
			taskID, task.Status, domain.ErrStateConflict)
	}
	if in.PickedQty.IsNegative() || in.PickedQty.GreaterThan(task.Quantity) {
		return nil, fmt.Errorf("cantidad tomada %s fuera de [0, %s]: %w",
			in.PickedQty, task.Quantity, domain.ErrInvalidInput)
	}

	now := time.Now()
	short := task.Quantity.Sub(in.PickedQty)
	task.Status = entity.PickTaskStatusCompleted
	task.Result = &entity.PickResult{
		PickedQty:   in.PickedQty,
		ShortQty:    short,
		CompletedBy: actor,
		CompletedAt: now,
	}
	task.UpdatedAt = now
	task.Version = in.Version
	if err := uc.tasks.UpdateVersioned(ctx, task); err != nil {
		return nil, err
	}

	if err := uc.applyPickEffects(ctx, task, in.PickedQty, actor); err != nil {
		// la tarea ya quedó completada; la discrepancia se reconcilia con un ajuste
		uc.log.Error().Err(err).Str("tarea", task.ID).Msg("efectos de picking incompletos")
		return nil, err
	}

	metrics.PickTasksCompleted.Inc()
	if short.IsPositive() {
		metrics.ShortPicks.Inc()
	}
	if err := uc.completeWaveIfDone(ctx, task.WaveID); err != nil {
		uc.log.Error().Err(err).Str("ola", task.WaveID).Msg("no se pudo verificar el cierre de la ola")
	}
	return toTaskResponse(task), nil
}

// GetByID devuelve una tarea.
func (uc *UseCase) GetByID(ctx context.Context, taskID string) (*dto.PickTaskResponse, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return toTaskResponse(task), nil
}

// ListByWave devuelve las tareas de la ola en orden de recorrido.
func (uc *UseCase) ListByWave(ctx context.Context, waveID string) (*dto.PickTaskListResponse, error) {
	tasks, err := uc.tasks.ListByWave(ctx, waveID)
	if err != nil {
		return nil, err
	}
	out := &dto.PickTaskListResponse{Items: make([]dto.PickTaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		out.Items = append(out.Items, *toTaskResponse(t))
	}
	return out, nil
}

// applyPickEffects consume las reservas de la tarea en su orden FEFO hasta
// cubrir lo tomado, libera el faltante y actualiza las líneas de los
// pedidos afectados.
func (uc *UseCase) applyPickEffects(ctx context.Context, task *entity.PickTask, picked decimal.Decimal, actor string) error {
	remaining := picked
	committedByOrder := make(map[string]decimal.Decimal)
	shortByOrder := make(map[string]decimal.Decimal)

	for _, allocID := range task.AllocationIDs {
		alloc, err := uc.allocations.GetByID(ctx, allocID)
		if err != nil {
			return err
		}
		if alloc == nil {
			continue // liberada por una cancelación previa
		}
		take := decimal.Min(remaining, alloc.Quantity)
		shortfall := alloc.Quantity.Sub(take)
		if take.IsPositive() {
			if err := uc.ledger.CommitAllocation(ctx, allocID, take, actor, alloc.OrderID); err != nil {
				return fmt.Errorf("commit de la reserva %s: %w", allocID, err)
			}
			remaining = remaining.Sub(take)
			committedByOrder[alloc.OrderID] = committedByOrder[alloc.OrderID].Add(take)
		}
		if shortfall.IsPositive() {
			if err := uc.ledger.ReleaseAllocation(ctx, allocID, shortfall, actor, alloc.OrderID); err != nil {
				return fmt.Errorf("liberación del faltante de %s: %w", allocID, err)
			}
			shortByOrder[alloc.OrderID] = shortByOrder[alloc.OrderID].Add(shortfall)
		}
	}

	for orderID := range committedByOrder {
		if err := uc.updateOrderLines(ctx, orderID, task.SKU, committedByOrder[orderID], shortByOrder[orderID]); err != nil {
			return err
		}
	}
	for orderID := range shortByOrder {
		if _, done := committedByOrder[orderID]; done {
			continue
		}
		if err := uc.updateOrderLines(ctx, orderID, task.SKU, decimal.Zero, shortByOrder[orderID]); err != nil {
			return err
		}
	}
	return nil
}

// updateOrderLines acumula lo tomado y lo faltante en las líneas del SKU.
func (uc *UseCase) updateOrderLines(ctx context.Context, orderID, sku string, picked, short decimal.Decimal) error {
	uc.orderLocks.Lock(orderID)
	defer uc.orderLocks.Unlock(orderID)

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.SKU != sku {
			continue
		}
		room := line.Quantity.Sub(line.PickedQty).Sub(line.ShortQty)
		if !room.IsPositive() {
			continue
		}
		take := decimal.Min(picked, room)
		line.PickedQty = line.PickedQty.Add(take)
		picked = picked.Sub(take)
		room = room.Sub(take)

		fall := decimal.Min(short, room)
		if fall.IsPositive() {
			line.ShortQty = line.ShortQty.Add(fall)
			line.Short = true
			short = short.Sub(fall)
		}
		if !picked.IsPositive() && !short.IsPositive() {
			break
		}
	}
	order.UpdatedAt = time.Now()
	return uc.orders.Update(ctx, order)
}

// advanceWaveOrders pasa a PICKING los pedidos de la ola que siguen en WAVED.
func (uc *UseCase) advanceWaveOrders(ctx context.Context, waveID string) error {
	wave, err := uc.waves.GetByID(ctx, waveID)
	if err != nil || wave == nil {
		return err
	}
	for _, orderID := range wave.OrderIDs {
		uc.orderLocks.Lock(orderID)
		order, err := uc.orders.GetByID(ctx, orderID)
		if err == nil && order != nil && entity.OrderCanTransition(order.Status, entity.OrderStatusPicking) {
			order.Status = entity.OrderStatusPicking
			order.UpdatedAt = time.Now()
			err = uc.orders.Update(ctx, order)
		}
		uc.orderLocks.Unlock(orderID)
		if err != nil {
			return err
		}
	}
	return nil
}

// completeWaveIfDone marca la ola COMPLETED cuando su última tarea cierra.
// Los pedidos siguen en PICKING: el empaque los avanza uno a uno.
func (uc *UseCase) completeWaveIfDone(ctx context.Context, waveID string) error {
	tasks, err := uc.tasks.ListByWave(ctx, waveID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Status != entity.PickTaskStatusCompleted {
			return nil
		}
	}
	wave, err := uc.waves.GetByID(ctx, waveID)
	if err != nil || wave == nil {
		return err
	}
	if wave.Status != entity.WaveStatusReleased {
		return nil
	}
	now := time.Now()
	wave.Status = entity.WaveStatusCompleted
	wave.CompletedAt = &now
	if err := uc.waves.Update(ctx, wave); err != nil {
		return err
	}
	uc.log.Info().Str("ola", wave.ID).Msg("ola completada")
	return nil
}

func (uc *UseCase) buildReleaseResponse(ctx context.Context, wave *entity.Wave) (*dto.ReleaseWaveResponse, error) {
	tasks, err := uc.ListByWave(ctx, wave.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ReleaseWaveResponse{Wave: *waves.ToResponse(wave), Tasks: tasks.Items}, nil
}

func (uc *UseCase) getExisting(ctx context.Context, taskID string) (*entity.PickTask, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("tarea %s: %w", taskID, domain.ErrNotFound)
	}
	return task, nil
}

func toTaskResponse(t *entity.PickTask) *dto.PickTaskResponse {
	out := &dto.PickTaskResponse{
		ID:            t.ID,
		WaveID:        t.WaveID,
		SKU:           t.SKU,
		LocationCode:  t.LocationCode,
		Quantity:      t.Quantity,
		AllocationIDs: t.AllocationIDs,
		Status:        t.Status,
		AssignedTo:    t.AssignedTo,
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Result != nil {
		out.Result = &dto.PickResultResponse{
			PickedQty:   t.Result.PickedQty,
			ShortQty:    t.Result.ShortQty,
			CompletedBy: t.Result.CompletedBy,
			CompletedAt: t.Result.CompletedAt,
		}
	}
	return out
}
