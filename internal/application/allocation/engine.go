// Package allocation orquesta la reserva de inventario por pedido: recorre
// las líneas, delega en el ledger la reserva FEFO por SKU y garantiza
// todo-o-nada a nivel de pedido con liberaciones compensatorias.
package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/keymutex"
	"github.com/invorya/wms-api/pkg/metrics"
)

// Engine asigna inventario a pedidos validados y deshace pedidos completos.
// Comparte el candado por pedido con el planificador de olas para que una
// cancelación y una admisión no se crucen.
type Engine struct {
	orders       repository.OrderRepository
	allocations  repository.AllocationRepository
	waves        repository.WaveRepository
	pickTasks    repository.PickTaskRepository
	ledger       *appinv.LedgerUseCase
	orderLocks   *keymutex.KeyMutex
	allowPartial bool
	log          zerolog.Logger
}

// NewEngine construye el motor de asignación. allowPartial habilita pedidos
// parcialmente asignados cuando el disponible no alcanza.
func NewEngine(
	orders repository.OrderRepository,
	allocations repository.AllocationRepository,
	waves repository.WaveRepository,
	pickTasks repository.PickTaskRepository,
	ledger *appinv.LedgerUseCase,
	orderLocks *keymutex.KeyMutex,
	allowPartial bool,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		orders:       orders,
		allocations:  allocations,
		waves:        waves,
		pickTasks:    pickTasks,
		ledger:       ledger,
		orderLocks:   orderLocks,
		allowPartial: allowPartial,
		log:          log,
	}
}

// AllocateOrder reserva inventario para cada línea pendiente del pedido en
// orden FEFO. Si una línea no puede reservar nada, libera lo reservado en
// esta llamada y el pedido queda como estaba. Repetir la llamada sobre un
// pedido ya asignado no duplica reservas.
func (e *Engine) AllocateOrder(ctx context.Context, orderID string) (*dto.AllocateOrderResponse, error) {
	e.orderLocks.Lock(orderID)
	defer e.orderLocks.Unlock(orderID)

	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
	}
	switch order.Status {
	case entity.OrderStatusValidated, entity.OrderStatusPartiallyAllocated:
	case entity.OrderStatusAllocated:
		return e.buildResponse(ctx, order)
	default:
		return nil, fmt.Errorf("pedido %s en estado %s no admite asignación: %w",
			orderID, order.Status, domain.ErrStateConflict)
	}

	var created []*entity.Allocation
	complete := true
	for i := range order.Lines {
		line := &order.Lines[i]
		missing := line.Quantity.Sub(line.AllocatedQty)
		if !missing.IsPositive() {
			continue
		}
		res, err := e.ledger.Reserve(ctx, appinv.ReserveInput{
			OrderID:      order.ID,
			Reference:    order.Reference,
			SKU:          line.SKU,
			Quantity:     missing,
			AllowPartial: e.allowPartial,
		})
		if err != nil {
			e.unwind(ctx, created, order.Reference)
			metrics.AllocationFailures.Inc()
			return nil, err
		}
		if !res.Reserved.IsPositive() {
			// ni una unidad para esta línea: el pedido completo se revierte
			e.unwind(ctx, created, order.Reference)
			metrics.AllocationFailures.Inc()
			return nil, fmt.Errorf("SKU %s: faltan %s: %w", line.SKU, res.Remainder, domain.ErrInsufficientStock)
		}
		created = append(created, res.Allocations...)
		line.AllocatedQty = line.AllocatedQty.Add(res.Reserved)
		if res.Remainder.IsPositive() {
			complete = false
		}
	}

	next := entity.OrderStatusAllocated
	if !complete {
		next = entity.OrderStatusPartiallyAllocated
	}
	if order.Status != next {
		if !entity.OrderCanTransition(order.Status, next) {
			e.unwind(ctx, created, order.Reference)
			return nil, fmt.Errorf("pedido %s: %s → %s: %w", order.ID, order.Status, next, domain.ErrStateConflict)
		}
		order.Status = next
	}
	order.UpdatedAt = time.Now()
	if err := e.orders.Update(ctx, order); err != nil {
		e.unwind(ctx, created, order.Reference)
		return nil, err
	}

	metrics.OrdersAllocated.Inc()
	e.log.Info().Str("pedido", order.ID).Str("estado", order.Status).
		Int("reservas_nuevas", len(created)).Msg("pedido asignado")
	return e.buildResponse(ctx, order)
}

// CancelOrder cancela un pedido liberando todas sus reservas y sacándolo de
// su ola. Se rechaza cuando el picking ya arrancó sobre sus reservas o el
// pedido está en un estado terminal.
func (e *Engine) CancelOrder(ctx context.Context, orderID, reason, actor string) (*dto.OrderResponse, error) {
	e.orderLocks.Lock(orderID)
	defer e.orderLocks.Unlock(orderID)

	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
	}
	if !entity.OrderCanTransition(order.Status, entity.OrderStatusCancelled) {
		return nil, fmt.Errorf("pedido %s en estado %s no se puede cancelar: %w",
			orderID, order.Status, domain.ErrStateConflict)
	}

	allocs, err := e.allocations.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(allocs))
	for _, a := range allocs {
		owned[a.ID] = true
	}

	if order.WaveID != "" {
		if err := e.detachFromWave(ctx, order, owned, actor); err != nil {
			return nil, err
		}
	}

	for _, alloc := range allocs {
		if err := e.ledger.ReleaseAllocation(ctx, alloc.ID, alloc.Quantity, actor, order.Reference); err != nil {
			return nil, fmt.Errorf("liberando reserva %s: %w", alloc.ID, err)
		}
	}
	for i := range order.Lines {
		order.Lines[i].AllocatedQty = decimal.Zero
	}

	order.Status = entity.OrderStatusCancelled
	order.WaveID = ""
	order.UpdatedAt = time.Now()
	if err := e.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	e.log.Info().Str("pedido", order.ID).Str("motivo", reason).Msg("pedido cancelado")
	return orders.ToResponse(order), nil
}

// detachFromWave saca al pedido de su ola: rechaza si alguna tarea que cubre
// sus reservas ya está en curso o completada, encoge las tareas aún no
// iniciadas y ajusta la membresía de la ola.
func (e *Engine) detachFromWave(ctx context.Context, order *entity.Order, owned map[string]bool, actor string) error {
	tasks, err := e.pickTasks.ListByWave(ctx, order.WaveID)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if !coversAny(task, owned) {
			continue
		}
		if task.Status == entity.PickTaskStatusInProgress || task.Status == entity.PickTaskStatusCompleted {
			return fmt.Errorf("el picking del pedido %s ya arrancó (tarea %s): %w",
				order.ID, task.ID, domain.ErrStateConflict)
		}
	}

	// segunda pasada: encoger las tareas pendientes que cubrían al pedido
	for _, task := range tasks {
		if !coversAny(task, owned) {
			continue
		}
		kept := task.AllocationIDs[:0]
		removed := decimal.Zero
		for _, id := range task.AllocationIDs {
			if owned[id] {
				if alloc, err := e.allocations.GetByID(ctx, id); err == nil && alloc != nil {
					removed = removed.Add(alloc.Quantity)
				}
				continue
			}
			kept = append(kept, id)
		}
		task.AllocationIDs = kept
		task.Quantity = task.Quantity.Sub(removed)
		if !task.Quantity.IsPositive() {
			// tarea vaciada por la cancelación: se cierra con resultado cero
			now := time.Now()
			task.Status = entity.PickTaskStatusCompleted
			task.Result = &entity.PickResult{
				PickedQty: decimal.Zero, ShortQty: decimal.Zero,
				CompletedBy: actor, CompletedAt: now,
			}
		}
		task.UpdatedAt = time.Now()
		if err := e.pickTasks.UpdateVersioned(ctx, task); err != nil {
			return err
		}
	}

	wave, err := e.waves.GetByID(ctx, order.WaveID)
	if err != nil {
		return err
	}
	if wave == nil {
		return nil
	}
	members := wave.OrderIDs[:0]
	for _, id := range wave.OrderIDs {
		if id != order.ID {
			members = append(members, id)
		}
	}
	wave.OrderIDs = members
	wave.LineCount -= order.TotalLines()
	if wave.LineCount < 0 {
		wave.LineCount = 0
	}
	return e.waves.Update(ctx, wave)
}

// unwind libera las reservas creadas en una llamada de asignación fallida.
func (e *Engine) unwind(ctx context.Context, created []*entity.Allocation, reference string) {
	for _, alloc := range created {
		if err := e.ledger.ReleaseAllocation(ctx, alloc.ID, alloc.Quantity, "sistema", reference); err != nil {
			e.log.Error().Err(err).Str("reserva", alloc.ID).Msg("no se pudo liberar una reserva compensatoria")
		}
	}
}

func coversAny(task *entity.PickTask, owned map[string]bool) bool {
	for _, id := range task.AllocationIDs {
		if owned[id] {
			return true
		}
	}
	return false
}

func (e *Engine) buildResponse(ctx context.Context, order *entity.Order) (*dto.AllocateOrderResponse, error) {
	allocs, err := e.allocations.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.AllocateOrderResponse{Order: *orders.ToResponse(order)}
	for _, a := range allocs {
		out.Allocations = append(out.Allocations, toAllocationResponse(a))
	}
	return out, nil
}

func toAllocationResponse(a *entity.Allocation) dto.AllocationResponse {
	return dto.AllocationResponse{
		ID:           a.ID,
		OrderID:      a.OrderID,
		SKU:          a.SKU,
		LocationCode: a.LocationCode,
		LotCode:      a.LotCode,
		Quantity:     a.Quantity,
		CreatedAt:    a.CreatedAt,
	}
}
