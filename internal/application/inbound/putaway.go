package inbound

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/pkg/metrics"
)

// assignDestination elige la ubicación de destino para una cantidad recibida:
// primero un pick-face que ya tenga el SKU y cupo, después cualquier BULK con
// cupo. El cupo descuenta tanto lo almacenado como lo que ya viaja hacia la
// ubicación en tareas pendientes. Sin candidatas devuelve ErrNoCapacity.
func (uc *UseCase) assignDestination(ctx context.Context, sku string, qty decimal.Decimal) (*entity.Location, error) {
	inbound, err := uc.pendingInboundByLocation(ctx)
	if err != nil {
		return nil, err
	}

	picks, err := uc.locations.ListByType(ctx, entity.LocationTypePick)
	if err != nil {
		return nil, err
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i].Code < picks[j].Code })
	for _, loc := range picks {
		if !loc.EsAlmacenable() {
			continue
		}
		holds, err := uc.holdsSKU(ctx, loc.ID, sku)
		if err != nil {
			return nil, err
		}
		if !holds {
			continue
		}
		ok, err := uc.hasRoom(ctx, loc, qty, inbound[loc.ID])
		if err != nil {
			return nil, err
		}
		if ok {
			return loc, nil
		}
	}

	bulks, err := uc.locations.ListByType(ctx, entity.LocationTypeBulk)
	if err != nil {
		return nil, err
	}
	sort.Slice(bulks, func(i, j int) bool { return bulks[i].Code < bulks[j].Code })
	for _, loc := range bulks {
		if !loc.EsAlmacenable() {
			continue
		}
		ok, err := uc.hasRoom(ctx, loc, qty, inbound[loc.ID])
		if err != nil {
			return nil, err
		}
		if ok {
			return loc, nil
		}
	}
	return nil, fmt.Errorf("sin ubicación con cupo para %s unidades de %s: %w",
		qty.String(), sku, domain.ErrNoCapacity)
}

// pendingInboundByLocation agrega la cantidad en tareas pendientes por
// ubicación de destino, para no sobre-asignar cupo.
func (uc *UseCase) pendingInboundByLocation(ctx context.Context) (map[string]decimal.Decimal, error) {
	tasks, err := uc.putaways.ListByStatus(ctx, entity.PutAwayStatusPending)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(tasks))
	for _, t := range tasks {
		out[t.ToLocationID] = out[t.ToLocationID].Add(t.Quantity)
	}
	return out, nil
}

func (uc *UseCase) holdsSKU(ctx context.Context, locationID, sku string) (bool, error) {
	records, err := uc.records.ListByLocation(ctx, locationID)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (uc *UseCase) hasRoom(ctx context.Context, loc *entity.Location, qty, inbound decimal.Decimal) (bool, error) {
	if loc.Capacity.IsZero() {
		return true, nil
	}
	records, err := uc.records.ListByLocation(ctx, loc.ID)
	if err != nil {
		return false, err
	}
	occupied := inbound
	for _, r := range records {
		occupied = occupied.Add(r.OnHand)
	}
	return occupied.Add(qty).LessThanOrEqual(loc.Capacity), nil
}

// CompletePutAway confirma el traslado: recién acá las unidades entran al
// ledger, en la ubicación de destino y con su lote. Completar dos veces la
// misma tarea devuelve conflicto de estado.
func (uc *UseCase) CompletePutAway(ctx context.Context, taskID, actor string) (*dto.PutAwayTaskResponse, error) {
	task, err := uc.putaways.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("tarea de put-away %s: %w", taskID, domain.ErrNotFound)
	}
	if task.Status != entity.PutAwayStatusPending {
		return nil, fmt.Errorf("tarea %s en estado %s: %w", task.ID, task.Status, domain.ErrStateConflict)
	}

	err = uc.ledger.Enter(ctx, appinv.EntryInput{
		SKU:          task.SKU,
		LocationCode: task.ToLocationCode,
		LotCode:      task.LotCode,
		ExpiryDate:   task.ExpiryDate,
		Quantity:     task.Quantity,
		Reason:       "put-away",
		Reference:    task.ReceiptID,
		Actor:        actor,
	})
	if err != nil {
		return nil, fmt.Errorf("entrada de put-away %s: %w", task.ID, err)
	}

	now := time.Now()
	task.Status = entity.PutAwayStatusCompleted
	task.CompletedAt = &now
	task.CompletedBy = actor
	if err := uc.putaways.Update(ctx, task); err != nil {
		return nil, err
	}
	metrics.PutAwaysCompleted.Inc()
	uc.log.Info().Str("tarea", task.ID).Str("sku", task.SKU).
		Str("destino", task.ToLocationCode).Msg("put-away completado")
	return toPutAwayResponse(task), nil
}

// GetPutAwayTask devuelve una tarea de put-away.
func (uc *UseCase) GetPutAwayTask(ctx context.Context, id string) (*dto.PutAwayTaskResponse, error) {
	task, err := uc.putaways.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return toPutAwayResponse(task), nil
}

// ListPutAwayTasks filtra por recepción o por estados; sin filtros devuelve
// las pendientes.
func (uc *UseCase) ListPutAwayTasks(ctx context.Context, receiptID string, statuses ...string) (*dto.PutAwayTaskListResponse, error) {
	var (
		tasks []*entity.PutAwayTask
		err   error
	)
	switch {
	case receiptID != "":
		tasks, err = uc.putaways.ListByReceipt(ctx, receiptID)
	case len(statuses) > 0:
		tasks, err = uc.putaways.ListByStatus(ctx, statuses...)
	default:
		tasks, err = uc.putaways.ListByStatus(ctx, entity.PutAwayStatusPending)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.PutAwayTaskListResponse{Items: make([]dto.PutAwayTaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		out.Items = append(out.Items, *toPutAwayResponse(t))
	}
	return out, nil
}

func toPutAwayResponse(t *entity.PutAwayTask) *dto.PutAwayTaskResponse {
	return &dto.PutAwayTaskResponse{
		ID:             t.ID,
		ReceiptID:      t.ReceiptID,
		SKU:            t.SKU,
		LotCode:        t.LotCode,
		ExpiryDate:     t.ExpiryDate,
		Quantity:       t.Quantity,
		ToLocationCode: t.ToLocationCode,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		CompletedAt:    t.CompletedAt,
		CompletedBy:    t.CompletedBy,
	}
}
