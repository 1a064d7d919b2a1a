package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	invdomain "github.com/invorya/wms-api/internal/domain/inventory"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/keymutex"
)

// LedgerUseCase es la única puerta de mutación del inventario: entradas,
// ajustes, reservas FEFO, commits y liberaciones. Toda sección
// leer-decidir-escribir corre bajo el candado del SKU, así dos reservas
// concurrentes nunca sobre-comprometen una posición.
type LedgerUseCase struct {
	records     repository.InventoryRecordRepository
	allocations repository.AllocationRepository
	movements   repository.StockMovementRepository
	lots        repository.LotRepository
	locations   repository.LocationRepository
	putaways    repository.PutAwayTaskRepository
	locks       *keymutex.KeyMutex
	log         zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(
	records repository.InventoryRecordRepository,
	allocations repository.AllocationRepository,
	movements repository.StockMovementRepository,
	lots repository.LotRepository,
	locations repository.LocationRepository,
	putaways repository.PutAwayTaskRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		records:     records,
		allocations: allocations,
		movements:   movements,
		lots:        lots,
		locations:   locations,
		putaways:    putaways,
		locks:       keymutex.New(),
		log:         log,
	}
}

// EntryInput describe una entrada física de existencia (put-away de una
// recepción o devolución con disposición RESTOCK).
type EntryInput struct {
	SKU          string
	LocationCode string
	LotCode      string
	ExpiryDate   *time.Time
	Quantity     decimal.Decimal // estrictamente positiva
	Reason       string
	Reference    string
	Actor        string
}

// ReserveInput describe una petición de reserva FEFO contra un SKU.
type ReserveInput struct {
	OrderID          string
	Reference        string
	SKU              string
	Quantity         decimal.Decimal
	ExcludeLocations []string // códigos de ubicación vetados
	AllowPartial     bool
}

// ReserveResult es el resultado de una reserva: las reservas creadas y el
// faltante cuando la política parcial lo permite.
type ReserveResult struct {
	Allocations []*entity.Allocation
	Reserved    decimal.Decimal
	Remainder   decimal.Decimal
}

// Enter registra una entrada física de existencia en una posición,
// creando el lote y el registro si no existen. Movimiento IN en la
// auditoría.
func (uc *LedgerUseCase) Enter(ctx context.Context, in EntryInput) error {
	if in.SKU == "" || in.LocationCode == "" || !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	uc.locks.Lock(in.SKU)
	defer uc.locks.Unlock(in.SKU)

	loc, err := uc.locations.GetByCode(ctx, in.LocationCode)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("ubicación %s: %w", in.LocationCode, domain.ErrNotFound)
	}

	lot, err := uc.ensureLot(ctx, in.SKU, in.LotCode, in.ExpiryDate)
	if err != nil {
		return err
	}

	rec, err := uc.records.Find(ctx, in.SKU, loc.ID, lotID(lot))
	if err != nil {
		return err
	}
	now := time.Now()
	if rec == nil {
		rec = &entity.InventoryRecord{
			ID:           uuid.New().String(),
			SKU:          in.SKU,
			LocationID:   loc.ID,
			LocationCode: loc.Code,
			LotID:        lotID(lot),
			LotCode:      lotCode(lot),
			ExpiryDate:   lotExpiry(lot),
			ReceivedAt:   now,
			OnHand:       in.Quantity,
			Allocated:    decimal.Zero,
			UpdatedAt:    now,
		}
		if err := uc.records.Create(ctx, rec); err != nil {
			return err
		}
	} else {
		rec.OnHand = rec.OnHand.Add(in.Quantity)
		rec.UpdatedAt = now
		if err := uc.records.Update(ctx, rec); err != nil {
			return err
		}
	}
	return uc.appendMovement(ctx, rec, entity.MovementTypeIN, in.Quantity, in.Reason, in.Reference, in.Actor)
}

// Adjust aplica un ajuste manual con signo sobre una posición. Rechaza con
// ErrNegativeStock cualquier resultado que deje la existencia por debajo de
// cero o de lo ya reservado. Movimiento ADJUSTMENT en la auditoría.
func (uc *LedgerUseCase) Adjust(ctx context.Context, actor string, in dto.AdjustStockRequest) (*dto.AvailabilityResponse, error) {
	if in.SKU == "" || in.LocationCode == "" || in.Reason == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	uc.locks.Lock(in.SKU)
	err := func() error {
		defer uc.locks.Unlock(in.SKU)

		loc, err := uc.locations.GetByCode(ctx, in.LocationCode)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("ubicación %s: %w", in.LocationCode, domain.ErrNotFound)
		}

		var lot *entity.Lot
		if in.Quantity.IsPositive() {
			lot, err = uc.ensureLot(ctx, in.SKU, in.LotCode, in.ExpiryDate)
		} else if in.LotCode != "" {
			lot, err = uc.lots.GetBySKUAndCode(ctx, in.SKU, in.LotCode)
			if err == nil && lot == nil {
				err = fmt.Errorf("lote %s: %w", in.LotCode, domain.ErrNotFound)
			}
		}
		if err != nil {
			return err
		}

		rec, err := uc.records.Find(ctx, in.SKU, loc.ID, lotID(lot))
		if err != nil {
			return err
		}
		now := time.Now()
		if rec == nil {
			if in.Quantity.IsNegative() {
				return fmt.Errorf("SKU %s sin existencia en %s: %w", in.SKU, in.LocationCode, domain.ErrNegativeStock)
			}
			rec = &entity.InventoryRecord{
				ID:           uuid.New().String(),
				SKU:          in.SKU,
				LocationID:   loc.ID,
				LocationCode: loc.Code,
				LotID:        lotID(lot),
				LotCode:      lotCode(lot),
				ExpiryDate:   lotExpiry(lot),
				ReceivedAt:   now,
				OnHand:       in.Quantity,
				Allocated:    decimal.Zero,
				UpdatedAt:    now,
			}
			if err := uc.records.Create(ctx, rec); err != nil {
				return err
			}
		} else {
			next := rec.OnHand.Add(in.Quantity)
			if next.LessThan(rec.Allocated) || next.IsNegative() {
				return fmt.Errorf("ajuste de %s en %s dejaría %s con %s reservado: %w",
					in.Quantity, in.LocationCode, next, rec.Allocated, domain.ErrNegativeStock)
			}
			rec.OnHand = next
			rec.UpdatedAt = now
			if err := uc.records.Update(ctx, rec); err != nil {
				return err
			}
		}
		return uc.appendMovement(ctx, rec, entity.MovementTypeADJUSTMENT, in.Quantity, in.Reason, in.Reference, actor)
	}()
	if err != nil {
		return nil, err
	}
	return uc.Availability(ctx, in.SKU)
}

// Reserve compromete existencia de un SKU en orden FEFO: vence primero,
// sale primero; sin vencimiento al final. Crea una reserva por posición
// tocada. Todo-o-nada salvo que AllowPartial permita devolver faltante;
// una petición que no alcanza ni una unidad falla siempre.
func (uc *LedgerUseCase) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	if in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	uc.locks.Lock(in.SKU)
	defer uc.locks.Unlock(in.SKU)

	records, err := uc.records.ListBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if len(in.ExcludeLocations) > 0 {
		excluded := make(map[string]bool, len(in.ExcludeLocations))
		for _, code := range in.ExcludeLocations {
			excluded[code] = true
		}
		kept := records[:0]
		for _, rec := range records {
			if !excluded[rec.LocationCode] {
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	plan, remainder, err := invdomain.PlanReservation(records, in.Quantity, in.AllowPartial)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, fmt.Errorf("SKU %s: faltan %s: %w", in.SKU, remainder, domain.ErrInsufficientStock)
		}
		return nil, err
	}

	result := &ReserveResult{Remainder: remainder, Reserved: in.Quantity.Sub(remainder)}
	now := time.Now()
	for i, take := range plan {
		take.Record.Allocated = take.Record.Allocated.Add(take.Qty)
		take.Record.UpdatedAt = now
		if err := uc.records.Update(ctx, take.Record); err != nil {
			uc.unwind(ctx, plan[:i])
			return nil, err
		}
		alloc := &entity.Allocation{
			ID:           uuid.New().String(),
			OrderID:      in.OrderID,
			SKU:          in.SKU,
			RecordID:     take.Record.ID,
			LocationID:   take.Record.LocationID,
			LocationCode: take.Record.LocationCode,
			LotID:        take.Record.LotID,
			LotCode:      take.Record.LotCode,
			Quantity:     take.Qty,
			CreatedAt:    now,
		}
		if err := uc.allocations.Create(ctx, alloc); err != nil {
			take.Record.Allocated = take.Record.Allocated.Sub(take.Qty)
			_ = uc.records.Update(ctx, take.Record)
			uc.unwind(ctx, plan[:i])
			return nil, err
		}
		result.Allocations = append(result.Allocations, alloc)
		if err := uc.appendMovement(ctx, take.Record, entity.MovementTypeRESERVE, take.Qty, "reserva de pedido", in.Reference, in.OrderID); err != nil {
			uc.log.Warn().Err(err).Str("sku", in.SKU).Msg("no se pudo registrar el movimiento de reserva")
		}
	}
	return result, nil
}

// unwind revierte las posiciones ya comprometidas de un plan a medio aplicar.
func (uc *LedgerUseCase) unwind(ctx context.Context, applied []invdomain.Take) {
	for _, take := range applied {
		take.Record.Allocated = take.Record.Allocated.Sub(take.Qty)
		if err := uc.records.Update(ctx, take.Record); err != nil {
			uc.log.Error().Err(err).Str("record_id", take.Record.ID).Msg("no se pudo revertir una reserva parcial")
		}
	}
}

// AllocateStock expone la reserva FEFO como operación directa sobre un SKU,
// por fuera del flujo de pedidos. La referencia del movimiento es el propio
// pedido externo.
func (uc *LedgerUseCase) AllocateStock(ctx context.Context, in dto.AllocateStockRequest) (*dto.AllocateStockResponse, error) {
	if in.SKU == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.Reserve(ctx, ReserveInput{
		OrderID:          in.OrderID,
		Reference:        in.OrderID,
		SKU:              in.SKU,
		Quantity:         in.Quantity,
		ExcludeLocations: in.ExcludeLocations,
		AllowPartial:     in.AllowPartial,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.AllocateStockResponse{Reserved: res.Reserved, Remainder: res.Remainder}
	for _, a := range res.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationResponse{
			ID:           a.ID,
			OrderID:      a.OrderID,
			SKU:          a.SKU,
			LocationCode: a.LocationCode,
			LotCode:      a.LotCode,
			Quantity:     a.Quantity,
			CreatedAt:    a.CreatedAt,
		})
	}
	return out, nil
}

// CommitAllocation consume qty unidades de una reserva: baja existencia y
// reservado a la vez, registra movimiento OUT y elimina la reserva cuando
// queda en cero. qty mayor al pendiente de la reserva es inválido.
func (uc *LedgerUseCase) CommitAllocation(ctx context.Context, allocationID string, qty decimal.Decimal, actor, reference string) error {
	return uc.settleAllocation(ctx, allocationID, qty, actor, reference, true)
}

// ReleaseAllocation devuelve qty unidades de una reserva al disponible sin
// mover existencia. Movimiento RELEASE en la auditoría.
func (uc *LedgerUseCase) ReleaseAllocation(ctx context.Context, allocationID string, qty decimal.Decimal, actor, reference string) error {
	return uc.settleAllocation(ctx, allocationID, qty, actor, reference, false)
}

func (uc *LedgerUseCase) settleAllocation(ctx context.Context, allocationID string, qty decimal.Decimal, actor, reference string, commit bool) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	alloc, err := uc.allocations.GetByID(ctx, allocationID)
	if err != nil {
		return err
	}
	if alloc == nil {
		return fmt.Errorf("reserva %s: %w", allocationID, domain.ErrNotFound)
	}
	if qty.GreaterThan(alloc.Quantity) {
		return fmt.Errorf("qty %s excede el pendiente %s de la reserva: %w", qty, alloc.Quantity, domain.ErrInvalidInput)
	}

	uc.locks.Lock(alloc.SKU)
	defer uc.locks.Unlock(alloc.SKU)

	rec, err := uc.records.GetByID(ctx, alloc.RecordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("registro %s de la reserva: %w", alloc.RecordID, domain.ErrNotFound)
	}
	if rec.Allocated.LessThan(qty) || (commit && rec.OnHand.LessThan(qty)) {
		return fmt.Errorf("posición %s inconsistente con la reserva: %w", rec.ID, domain.ErrNegativeStock)
	}

	rec.Allocated = rec.Allocated.Sub(qty)
	movType := entity.MovementTypeRELEASE
	movQty := qty
	if commit {
		rec.OnHand = rec.OnHand.Sub(qty)
		movType = entity.MovementTypeOUT
		movQty = qty.Neg()
	}
	rec.UpdatedAt = time.Now()
	if err := uc.records.Update(ctx, rec); err != nil {
		return err
	}

	alloc.Quantity = alloc.Quantity.Sub(qty)
	if alloc.Quantity.IsZero() {
		err = uc.allocations.Remove(ctx, alloc.ID)
	} else {
		err = uc.allocations.Update(ctx, alloc)
	}
	if err != nil {
		return err
	}

	reason := "liberación de reserva"
	if commit {
		reason = "salida por picking"
	}
	return uc.appendMovement(ctx, rec, movType, movQty, reason, reference, actor)
}

// Availability agrega la disponibilidad de un SKU: existencia, reservado,
// disponible y en tránsito (put-away pendiente), con desglose FEFO por
// posición.
func (uc *LedgerUseCase) Availability(ctx context.Context, sku string) (*dto.AvailabilityResponse, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	records, err := uc.records.ListBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	invdomain.SortFEFO(records)
	onHand, allocated, available := invdomain.Totals(records)

	pending, err := uc.putaways.ListPendingBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	inTransit := decimal.Zero
	for _, task := range pending {
		inTransit = inTransit.Add(task.Quantity)
	}

	out := &dto.AvailabilityResponse{
		SKU:       sku,
		OnHand:    onHand,
		Allocated: allocated,
		Available: available,
		InTransit: inTransit,
		Positions: make([]dto.PositionResponse, 0, len(records)),
	}
	for _, rec := range records {
		out.Positions = append(out.Positions, dto.PositionResponse{
			RecordID:     rec.ID,
			LocationCode: rec.LocationCode,
			LotCode:      rec.LotCode,
			ExpiryDate:   rec.ExpiryDate,
			OnHand:       rec.OnHand,
			Allocated:    rec.Allocated,
			Available:    rec.Available(),
		})
	}
	return out, nil
}

// Movements devuelve el historial de movimientos de un SKU, más reciente
// primero.
func (uc *LedgerUseCase) Movements(ctx context.Context, sku string, limit, offset int) (*dto.MovementListResponse, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.movements.ListBySKU(ctx, sku, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, m := range movements {
		out.Items = append(out.Items, dto.MovementResponse{
			ID:           m.ID,
			SKU:          m.SKU,
			LocationCode: m.LocationCode,
			LotCode:      m.LotCode,
			Type:         m.Type,
			Quantity:     m.Quantity,
			Reason:       m.Reason,
			Reference:    m.Reference,
			Actor:        m.Actor,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out, nil
}

// ensureLot resuelve el lote por código creándolo si hace falta; código
// vacío significa existencia sin lote.
func (uc *LedgerUseCase) ensureLot(ctx context.Context, sku, code string, expiry *time.Time) (*entity.Lot, error) {
	if code == "" {
		return nil, nil
	}
	lot, err := uc.lots.GetBySKUAndCode(ctx, sku, code)
	if err != nil || lot != nil {
		return lot, err
	}
	now := time.Now()
	lot = &entity.Lot{
		ID:         uuid.New().String(),
		SKU:        sku,
		Code:       code,
		ExpiryDate: expiry,
		ReceivedAt: now,
		CreatedAt:  now,
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

func (uc *LedgerUseCase) appendMovement(ctx context.Context, rec *entity.InventoryRecord, movType string, qty decimal.Decimal, reason, reference, actor string) error {
	return uc.movements.Create(ctx, &entity.StockMovement{
		ID:           uuid.New().String(),
		SKU:          rec.SKU,
		LocationCode: rec.LocationCode,
		LotCode:      rec.LotCode,
		Type:         movType,
		Quantity:     qty,
		Reason:       reason,
		Reference:    reference,
		Actor:        actor,
		CreatedAt:    time.Now(),
	})
}

func lotID(lot *entity.Lot) string {
	if lot == nil {
		return ""
	}
	return lot.ID
}

func lotCode(lot *entity.Lot) string {
	if lot == nil {
		return ""
	}
	return lot.Code
}

func lotExpiry(lot *entity.Lot) *time.Time {
	if lot == nil {
		return nil
	}
	return lot.ExpiryDate
}
