// Package waves agrupa pedidos asignados en olas de picking. La admisión de
// cada pedido corre bajo su candado: dos planes concurrentes nunca admiten
// el mismo pedido dos veces.
package waves

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/pkg/keymutex"
	"github.com/invorya/wms-api/pkg/metrics"
)

// Planner arma olas por criterios o por lista explícita de pedidos.
type Planner struct {
	orders     repository.OrderRepository
	waves      repository.WaveRepository
	orderLocks *keymutex.KeyMutex
	log        zerolog.Logger
}

// NewPlanner construye el planificador de olas.
func NewPlanner(orders repository.OrderRepository, waves repository.WaveRepository, orderLocks *keymutex.KeyMutex, log zerolog.Logger) *Planner {
	return &Planner{orders: orders, waves: waves, orderLocks: orderLocks, log: log}
}

// Plan selecciona pedidos asignados según los criterios y los agrupa en una
// ola PLANNED. La selección es determinista: prioridad descendente, corte
// ascendente, id ascendente; los cupos MaxOrders/MaxLines recortan en ese
// orden (un pedido que no cabe en el cupo de líneas se salta y se sigue con
// el siguiente). Sin pedidos admitidos devuelve ErrEmptySelection.
func (p *Planner) Plan(ctx context.Context, in dto.PlanWaveRequest) (*dto.WaveResponse, error) {
	if in.MaxOrders < 0 || in.MaxLines < 0 || in.PriorityMin < 0 {
		return nil, domain.ErrInvalidInput
	}
	candidates, err := p.orders.ListByStatus(ctx, entity.OrderStatusAllocated, entity.OrderStatusPartiallyAllocated)
	if err != nil {
		return nil, err
	}

	selected := candidates[:0]
	for _, o := range candidates {
		if o.WaveID != "" {
			continue
		}
		if in.Region != "" && o.Destination.Region != in.Region {
			continue
		}
		if o.Priority < in.PriorityMin {
			continue
		}
		if in.CutoffBefore != nil && o.CutoffAt.After(*in.CutoffBefore) {
			continue
		}
		selected = append(selected, o)
	}
	sortForAdmission(selected)

	waveID := uuid.New().String()
	admitted, lineCount, err := p.admit(ctx, selected, waveID, in.MaxOrders, in.MaxLines)
	if err != nil {
		return nil, err
	}
	if len(admitted) == 0 {
		return nil, domain.ErrEmptySelection
	}

	cutoff := time.Time{}
	if in.CutoffBefore != nil {
		cutoff = *in.CutoffBefore
	} else {
		for _, o := range admitted {
			if o.CutoffAt.After(cutoff) {
				cutoff = o.CutoffAt
			}
		}
	}
	wave, err := p.persistWave(ctx, waveID, admitted, lineCount, cutoff)
	if err != nil {
		return nil, err
	}
	metrics.WavesPlanned.Inc()
	p.log.Info().Str("ola", wave.ID).Int("pedidos", len(admitted)).Int("lineas", lineCount).Msg("ola planeada")
	return ToResponse(wave), nil
}

// Create arma una ola manual con los pedidos indicados. A diferencia del
// plan por criterios, un pedido inadmisible hace fallar la ola completa.
func (p *Planner) Create(ctx context.Context, in dto.CreateWaveRequest) (*dto.WaveResponse, error) {
	if len(in.OrderIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	waveID := uuid.New().String()
	var admitted []*entity.Order
	lineCount := 0
	for _, orderID := range in.OrderIDs {
		order, err := p.admitOne(ctx, orderID, waveID, true)
		if err != nil {
			p.revert(ctx, admitted)
			return nil, err
		}
		admitted = append(admitted, order)
		lineCount += order.TotalLines()
	}

	cutoff := time.Time{}
	if in.CutoffAt != nil {
		cutoff = *in.CutoffAt
	} else {
		for _, o := range admitted {
			if o.CutoffAt.After(cutoff) {
				cutoff = o.CutoffAt
			}
		}
	}
	wave, err := p.persistWave(ctx, waveID, admitted, lineCount, cutoff)
	if err != nil {
		return nil, err
	}
	metrics.WavesPlanned.Inc()
	p.log.Info().Str("ola", wave.ID).Int("pedidos", len(admitted)).Msg("ola manual creada")
	return ToResponse(wave), nil
}

// GetByID devuelve una ola.
func (p *Planner) GetByID(ctx context.Context, waveID string) (*dto.WaveResponse, error) {
	wave, err := p.waves.GetByID(ctx, waveID)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, nil
	}
	return ToResponse(wave), nil
}

// List devuelve las olas paginadas, más recientes primero.
func (p *Planner) List(ctx context.Context, page dto.PageRequest) (*dto.WaveListResponse, error) {
	page.DefaultPage()
	waves, err := p.waves.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.WaveListResponse{
		Items: make([]dto.WaveResponse, 0, len(waves)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, w := range waves {
		out.Items = append(out.Items, *ToResponse(w))
	}
	return out, nil
}

// admit recorre los candidatos ya ordenados y los admite uno a uno bajo su
// candado, respetando los cupos. Un candidato que perdió la carrera contra
// otro plan simplemente se salta.
func (p *Planner) admit(ctx context.Context, candidates []*entity.Order, waveID string, maxOrders, maxLines int) ([]*entity.Order, int, error) {
	var admitted []*entity.Order
	lineCount := 0
	for _, candidate := range candidates {
		if maxOrders > 0 && len(admitted) >= maxOrders {
			break
		}
		if maxLines > 0 && lineCount+candidate.TotalLines() > maxLines {
			continue
		}
		order, err := p.admitOne(ctx, candidate.ID, waveID, false)
		if err != nil {
			p.revert(ctx, admitted)
			return nil, 0, err
		}
		if order == nil {
			continue // otro plan lo tomó primero
		}
		admitted = append(admitted, order)
		lineCount += order.TotalLines()
	}
	return admitted, lineCount, nil
}

// admitOne relee el pedido bajo su candado y lo marca WAVED si sigue
// admisible. Con strict la inadmisibilidad es error; sin strict es un salto.
func (p *Planner) admitOne(ctx context.Context, orderID, waveID string, strict bool) (*entity.Order, error) {
	p.orderLocks.Lock(orderID)
	defer p.orderLocks.Unlock(orderID)

	order, err := p.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		if strict {
			return nil, fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, nil
	}
	if order.WaveID != "" || !entity.OrderCanTransition(order.Status, entity.OrderStatusWaved) {
		if strict {
			return nil, fmt.Errorf("pedido %s en estado %s (ola %q) no es admisible: %w",
				orderID, order.Status, order.WaveID, domain.ErrStateConflict)
		}
		return nil, nil
	}
	order.WaveID = waveID
	order.Status = entity.OrderStatusWaved
	order.UpdatedAt = time.Now()
	if err := p.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// revert devuelve pedidos admitidos a su estado previo cuando la ola no
// llegó a persistirse.
func (p *Planner) revert(ctx context.Context, admitted []*entity.Order) {
	for _, order := range admitted {
		p.orderLocks.Lock(order.ID)
		current, err := p.orders.GetByID(ctx, order.ID)
		if err == nil && current != nil && current.Status == entity.OrderStatusWaved {
			current.WaveID = ""
			current.Status = allocationStatus(current)
			current.UpdatedAt = time.Now()
			if err := p.orders.Update(ctx, current); err != nil {
				p.log.Error().Err(err).Str("pedido", order.ID).Msg("no se pudo revertir la admisión")
			}
		}
		p.orderLocks.Unlock(order.ID)
	}
}

func (p *Planner) persistWave(ctx context.Context, waveID string, admitted []*entity.Order, lineCount int, cutoff time.Time) (*entity.Wave, error) {
	orderIDs := make([]string, 0, len(admitted))
	for _, o := range admitted {
		orderIDs = append(orderIDs, o.ID)
	}
	wave := &entity.Wave{
		ID:        waveID,
		Number:    "WV-" + strings.ToUpper(waveID[:8]),
		Status:    entity.WaveStatusPlanned,
		OrderIDs:  orderIDs,
		LineCount: lineCount,
		CutoffAt:  cutoff,
		CreatedAt: time.Now(),
	}
	if err := p.waves.Create(ctx, wave); err != nil {
		p.revert(ctx, admitted)
		return nil, err
	}
	return wave, nil
}

// allocationStatus deriva de las líneas el estado de asignación al que
// vuelve un pedido des-admitido.
func allocationStatus(o *entity.Order) string {
	for _, l := range o.Lines {
		if l.AllocatedQty.LessThan(l.Quantity) {
			return entity.OrderStatusPartiallyAllocated
		}
	}
	return entity.OrderStatusAllocated
}

// sortForAdmission ordena candidatos: prioridad descendente, corte
// ascendente, id ascendente. El empate final por id hace el plan repetible.
func sortForAdmission(orders []*entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CutoffAt.Equal(b.CutoffAt) {
			return a.CutoffAt.Before(b.CutoffAt)
		}
		return a.ID < b.ID
	})
}

// ToResponse mapea la ola a su DTO de salida.
func ToResponse(w *entity.Wave) *dto.WaveResponse {
	return &dto.WaveResponse{
		ID:          w.ID,
		Number:      w.Number,
		Status:      w.Status,
		OrderIDs:    w.OrderIDs,
		LineCount:   w.LineCount,
		CutoffAt:    w.CutoffAt,
		CreatedAt:   w.CreatedAt,
		ReleasedAt:  w.ReleasedAt,
		CompletedAt: w.CompletedAt,
	}
}
