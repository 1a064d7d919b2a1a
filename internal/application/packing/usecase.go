// Package packing cierra la etapa de empaque: lista de empaque en PDF y el
// paso del pedido a PACKED, con el cierre de la ola cuando todos sus pedidos
// quedaron empacados.
package packing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// SlipGenerator produce la lista de empaque en PDF. El adaptador concreto
// vive en infrastructure/pdf.
type SlipGenerator interface {
	PackingSlip(order *entity.Order) ([]byte, error)
}

// UseCase casos de uso de empaque.
type UseCase struct {
	orders   repository.OrderRepository
	waves    repository.WaveRepository
	ordersUC *orders.UseCase
	slips    SlipGenerator
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso de empaque.
func NewUseCase(
	orderRepo repository.OrderRepository,
	waves repository.WaveRepository,
	ordersUC *orders.UseCase,
	slips SlipGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{orders: orderRepo, waves: waves, ordersUC: ordersUC, slips: slips, log: log}
}

// PackingSlip genera la lista de empaque del pedido. Exige que el picking
// haya empezado: antes no hay contenido confirmado que listar.
func (uc *UseCase) PackingSlip(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.getExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.OrderStatusPicking, entity.OrderStatusPacked,
		entity.OrderStatusShipped, entity.OrderStatusClosed:
		return uc.slips.PackingSlip(order)
	default:
		return nil, fmt.Errorf("pedido %s en estado %s, sin contenido confirmado: %w",
			order.Reference, order.Status, domain.ErrStateConflict)
	}
}

// CompletePacking marca el pedido como empacado una vez todo su picking
// quedó resuelto, y cierra la ola cuando fue el último pedido pendiente.
func (uc *UseCase) CompletePacking(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.getExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPicking {
		return nil, fmt.Errorf("pedido %s en estado %s: %w", order.Reference, order.Status, domain.ErrStateConflict)
	}
	for _, l := range order.Lines {
		if l.PickedQty.Add(l.ShortQty).LessThan(l.AllocatedQty) {
			return nil, fmt.Errorf("línea %s del pedido %s con picking pendiente: %w",
				l.SKU, order.Reference, domain.ErrStateConflict)
		}
	}
	if err := uc.ordersUC.MarkPacked(ctx, orderID); err != nil {
		return nil, err
	}
	if order.WaveID != "" {
		if err := uc.closeWaveIfAllPacked(ctx, order.WaveID); err != nil {
			uc.log.Error().Err(err).Str("ola", order.WaveID).Msg("no se pudo evaluar el cierre de la ola")
		}
	}
	uc.log.Info().Str("pedido", order.Reference).Msg("pedido empacado")

	packed, err := uc.getExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return orders.ToResponse(packed), nil
}

// closeWaveIfAllPacked cierra la ola completada cuando todos sus pedidos ya
// están empacados o más adelante en el flujo.
func (uc *UseCase) closeWaveIfAllPacked(ctx context.Context, waveID string) error {
	wave, err := uc.waves.GetByID(ctx, waveID)
	if err != nil || wave == nil {
		return err
	}
	if wave.Status != entity.WaveStatusCompleted {
		return nil
	}
	for _, id := range wave.OrderIDs {
		member, err := uc.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if member == nil {
			continue
		}
		switch member.Status {
		case entity.OrderStatusPacked, entity.OrderStatusShipped, entity.OrderStatusClosed:
		default:
			return nil
		}
	}
	wave.Status = entity.WaveStatusClosed
	if err := uc.waves.Update(ctx, wave); err != nil {
		return err
	}
	uc.log.Info().Str("ola", wave.Number).Msg("ola cerrada")
	return nil
}

func (uc *UseCase) getExisting(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}
