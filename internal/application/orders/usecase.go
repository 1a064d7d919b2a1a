// Package orders administra el ciclo de vida del pedido de salida: alta,
// validación contra el catálogo y los avances de estado que disparan los
// demás módulos del motor.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// UseCase casos de uso del pedido. Las transiciones pasan todas por la
// tabla de transiciones de la entidad: un salto ilegal es ErrStateConflict
// y el pedido no cambia.
type UseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(orders repository.OrderRepository, products repository.ProductRepository, log zerolog.Logger) *UseCase {
	return &UseCase{orders: orders, products: products, log: log}
}

// Create registra un pedido en estado CREATED. Sin corte explícito se asume
// despacho dentro de las próximas 24 horas.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.Reference == "" || len(in.Lines) == 0 || in.Destination.Region == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority < 0 || in.Priority > 100 || in.SLADeliveryDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	cutoff := in.CutoffAt
	if cutoff.IsZero() {
		cutoff = now.Add(24 * time.Hour)
	}
	order := &entity.Order{
		ID:              uuid.New().String(),
		Reference:       in.Reference,
		Status:          entity.OrderStatusCreated,
		Priority:        in.Priority,
		CutoffAt:        cutoff,
		SLADeliveryDays: in.SLADeliveryDays,
		Destination: entity.Destination{
			Name:       in.Destination.Name,
			Address:    in.Destination.Address,
			City:       in.Destination.City,
			Region:     in.Destination.Region,
			PostalCode: in.Destination.PostalCode,
			Country:    in.Destination.Country,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range in.Lines {
		order.Lines = append(order.Lines, entity.OrderLine{SKU: l.SKU, Quantity: l.Quantity})
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("pedido", order.ID).Str("referencia", order.Reference).Msg("pedido creado")
	return ToResponse(order), nil
}

// Validate verifica el pedido contra el catálogo: todo SKU debe existir y
// toda cantidad ser positiva. CREATED → VALIDATED.
func (uc *UseCase) Validate(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.getExisting(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !entity.OrderCanTransition(order.Status, entity.OrderStatusValidated) {
		return nil, fmt.Errorf("pedido %s en estado %s no admite validación: %w",
			orderID, order.Status, domain.ErrStateConflict)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("línea %s con cantidad %s: %w", line.SKU, line.Quantity, domain.ErrValidation)
		}
		product, err := uc.products.GetBySKU(ctx, line.SKU)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, fmt.Errorf("SKU %s no existe en el catálogo: %w", line.SKU, domain.ErrValidation)
		}
		line.Description = product.Name
	}
	order.Status = entity.OrderStatusValidated
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return ToResponse(order), nil
}

// GetByID devuelve un pedido.
func (uc *UseCase) GetByID(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return ToResponse(order), nil
}

// List devuelve pedidos paginados, opcionalmente filtrados por estados.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest, statuses ...string) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	var (
		orders []*entity.Order
		err    error
	)
	if len(statuses) > 0 {
		orders, err = uc.orders.ListByStatus(ctx, statuses...)
		if err == nil {
			orders = paginate(orders, page.Limit, page.Offset)
		}
	} else {
		orders, err = uc.orders.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, o := range orders {
		out.Items = append(out.Items, *ToResponse(o))
	}
	return out, nil
}

// MarkPicking avanza WAVED → PICKING cuando arranca la primera tarea de la ola.
func (uc *UseCase) MarkPicking(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusPicking)
}

// MarkPacked avanza PICKING → PACKED tras el empaque explícito del pedido.
func (uc *UseCase) MarkPacked(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusPacked)
}

// MarkShipped avanza PACKED → SHIPPED cuando el envío sale a tránsito.
func (uc *UseCase) MarkShipped(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusShipped)
}

// Close avanza SHIPPED → CLOSED con la entrega confirmada.
func (uc *UseCase) Close(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusClosed)
}

func (uc *UseCase) transition(ctx context.Context, orderID, to string) error {
	order, err := uc.getExisting(ctx, orderID)
	if err != nil {
		return err
	}
	if !entity.OrderCanTransition(order.Status, to) {
		return fmt.Errorf("pedido %s: %s → %s: %w", orderID, order.Status, to, domain.ErrStateConflict)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return err
	}
	uc.log.Info().Str("pedido", orderID).Str("estado", to).Msg("pedido avanzado")
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

func paginate(orders []*entity.Order, limit, offset int) []*entity.Order {
	if offset >= len(orders) {
		return nil
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

// ToResponse mapea el pedido a su DTO de salida. Lo comparten los módulos
// que devuelven pedidos (asignación, olas, empaque).
func ToResponse(o *entity.Order) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			SKU:          l.SKU,
			Description:  l.Description,
			Quantity:     l.Quantity,
			AllocatedQty: l.AllocatedQty,
			PickedQty:    l.PickedQty,
			ShortQty:     l.ShortQty,
			Short:        l.Short,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		Status:          o.Status,
		Priority:        o.Priority,
		CutoffAt:        o.CutoffAt,
		SLADeliveryDays: o.SLADeliveryDays,
		Destination: dto.DestinationRequest{
			Name:       o.Destination.Name,
			Address:    o.Destination.Address,
			City:       o.Destination.City,
			Region:     o.Destination.Region,
			PostalCode: o.Destination.PostalCode,
			Country:    o.Destination.Country,
		},
		Lines:     lines,
		WaveID:    o.WaveID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
