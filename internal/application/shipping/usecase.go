// Package shipping arma el despacho de pedidos empacados: creación del
// envío, selección de transportadora por costo y confiabilidad, etiquetas y
// seguimiento hasta la entrega.
package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	shipdomain "github.com/invorya/wms-api/internal/domain/shipping"
	"github.com/invorya/wms-api/pkg/metrics"
)

// LabelGenerator produce la etiqueta de despacho en PDF. El adaptador
// concreto vive en infrastructure/pdf.
type LabelGenerator interface {
	ShippingLabel(shipment *entity.Shipment, order *entity.Order) ([]byte, error)
}

// UseCase casos de uso de despacho.
type UseCase struct {
	shipments repository.ShipmentRepository
	carriers  repository.CarrierRepository
	orders    repository.OrderRepository
	ordersUC  *orders.UseCase
	products  repository.ProductRepository
	labels    LabelGenerator
	weights   shipdomain.Weights
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso de despacho. Los pesos del puntaje de
// transportadoras vienen de configuración.
func NewUseCase(
	shipments repository.ShipmentRepository,
	carriers repository.CarrierRepository,
	orderRepo repository.OrderRepository,
	ordersUC *orders.UseCase,
	products repository.ProductRepository,
	labels LabelGenerator,
	weights shipdomain.Weights,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		shipments: shipments,
		carriers:  carriers,
		orders:    orderRepo,
		ordersUC:  ordersUC,
		products:  products,
		labels:    labels,
		weights:   weights,
		log:       log,
	}
}

// Create arma el envío de un pedido empacado: copia el destino y deriva peso
// y lado mayor desde el catálogo. Un pedido solo admite un envío.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", in.OrderID, domain.ErrNotFound)
	}
	if order.Status != entity.OrderStatusPacked {
		return nil, fmt.Errorf("pedido %s en estado %s, debe estar empacado: %w",
			order.Reference, order.Status, domain.ErrStateConflict)
	}
	existing, err := uc.shipments.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("el pedido %s ya tiene envío %s: %w",
			order.Reference, existing[0].Number, domain.ErrDuplicate)
	}

	weight, longest, err := uc.measureOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	shipment := &entity.Shipment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Status:        entity.ShipmentStatusPending,
		Destination:   order.Destination,
		WeightKg:      weight,
		LongestSideCm: longest,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	shipment.Number = "SHP-" + shortID(shipment.ID)
	if err := uc.shipments.Create(ctx, shipment); err != nil {
		return nil, err
	}
	uc.log.Info().Str("envio", shipment.Number).Str("pedido", order.Reference).
		Str("peso_kg", weight.String()).Msg("envío creado")
	return toShipmentResponse(shipment), nil
}

// SelectCarrier cotiza el envío contra las transportadoras activas y asigna
// la ganadora. Solo aplica sobre envíos sin transportadora.
func (uc *UseCase) SelectCarrier(ctx context.Context, shipmentID string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.getExisting(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status != entity.ShipmentStatusPending {
		return nil, fmt.Errorf("envío %s en estado %s: %w", shipment.Number, shipment.Status, domain.ErrStateConflict)
	}
	order, err := uc.orders.GetByID(ctx, shipment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s del envío: %w", shipment.OrderID, domain.ErrNotFound)
	}
	candidates, err := uc.carriers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	quote, err := shipdomain.SelectCarrier(candidates, shipdomain.Criteria{
		Region:         shipment.Destination.Region,
		WeightKg:       shipment.WeightKg,
		LongestSideCm:  shipment.LongestSideCm,
		MaxTransitDays: order.SLADeliveryDays,
	}, uc.weights)
	if err != nil {
		return nil, fmt.Errorf("envío %s hacia %s: %w", shipment.Number, shipment.Destination.Region, err)
	}

	shipment.CarrierID = quote.Carrier.ID
	shipment.CarrierName = quote.Carrier.Name
	shipment.Cost = quote.Cost
	shipment.TrackingNumber = "TRK-" + shortID(uuid.New().String())
	shipment.Status = entity.ShipmentStatusReady
	shipment.UpdatedAt = time.Now()
	if err := uc.shipments.Update(ctx, shipment); err != nil {
		return nil, err
	}
	uc.log.Info().Str("envio", shipment.Number).Str("transportadora", quote.Carrier.Code).
		Str("costo", quote.Cost.String()).Msg("transportadora seleccionada")
	return toShipmentResponse(shipment), nil
}

// Label genera la etiqueta PDF del envío; exige transportadora asignada.
func (uc *UseCase) Label(ctx context.Context, shipmentID string) ([]byte, error) {
	shipment, err := uc.getExisting(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status == entity.ShipmentStatusPending {
		return nil, fmt.Errorf("envío %s sin transportadora: %w", shipment.Number, domain.ErrStateConflict)
	}
	order, err := uc.orders.GetByID(ctx, shipment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s del envío: %w", shipment.OrderID, domain.ErrNotFound)
	}
	return uc.labels.ShippingLabel(shipment, order)
}

// AddTrackingEvent registra un evento de seguimiento. IN_TRANSIT despacha el
// envío y marca el pedido como enviado; DELIVERED lo entrega y cierra el
// pedido. Sobre un envío entregado no entran más eventos.
func (uc *UseCase) AddTrackingEvent(ctx context.Context, shipmentID string, in dto.TrackingEventRequest) (*dto.ShipmentResponse, error) {
	if in.Status == "" {
		return nil, domain.ErrInvalidInput
	}
	shipment, err := uc.getExisting(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.Status == entity.ShipmentStatusPending {
		return nil, fmt.Errorf("envío %s sin transportadora: %w", shipment.Number, domain.ErrStateConflict)
	}
	if shipment.Status == entity.ShipmentStatusDelivered {
		return nil, fmt.Errorf("envío %s ya entregado: %w", shipment.Number, domain.ErrStateConflict)
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	now := time.Now()
	switch status {
	case entity.ShipmentStatusInTransit:
		if shipment.Status != entity.ShipmentStatusReady {
			return nil, fmt.Errorf("envío %s en estado %s: %w", shipment.Number, shipment.Status, domain.ErrStateConflict)
		}
		shipment.Status = entity.ShipmentStatusInTransit
		uc.advanceOrder(ctx, shipment.OrderID, entity.OrderStatusShipped)
		metrics.ShipmentsDispatched.Inc()
	case entity.ShipmentStatusDelivered:
		if shipment.Status != entity.ShipmentStatusInTransit {
			return nil, fmt.Errorf("envío %s en estado %s: %w", shipment.Number, shipment.Status, domain.ErrStateConflict)
		}
		shipment.Status = entity.ShipmentStatusDelivered
		shipment.DeliveredAt = &now
		uc.advanceOrder(ctx, shipment.OrderID, entity.OrderStatusClosed)
	}

	shipment.Events = append(shipment.Events, entity.TrackingEvent{
		Status:      status,
		Description: in.Description,
		At:          now,
	})
	shipment.UpdatedAt = now
	if err := uc.shipments.Update(ctx, shipment); err != nil {
		return nil, err
	}
	uc.log.Info().Str("envio", shipment.Number).Str("evento", status).Msg("seguimiento registrado")
	return toShipmentResponse(shipment), nil
}

// GetByID devuelve un envío.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, nil
	}
	return toShipmentResponse(shipment), nil
}

// GetByOrder devuelve el envío de un pedido, nil si no existe.
func (uc *UseCase) GetByOrder(ctx context.Context, orderID string) (*dto.ShipmentResponse, error) {
	shipments, err := uc.shipments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(shipments) == 0 {
		return nil, nil
	}
	return toShipmentResponse(shipments[0]), nil
}

// List devuelve los envíos paginados.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ShipmentListResponse, error) {
	page.DefaultPage()
	shipments, err := uc.shipments.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ShipmentListResponse{
		Items: make([]dto.ShipmentResponse, 0, len(shipments)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range shipments {
		out.Items = append(out.Items, *toShipmentResponse(s))
	}
	return out, nil
}

// measureOrder deriva peso total y lado mayor del pedido desde el catálogo.
func (uc *UseCase) measureOrder(ctx context.Context, order *entity.Order) (weight, longest decimal.Decimal, err error) {
	for _, l := range order.Lines {
		product, err := uc.products.GetBySKU(ctx, l.SKU)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if product == nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("SKU %s del pedido: %w", l.SKU, domain.ErrNotFound)
		}
		weight = weight.Add(product.WeightKg.Mul(l.Quantity))
		longest = decimal.Max(longest, product.LengthCm, product.WidthCm, product.HeightCm)
	}
	return weight, longest, nil
}

// advanceOrder empuja el estado del pedido detrás del envío; si el pedido ya
// avanzó no es un error.
func (uc *UseCase) advanceOrder(ctx context.Context, orderID, to string) {
	var err error
	switch to {
	case entity.OrderStatusShipped:
		err = uc.ordersUC.MarkShipped(ctx, orderID)
	case entity.OrderStatusClosed:
		err = uc.ordersUC.Close(ctx, orderID)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("pedido", orderID).Str("hacia", to).
			Msg("el pedido no acompañó la transición del envío")
	}
}

func (uc *UseCase) getExisting(ctx context.Context, id string) (*entity.Shipment, error) {
	shipment, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("envío %s: %w", id, domain.ErrNotFound)
	}
	return shipment, nil
}

func shortID(id string) string {
	if len(id) < 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	events := make([]dto.TrackingEventResponse, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, dto.TrackingEventResponse{
			Status: e.Status, Description: e.Description, At: e.At,
		})
	}
	return &dto.ShipmentResponse{
		ID:      s.ID,
		Number:  s.Number,
		OrderID: s.OrderID,
		Status:  s.Status,
		Destination: dto.DestinationRequest{
			Name:       s.Destination.Name,
			Address:    s.Destination.Address,
			City:       s.Destination.City,
			Region:     s.Destination.Region,
			PostalCode: s.Destination.PostalCode,
			Country:    s.Destination.Country,
		},
		WeightKg:       s.WeightKg,
		LongestSideCm:  s.LongestSideCm,
		CarrierID:      s.CarrierID,
		CarrierName:    s.CarrierName,
		Cost:           s.Cost,
		TrackingNumber: s.TrackingNumber,
		Events:         events,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		DeliveredAt:    s.DeliveredAt,
	}
}
