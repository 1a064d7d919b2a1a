// Package returns maneja las devoluciones de pedidos despachados: la
// autorización (RMA) con disposición por línea y la recepción física, que
// reingresa al inventario solo lo dispuesto como RESTOCK.
package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/application/dto"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// UseCase casos de uso de devoluciones.
type UseCase struct {
	returns  repository.ReturnRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	ledger   *appinv.LedgerUseCase
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso de devoluciones.
func NewUseCase(
	returns repository.ReturnRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	ledger *appinv.LedgerUseCase,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{returns: returns, orders: orders, products: products, ledger: ledger, log: log}
}

// Create autoriza la devolución de líneas de un pedido despachado. Cada
// línea debe existir en el pedido y no superar lo efectivamente tomado.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.OrderID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", in.OrderID, domain.ErrNotFound)
	}
	if order.Status != entity.OrderStatusShipped && order.Status != entity.OrderStatusClosed {
		return nil, fmt.Errorf("pedido %s en estado %s, solo se devuelve lo despachado: %w",
			order.Reference, order.Status, domain.ErrStateConflict)
	}

	ra := &entity.ReturnAuthorization{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Status:    entity.ReturnStatusAuthorized,
		CreatedAt: time.Now(),
	}
	ra.Number = "RMA-" + shortID(ra.ID)
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("línea %s con cantidad %s: %w", l.SKU, l.Quantity, domain.ErrValidation)
		}
		if seen[l.SKU] {
			return nil, fmt.Errorf("SKU %s repetido en la solicitud: %w", l.SKU, domain.ErrValidation)
		}
		seen[l.SKU] = true
		disposition := strings.ToUpper(strings.TrimSpace(l.Disposition))
		if disposition != entity.DispositionRestock && disposition != entity.DispositionScrap {
			return nil, fmt.Errorf("disposición %q de %s: %w", l.Disposition, l.SKU, domain.ErrValidation)
		}
		idx := -1
		for i, ol := range order.Lines {
			if ol.SKU == l.SKU {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("el SKU %s no está en el pedido %s: %w", l.SKU, order.Reference, domain.ErrValidation)
		}
		if l.Quantity.GreaterThan(order.Lines[idx].PickedQty) {
			return nil, fmt.Errorf("devolver %s de %s supera lo despachado (%s): %w",
				l.Quantity, l.SKU, order.Lines[idx].PickedQty, domain.ErrValidation)
		}
		ra.Lines = append(ra.Lines, entity.ReturnLine{
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			Reason:      l.Reason,
			Disposition: disposition,
		})
	}
	if err := uc.returns.Create(ctx, ra); err != nil {
		return nil, err
	}
	uc.log.Info().Str("rma", ra.Number).Str("pedido", order.Reference).
		Int("lineas", len(ra.Lines)).Msg("devolución autorizada")
	return toReturnResponse(ra), nil
}

// ReceiveLine confirma la llegada física de una línea devuelta. RESTOCK
// reingresa las unidades al ledger en la ubicación dada; SCRAP solo registra
// el avance. Cuando todas las líneas llegan completas la RMA pasa a RECEIVED.
func (uc *UseCase) ReceiveLine(ctx context.Context, rmaID, actor string, in dto.ReceiveReturnLineRequest) (*dto.ReturnResponse, error) {
	if in.SKU == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	ra, err := uc.getExisting(ctx, rmaID)
	if err != nil {
		return nil, err
	}
	if ra.Status != entity.ReturnStatusAuthorized {
		return nil, fmt.Errorf("devolución %s en estado %s: %w", ra.Number, ra.Status, domain.ErrStateConflict)
	}
	idx := ra.LineFor(in.SKU)
	if idx < 0 {
		return nil, fmt.Errorf("el SKU %s no está autorizado en %s: %w", in.SKU, ra.Number, domain.ErrValidation)
	}
	line := &ra.Lines[idx]
	pending := line.Quantity.Sub(line.ReceivedQty)
	if in.Quantity.GreaterThan(pending) {
		return nil, fmt.Errorf("recibir %s de %s supera lo autorizado pendiente (%s): %w",
			in.Quantity, in.SKU, pending, domain.ErrValidation)
	}

	if line.Disposition == entity.DispositionRestock {
		if in.LocationCode == "" {
			return nil, fmt.Errorf("el reingreso de %s exige ubicación: %w", in.SKU, domain.ErrInvalidInput)
		}
		product, err := uc.products.GetBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if product != nil && product.Perishable && (in.LotCode == "" || in.ExpiryDate == nil) {
			return nil, fmt.Errorf("el reingreso del perecedero %s exige lote y vencimiento: %w",
				in.SKU, domain.ErrValidation)
		}
		err = uc.ledger.Enter(ctx, appinv.EntryInput{
			SKU:          in.SKU,
			LocationCode: in.LocationCode,
			LotCode:      in.LotCode,
			ExpiryDate:   in.ExpiryDate,
			Quantity:     in.Quantity,
			Reason:       "reingreso por devolución",
			Reference:    ra.Number,
			Actor:        actor,
		})
		if err != nil {
			return nil, fmt.Errorf("reingreso de %s: %w", in.SKU, err)
		}
	}

	line.ReceivedQty = line.ReceivedQty.Add(in.Quantity)
	if uc.allLinesReceived(ra) {
		now := time.Now()
		ra.Status = entity.ReturnStatusReceived
		ra.ReceivedAt = &now
	}
	if err := uc.returns.Update(ctx, ra); err != nil {
		return nil, err
	}
	uc.log.Info().Str("rma", ra.Number).Str("sku", in.SKU).
		Str("cantidad", in.Quantity.String()).Str("disposicion", line.Disposition).Msg("línea devuelta recibida")
	return toReturnResponse(ra), nil
}

// Cancel anula una autorización sin recepciones.
func (uc *UseCase) Cancel(ctx context.Context, rmaID string) (*dto.ReturnResponse, error) {
	ra, err := uc.getExisting(ctx, rmaID)
	if err != nil {
		return nil, err
	}
	if ra.Status != entity.ReturnStatusAuthorized {
		return nil, fmt.Errorf("devolución %s en estado %s: %w", ra.Number, ra.Status, domain.ErrStateConflict)
	}
	for _, l := range ra.Lines {
		if l.ReceivedQty.IsPositive() {
			return nil, fmt.Errorf("devolución %s ya tiene recepciones: %w", ra.Number, domain.ErrStateConflict)
		}
	}
	ra.Status = entity.ReturnStatusCancelled
	if err := uc.returns.Update(ctx, ra); err != nil {
		return nil, err
	}
	uc.log.Info().Str("rma", ra.Number).Msg("devolución anulada")
	return toReturnResponse(ra), nil
}

// GetByID devuelve una autorización de devolución.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ReturnResponse, error) {
	ra, err := uc.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, nil
	}
	return toReturnResponse(ra), nil
}

// List devuelve las devoluciones paginadas.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ReturnListResponse, error) {
	page.DefaultPage()
	ras, err := uc.returns.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ReturnListResponse{
		Items: make([]dto.ReturnResponse, 0, len(ras)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, ra := range ras {
		out.Items = append(out.Items, *toReturnResponse(ra))
	}
	return out, nil
}

func (uc *UseCase) allLinesReceived(ra *entity.ReturnAuthorization) bool {
	for _, l := range ra.Lines {
		if l.ReceivedQty.LessThan(l.Quantity) {
			return false
		}
	}
	return true
}

func (uc *UseCase) getExisting(ctx context.Context, id string) (*entity.ReturnAuthorization, error) {
	ra, err := uc.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, fmt.Errorf("devolución %s: %w", id, domain.ErrNotFound)
	}
	return ra, nil
}

func shortID(id string) string {
	if len(id) < 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}

func toReturnResponse(ra *entity.ReturnAuthorization) *dto.ReturnResponse {
	lines := make([]dto.ReturnLineResponse, 0, len(ra.Lines))
	for _, l := range ra.Lines {
		lines = append(lines, dto.ReturnLineResponse{
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			ReceivedQty: l.ReceivedQty,
			Reason:      l.Reason,
			Disposition: l.Disposition,
		})
	}
	return &dto.ReturnResponse{
		ID:         ra.ID,
		Number:     ra.Number,
		OrderID:    ra.OrderID,
		Status:     ra.Status,
		Lines:      lines,
		CreatedAt:  ra.CreatedAt,
		ReceivedAt: ra.ReceivedAt,
	}
}
