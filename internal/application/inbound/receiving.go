package inbound

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	invdomain "github.com/invorya/wms-api/internal/domain/inventory"
)

// StartReceiving abre una recepción contra una orden de compra en un muelle
// RECEIVING. Con ASN las líneas esperadas salen del aviso; sin ASN, del
// pendiente de la orden de compra (recepción a ciegas).
func (uc *UseCase) StartReceiving(ctx context.Context, actor string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if in.POID == "" || in.LocationCode == "" {
		return nil, domain.ErrInvalidInput
	}
	po, err := uc.pos.GetByID(ctx, in.POID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s: %w", in.POID, domain.ErrNotFound)
	}
	if po.Status != entity.POStatusOpen && po.Status != entity.POStatusPartiallyReceived {
		return nil, fmt.Errorf("orden de compra %s en estado %s: %w", po.Number, po.Status, domain.ErrStateConflict)
	}
	dock, err := uc.locations.GetByCode(ctx, in.LocationCode)
	if err != nil {
		return nil, err
	}
	if dock == nil {
		return nil, fmt.Errorf("ubicación %s: %w", in.LocationCode, domain.ErrNotFound)
	}
	if dock.Type != entity.LocationTypeReceiving || !dock.Active {
		return nil, fmt.Errorf("la ubicación %s no es un muelle de recepción activo: %w",
			dock.Code, domain.ErrValidation)
	}

	receipt := &entity.Receipt{
		ID:         uuid.New().String(),
		POID:       po.ID,
		LocationID: dock.ID,
		Status:     entity.ReceiptStatusOpen,
		ReceivedBy: actor,
		StartedAt:  time.Now(),
	}
	receipt.Number = "RCV-" + shortID(receipt.ID)

	if in.ASNID != "" {
		asn, err := uc.asns.GetByID(ctx, in.ASNID)
		if err != nil {
			return nil, err
		}
		if asn == nil {
			return nil, fmt.Errorf("aviso %s: %w", in.ASNID, domain.ErrNotFound)
		}
		if asn.PONumber != po.Number {
			return nil, fmt.Errorf("el aviso %s anuncia la orden %s, no %s: %w",
				asn.Reference, asn.PONumber, po.Number, domain.ErrValidation)
		}
		receipt.ASNID = asn.ID
		for _, l := range asn.Lines {
			receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
				SKU: l.SKU, ExpectedQty: l.Quantity, LotCode: l.LotCode,
			})
		}
	} else {
		for _, l := range po.Lines {
			pending := l.Quantity.Sub(l.ReceivedQty)
			if pending.IsPositive() {
				receipt.Lines = append(receipt.Lines, entity.ReceiptLine{SKU: l.SKU, ExpectedQty: pending})
			}
		}
	}
	if len(receipt.Lines) == 0 {
		return nil, fmt.Errorf("nada pendiente por recibir de la orden %s: %w", po.Number, domain.ErrValidation)
	}

	if err := uc.receipts.Create(ctx, receipt); err != nil {
		return nil, err
	}
	uc.log.Info().Str("recepcion", receipt.Number).Str("oc", po.Number).Msg("recepción abierta")
	return toReceiptResponse(receipt), nil
}

// ProcessReceivedItem confirma la llegada de un SKU dentro de una recepción
// abierta: materializa el lote, elige destino de put-away y genera la tarea,
// y actualiza los avances de la recepción y la orden de compra. Las unidades
// quedan en tránsito interno hasta completar el put-away; si ninguna
// ubicación tiene cupo no se registra nada.
func (uc *UseCase) ProcessReceivedItem(ctx context.Context, receiptID, actor string, in dto.ReceiveLineRequest) (*dto.ReceiveItemResponse, error) {
	if in.SKU == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	receipt, err := uc.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("recepción %s: %w", receiptID, domain.ErrNotFound)
	}
	if receipt.Status != entity.ReceiptStatusOpen {
		return nil, fmt.Errorf("recepción %s ya completada: %w", receipt.Number, domain.ErrStateConflict)
	}
	po, err := uc.pos.GetByID(ctx, receipt.POID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s: %w", receipt.POID, domain.ErrNotFound)
	}
	poLine := po.LineFor(in.SKU)
	if poLine < 0 {
		return nil, fmt.Errorf("el SKU %s no está en la orden %s: %w", in.SKU, po.Number, domain.ErrValidation)
	}
	product, err := uc.products.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("SKU %s: %w", in.SKU, domain.ErrNotFound)
	}
	if product.Perishable && (in.LotCode == "" || in.ExpiryDate == nil) {
		return nil, fmt.Errorf("el SKU perecedero %s exige lote y vencimiento: %w", in.SKU, domain.ErrValidation)
	}

	destination, err := uc.assignDestination(ctx, in.SKU, in.Quantity)
	if err != nil {
		return nil, err
	}

	var lot *entity.Lot
	if in.LotCode != "" {
		lot, err = uc.ensureLot(ctx, in.SKU, in.LotCode, in.ExpiryDate)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	task := &entity.PutAwayTask{
		ID:             uuid.New().String(),
		ReceiptID:      receipt.ID,
		SKU:            in.SKU,
		Quantity:       in.Quantity,
		FromLocationID: receipt.LocationID,
		ToLocationID:   destination.ID,
		ToLocationCode: destination.Code,
		Status:         entity.PutAwayStatusPending,
		CreatedAt:      now,
	}
	if lot != nil {
		task.LotID = lot.ID
		task.LotCode = lot.Code
		task.ExpiryDate = lot.ExpiryDate
	}
	if err := uc.putaways.Create(ctx, task); err != nil {
		return nil, err
	}

	idx := receipt.LineFor(in.SKU)
	if idx < 0 {
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{SKU: in.SKU})
		idx = len(receipt.Lines) - 1
	}
	receipt.Lines[idx].ReceivedQty = receipt.Lines[idx].ReceivedQty.Add(in.Quantity)
	if lot != nil {
		receipt.Lines[idx].LotID = lot.ID
		receipt.Lines[idx].LotCode = lot.Code
	}
	if receipt.Lines[idx].ReceivedQty.GreaterThan(receipt.Lines[idx].ExpectedQty) {
		uc.log.Warn().Str("recepcion", receipt.Number).Str("sku", in.SKU).
			Str("recibido", receipt.Lines[idx].ReceivedQty.String()).
			Str("esperado", receipt.Lines[idx].ExpectedQty.String()).Msg("sobre-recepción")
	}
	if allReceived(receipt) {
		receipt.Status = entity.ReceiptStatusCompleted
		receipt.CompletedAt = &now
	}
	if err := uc.receipts.Update(ctx, receipt); err != nil {
		uc.cancelTask(ctx, task)
		return nil, err
	}

	po.Lines[poLine].ReceivedQty = po.Lines[poLine].ReceivedQty.Add(in.Quantity)
	po.Status = poStatus(po)
	po.UpdatedAt = now
	if err := uc.pos.Update(ctx, po); err != nil {
		uc.cancelTask(ctx, task)
		return nil, err
	}

	uc.updateProductCost(ctx, product, in.Quantity, po.Lines[poLine].UnitCost)

	uc.log.Info().Str("recepcion", receipt.Number).Str("sku", in.SKU).
		Str("cantidad", in.Quantity.String()).Str("destino", destination.Code).Msg("línea recibida")
	return &dto.ReceiveItemResponse{
		Receipt: *toReceiptResponse(receipt),
		PutAway: *toPutAwayResponse(task),
	}, nil
}

// GetReceipt devuelve una recepción.
func (uc *UseCase) GetReceipt(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, nil
	}
	return toReceiptResponse(receipt), nil
}

// ListReceipts devuelve las recepciones paginadas.
func (uc *UseCase) ListReceipts(ctx context.Context, page dto.PageRequest) (*dto.ReceiptListResponse, error) {
	page.DefaultPage()
	receipts, err := uc.receipts.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ReceiptListResponse{
		Items: make([]dto.ReceiptResponse, 0, len(receipts)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range receipts {
		out.Items = append(out.Items, *toReceiptResponse(r))
	}
	return out, nil
}

// ensureLot materializa el lote anunciado; si ya existe lo reutiliza.
func (uc *UseCase) ensureLot(ctx context.Context, sku, code string, expiry *time.Time) (*entity.Lot, error) {
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

// updateProductCost recalcula el costo promedio ponderado del producto con
// la entrada recibida. Un fallo acá no tumba la recepción.
func (uc *UseCase) updateProductCost(ctx context.Context, product *entity.Product, qty, unitCost decimal.Decimal) {
	if !unitCost.IsPositive() {
		return
	}
	records, err := uc.records.ListBySKU(ctx, product.SKU)
	if err != nil {
		uc.log.Warn().Err(err).Str("sku", product.SKU).Msg("sin posiciones para recalcular costo")
		return
	}
	onHand, _, _ := invdomain.Totals(records)
	product.UnitCost = invdomain.WeightedAverageCost(onHand, product.UnitCost, qty, unitCost)
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, product); err != nil {
		uc.log.Warn().Err(err).Str("sku", product.SKU).Msg("no se pudo actualizar el costo promedio")
	}
}

func (uc *UseCase) cancelTask(ctx context.Context, task *entity.PutAwayTask) {
	task.Status = entity.PutAwayStatusCancelled
	if err := uc.putaways.Update(ctx, task); err != nil {
		uc.log.Error().Err(err).Str("tarea", task.ID).Msg("no se pudo cancelar la tarea de put-away")
	}
}

func allReceived(r *entity.Receipt) bool {
	for _, l := range r.Lines {
		if l.ExpectedQty.IsPositive() && l.ReceivedQty.LessThan(l.ExpectedQty) {
			return false
		}
	}
	return true
}

func poStatus(po *entity.PurchaseOrder) string {
	complete := true
	for _, l := range po.Lines {
		if l.ReceivedQty.LessThan(l.Quantity) {
			complete = false
			break
		}
	}
	if complete {
		return entity.POStatusReceived
	}
	return entity.POStatusPartiallyReceived
}

func toReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	lines := make([]dto.ReceiptLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ReceiptLineResponse{
			SKU:         l.SKU,
			ExpectedQty: l.ExpectedQty,
			ReceivedQty: l.ReceivedQty,
			LotCode:     l.LotCode,
		})
	}
	return &dto.ReceiptResponse{
		ID:          r.ID,
		Number:      r.Number,
		POID:        r.POID,
		ASNID:       r.ASNID,
		LocationID:  r.LocationID,
		Status:      r.Status,
		Lines:       lines,
		ReceivedBy:  r.ReceivedBy,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}
