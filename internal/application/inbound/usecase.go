// Package inbound cubre el flujo de entrada: órdenes de compra, avisos de
// despacho (ASN) en XML, recepciones en muelle y el put-away hacia las
// ubicaciones de almacenamiento.
package inbound

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

// ASNParser descifra el XML de un aviso de despacho de proveedor. El
// adaptador concreto vive en infrastructure/asn.
type ASNParser interface {
	Parse(data []byte) (*entity.AdvanceShipNotice, error)
}

// UseCase casos de uso del flujo de entrada.
type UseCase struct {
	pos       repository.PurchaseOrderRepository
	asns      repository.ASNRepository
	receipts  repository.ReceiptRepository
	putaways  repository.PutAwayTaskRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	lots      repository.LotRepository
	records   repository.InventoryRecordRepository
	ledger    *appinv.LedgerUseCase
	parser    ASNParser
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso de entrada.
func NewUseCase(
	pos repository.PurchaseOrderRepository,
	asns repository.ASNRepository,
	receipts repository.ReceiptRepository,
	putaways repository.PutAwayTaskRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	lots repository.LotRepository,
	records repository.InventoryRecordRepository,
	ledger *appinv.LedgerUseCase,
	parser ASNParser,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		pos:       pos,
		asns:      asns,
		receipts:  receipts,
		putaways:  putaways,
		products:  products,
		locations: locations,
		lots:      lots,
		records:   records,
		ledger:    ledger,
		parser:    parser,
		log:       log,
	}
}

// CreatePurchaseOrder registra una orden de compra OPEN. Todos los SKUs
// deben existir en el catálogo.
func (uc *UseCase) CreatePurchaseOrder(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.Number == "" || in.Supplier == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.pos.GetByNumber(ctx, in.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("orden de compra %s: %w", in.Number, domain.ErrDuplicate)
	}
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		Number:     in.Number,
		Supplier:   in.Supplier,
		Status:     entity.POStatusOpen,
		ExpectedAt: in.ExpectedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("línea %s con cantidad %s: %w", l.SKU, l.Quantity, domain.ErrValidation)
		}
		product, err := uc.products.GetBySKU(ctx, l.SKU)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("SKU %s no existe en el catálogo: %w", l.SKU, domain.ErrValidation)
		}
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{SKU: l.SKU, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	if err := uc.pos.Create(ctx, po); err != nil {
		return nil, err
	}
	uc.log.Info().Str("oc", po.Number).Str("proveedor", po.Supplier).Msg("orden de compra creada")
	return toPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder devuelve una orden de compra.
func (uc *UseCase) GetPurchaseOrder(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.pos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, nil
	}
	return toPurchaseOrderResponse(po), nil
}

// ListPurchaseOrders devuelve las órdenes de compra paginadas.
func (uc *UseCase) ListPurchaseOrders(ctx context.Context, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	pos, err := uc.pos.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(pos)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, po := range pos {
		out.Items = append(out.Items, *toPurchaseOrderResponse(po))
	}
	return out, nil
}

// ProcessASN ingiere el XML de un aviso de despacho. La referencia del
// proveedor deduplica: reenviar el mismo aviso devuelve el ya registrado.
// La orden de compra anunciada debe existir.
func (uc *UseCase) ProcessASN(ctx context.Context, data []byte) (*dto.ASNResponse, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidInput
	}
	asn, err := uc.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("XML del aviso: %w", domain.ErrInvalidInput)
	}
	if asn.Reference == "" || asn.PONumber == "" || len(asn.Lines) == 0 {
		return nil, fmt.Errorf("aviso sin referencia, orden o líneas: %w", domain.ErrValidation)
	}
	existing, err := uc.asns.GetByReference(ctx, asn.Reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.log.Info().Str("referencia", asn.Reference).Msg("aviso reenviado, se devuelve el registrado")
		return toASNResponse(existing), nil
	}
	po, err := uc.pos.GetByNumber(ctx, asn.PONumber)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s del aviso no existe: %w", asn.PONumber, domain.ErrValidation)
	}

	asn.ID = uuid.New().String()
	asn.CreatedAt = time.Now()
	if err := uc.asns.Create(ctx, asn); err != nil {
		return nil, err
	}
	uc.log.Info().Str("referencia", asn.Reference).Str("oc", asn.PONumber).
		Int("lineas", len(asn.Lines)).Msg("aviso de despacho procesado")
	return toASNResponse(asn), nil
}

// GetASN devuelve un aviso procesado.
func (uc *UseCase) GetASN(ctx context.Context, id string) (*dto.ASNResponse, error) {
	asn, err := uc.asns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asn == nil {
		return nil, nil
	}
	return toASNResponse(asn), nil
}

// ListASNs devuelve los avisos paginados.
func (uc *UseCase) ListASNs(ctx context.Context, page dto.PageRequest) (*dto.ASNListResponse, error) {
	page.DefaultPage()
	asns, err := uc.asns.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ASNListResponse{
		Items: make([]dto.ASNResponse, 0, len(asns)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, a := range asns {
		out.Items = append(out.Items, *toASNResponse(a))
	}
	return out, nil
}

func shortID(id string) string {
	if len(id) < 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			ReceivedQty: l.ReceivedQty,
			UnitCost:    l.UnitCost,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:         po.ID,
		Number:     po.Number,
		Supplier:   po.Supplier,
		Status:     po.Status,
		Lines:      lines,
		ExpectedAt: po.ExpectedAt,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

func toASNResponse(a *entity.AdvanceShipNotice) *dto.ASNResponse {
	lines := make([]dto.ASNLineResponse, 0, len(a.Lines))
	for _, l := range a.Lines {
		lines = append(lines, dto.ASNLineResponse{
			SKU:        l.SKU,
			Quantity:   l.Quantity,
			LotCode:    l.LotCode,
			ExpiryDate: l.ExpiryDate,
		})
	}
	return &dto.ASNResponse{
		ID:        a.ID,
		Reference: a.Reference,
		PONumber:  a.PONumber,
		Supplier:  a.Supplier,
		ETA:       a.ETA,
		Lines:     lines,
		CreatedAt: a.CreatedAt,
	}
}
