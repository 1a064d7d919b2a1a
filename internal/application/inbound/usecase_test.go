package inbound_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/inbound"
	appinv "github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
)

func TestCreatePurchaseOrderRechazaNumeroDuplicado(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))

	first, err := fx.uc.CreatePurchaseOrder(ctx, poRequest("PO-1001", "Proveedor SA", line("SKU-1", 20, 10)))
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = fx.uc.CreatePurchaseOrder(ctx, poRequest("PO-1001", "Proveedor SA", line("SKU-1", 5, 10)))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreatePurchaseOrderExigeSKUDelCatalogo(t *testing.T) {
	fx := newInboundFixture(t)

	_, err := fx.uc.CreatePurchaseOrder(context.Background(),
		poRequest("PO-1002", "Proveedor SA", line("SKU-FANTASMA", 5, 10)))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProcessASNEsIdempotentePorReferencia(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedPO(t, "PO-2001", line("SKU-1", 30, 8))
	fx.parser.asn = &entity.AdvanceShipNotice{
		Reference: "ASN-77", PONumber: "PO-2001", Supplier: "Proveedor SA",
		Lines: []entity.ASNLine{{SKU: "SKU-1", Quantity: dec(30), LotCode: "L-1"}},
	}

	first, err := fx.uc.ProcessASN(ctx, []byte("<asn/>"))
	require.NoError(t, err)
	second, err := fx.uc.ProcessASN(ctx, []byte("<asn/>"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := fx.asns.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProcessASNExigeOrdenDeCompraRegistrada(t *testing.T) {
	fx := newInboundFixture(t)
	fx.parser.asn = &entity.AdvanceShipNotice{
		Reference: "ASN-78", PONumber: "PO-NO-EXISTE",
		Lines: []entity.ASNLine{{SKU: "SKU-1", Quantity: dec(5)}},
	}

	_, err := fx.uc.ProcessASN(context.Background(), []byte("<asn/>"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartReceivingPrecargaLineasDesdeASN(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "DOCK-1", entity.LocationTypeReceiving, 0)
	po := fx.seedPO(t, "PO-3001", line("SKU-1", 40, 9))
	asn := fx.seedASN(t, "ASN-90", "PO-3001", entity.ASNLine{SKU: "SKU-1", Quantity: dec(25), LotCode: "L-9"})

	receipt, err := fx.uc.StartReceiving(ctx, "recibidor", dto.CreateReceiptRequest{
		POID: po.ID, ASNID: asn.ID, LocationCode: "DOCK-1",
	})
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.True(t, receipt.Lines[0].ExpectedQty.Equal(dec(25)))
	assert.Equal(t, "L-9", receipt.Lines[0].LotCode)
	assert.Equal(t, entity.ReceiptStatusOpen, receipt.Status)
}

func TestStartReceivingSinASNUsaElPendienteDeLaOrden(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "DOCK-1", entity.LocationTypeReceiving, 0)
	po := fx.seedPO(t, "PO-3002", line("SKU-1", 40, 9))
	po.Lines[0].ReceivedQty = dec(15) // ya hubo una recepción parcial
	require.NoError(t, fx.pos.Update(ctx, po))

	receipt, err := fx.uc.StartReceiving(ctx, "recibidor", dto.CreateReceiptRequest{
		POID: po.ID, LocationCode: "DOCK-1",
	})
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.True(t, receipt.Lines[0].ExpectedQty.Equal(dec(25)),
		"lo esperado debe ser el pendiente de la orden, no el total")
}

func TestStartReceivingExigeMuelleDeRecepcion(t *testing.T) {
	fx := newInboundFixture(t)
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "A-01-01", entity.LocationTypePick, 0)
	po := fx.seedPO(t, "PO-3003", line("SKU-1", 10, 9))

	_, err := fx.uc.StartReceiving(context.Background(), "recibidor", dto.CreateReceiptRequest{
		POID: po.ID, LocationCode: "A-01-01",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProcessItemGeneraPutAwaySinTocarElLedger(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	receipt := fx.openReceipt(t, "PO-4001", "SKU-1", 20)

	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(20),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PutAwayStatusPending, out.PutAway.Status)
	assert.Equal(t, "B-01-01", out.PutAway.ToLocationCode)

	av, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, av.OnHand.IsZero(), "la mercancía en muelle no es existencia")
	assert.True(t, av.InTransit.Equal(dec(20)))
}

func TestProcessItemPrefierePickFaceConElSKU(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "A-01-01", entity.LocationTypePick, 0)
	fx.seedLocation(t, "A-01-02", entity.LocationTypePick, 0)
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	// A-01-02 ya guarda el SKU; A-01-01 está vacía.
	require.NoError(t, fx.ledger.Enter(ctx, appinv.EntryInput{
		SKU: "SKU-1", LocationCode: "A-01-02", Quantity: dec(5), Reason: "carga inicial", Actor: "test",
	}))
	receipt := fx.openReceipt(t, "PO-4002", "SKU-1", 10)

	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "A-01-02", out.PutAway.ToLocationCode,
		"debe preferir el pick-face que ya guarda el SKU")
}

func TestProcessItemDesbordaABulkCuandoElPickFaceNoAlcanza(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "A-01-01", entity.LocationTypePick, 10)
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	require.NoError(t, fx.ledger.Enter(ctx, appinv.EntryInput{
		SKU: "SKU-1", LocationCode: "A-01-01", Quantity: dec(8), Reason: "carga inicial", Actor: "test",
	}))
	receipt := fx.openReceipt(t, "PO-4003", "SKU-1", 10)

	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "B-01-01", out.PutAway.ToLocationCode)
}

func TestProcessItemSinCupoNoDejaRastro(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 5)
	receipt := fx.openReceipt(t, "PO-4004", "SKU-1", 20)

	_, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(20),
	})
	require.ErrorIs(t, err, domain.ErrNoCapacity)

	after, err := fx.receipts.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.True(t, after.Lines[0].ReceivedQty.IsZero(), "la recepción no debe avanzar")
	tasks, err := fx.putaways.ListByReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestProcessItemPerecederoExigeLoteYVencimiento(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-FRIO", true, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	receipt := fx.openReceipt(t, "PO-4005", "SKU-FRIO", 12)

	_, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-FRIO", Quantity: dec(12),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-FRIO", Quantity: dec(12), LotCode: "L-FRIO", ExpiryDate: venc(2026, time.December, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "L-FRIO", out.PutAway.LotCode)
}

func TestProcessItemActualizaCostoPromedioPonderado(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	require.NoError(t, fx.ledger.Enter(ctx, appinv.EntryInput{
		SKU: "SKU-1", LocationCode: "B-01-01", Quantity: dec(10), Reason: "carga inicial", Actor: "test",
	}))
	receipt := fx.openReceiptWithCost(t, "PO-4006", "SKU-1", 10, 20)

	_, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(10),
	})
	require.NoError(t, err)

	product, err := fx.products.GetBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	// (10*10 + 10*20) / 20 = 15
	assert.True(t, product.UnitCost.Equal(dec(15)), "costo = %s", product.UnitCost)
}

func TestProcessItemAvanzaLaOrdenYCierraLaRecepcion(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	receipt := fx.openReceipt(t, "PO-4007", "SKU-1", 20)

	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(20),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCompleted, out.Receipt.Status)
	require.NotNil(t, out.Receipt.CompletedAt)

	po, err := fx.pos.GetByNumber(ctx, "PO-4007")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, po.Status)

	// Sobre una recepción cerrada no entran más líneas.
	_, err = fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(1),
	})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCompletePutAwayIngresaAlLedger(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	receipt := fx.openReceipt(t, "PO-5001", "SKU-1", 20)
	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(20),
	})
	require.NoError(t, err)

	done, err := fx.uc.CompletePutAway(ctx, out.PutAway.ID, "almacenista")
	require.NoError(t, err)
	assert.Equal(t, entity.PutAwayStatusCompleted, done.Status)
	assert.Equal(t, "almacenista", done.CompletedBy)

	av, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, av.OnHand.Equal(dec(20)))
	assert.True(t, av.InTransit.IsZero())
}

func TestCompletePutAwayDosVecesDevuelveConflicto(t *testing.T) {
	fx := newInboundFixture(t)
	ctx := context.Background()
	fx.seedProduct(t, "SKU-1", false, dec(10))
	fx.seedLocation(t, "B-01-01", entity.LocationTypeBulk, 0)
	receipt := fx.openReceipt(t, "PO-5002", "SKU-1", 10)
	out, err := fx.uc.ProcessReceivedItem(ctx, receipt.ID, "recibidor", dto.ReceiveLineRequest{
		SKU: "SKU-1", Quantity: dec(10),
	})
	require.NoError(t, err)

	_, err = fx.uc.CompletePutAway(ctx, out.PutAway.ID, "almacenista")
	require.NoError(t, err)
	_, err = fx.uc.CompletePutAway(ctx, out.PutAway.ID, "almacenista")
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	av, err := fx.ledger.Availability(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, av.OnHand.Equal(dec(10)), "el doble complete no duplica existencia")
}

// ── helpers ──

type fakeParser struct {
	asn *entity.AdvanceShipNotice
	err error
}

func (p *fakeParser) Parse([]byte) (*entity.AdvanceShipNotice, error) {
	if p.err != nil {
		return nil, p.err
	}
	// copia para que cada Parse devuelva un aviso fresco
	cp := *p.asn
	return &cp, nil
}

type inboundFixture struct {
	uc        *inbound.UseCase
	ledger    *appinv.LedgerUseCase
	parser    *fakeParser
	pos       repository.PurchaseOrderRepository
	asns      repository.ASNRepository
	receipts  repository.ReceiptRepository
	putaways  repository.PutAwayTaskRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
}

func newInboundFixture(t *testing.T) *inboundFixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, c := range repository.Containers {
		require.NoError(t, store.CreateContainer(ctx, c))
	}
	records := docstore.NewInventoryRecordRepository(store)
	allocations := docstore.NewAllocationRepository(store)
	movements := docstore.NewStockMovementRepository(store)
	lots := docstore.NewLotRepository(store)
	locations := docstore.NewLocationRepository(store)
	putaways := docstore.NewPutAwayTaskRepository(store)
	pos := docstore.NewPurchaseOrderRepository(store)
	asns := docstore.NewASNRepository(store)
	receipts := docstore.NewReceiptRepository(store)
	products := docstore.NewProductRepository(store)
	ledger := appinv.NewLedgerUseCase(records, allocations, movements, lots, locations, putaways, zerolog.Nop())
	parser := &fakeParser{}
	uc := inbound.NewUseCase(pos, asns, receipts, putaways, products, locations, lots, records, ledger, parser, zerolog.Nop())
	return &inboundFixture{
		uc: uc, ledger: ledger, parser: parser,
		pos: pos, asns: asns, receipts: receipts, putaways: putaways,
		products: products, locations: locations,
	}
}

func (fx *inboundFixture) seedProduct(t *testing.T, sku string, perishable bool, cost decimal.Decimal) {
	t.Helper()
	now := time.Now()
	require.NoError(t, fx.products.Create(context.Background(), &entity.Product{
		ID: uuid.New().String(), SKU: sku, Name: "Producto " + sku,
		UnitCost: cost, Perishable: perishable, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (fx *inboundFixture) seedLocation(t *testing.T, code, locType string, capacity int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, fx.locations.Create(context.Background(), &entity.Location{
		ID: uuid.New().String(), Code: code, Type: locType,
		Capacity: decimal.NewFromInt(capacity), Active: true,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (fx *inboundFixture) seedPO(t *testing.T, number string, lines ...dto.PurchaseOrderLineRequest) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	resp, err := fx.uc.CreatePurchaseOrder(ctx, dto.CreatePurchaseOrderRequest{
		Number: number, Supplier: "Proveedor SA", ExpectedAt: time.Now().Add(48 * time.Hour), Lines: lines,
	})
	require.NoError(t, err)
	po, err := fx.pos.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	return po
}

func (fx *inboundFixture) seedASN(t *testing.T, reference, poNumber string, lines ...entity.ASNLine) *entity.AdvanceShipNotice {
	t.Helper()
	asn := &entity.AdvanceShipNotice{
		ID: uuid.New().String(), Reference: reference, PONumber: poNumber,
		Supplier: "Proveedor SA", Lines: lines, CreatedAt: time.Now(),
	}
	require.NoError(t, fx.asns.Create(context.Background(), asn))
	return asn
}

// openReceipt crea OC + muelle + recepción a ciegas lista para confirmar líneas.
func (fx *inboundFixture) openReceipt(t *testing.T, poNumber, sku string, qty int64) *dto.ReceiptResponse {
	t.Helper()
	return fx.openReceiptWithCost(t, poNumber, sku, qty, 0)
}

func (fx *inboundFixture) openReceiptWithCost(t *testing.T, poNumber, sku string, qty, unitCost int64) *dto.ReceiptResponse {
	t.Helper()
	ctx := context.Background()
	po := fx.seedPO(t, poNumber, line(sku, qty, unitCost))
	if loc, err := fx.locations.GetByCode(ctx, "DOCK-1"); err == nil && loc == nil {
		fx.seedLocation(t, "DOCK-1", entity.LocationTypeReceiving, 0)
	}
	receipt, err := fx.uc.StartReceiving(ctx, "recibidor", dto.CreateReceiptRequest{
		POID: po.ID, LocationCode: "DOCK-1",
	})
	require.NoError(t, err)
	return receipt
}

func poRequest(number, supplier string, lines ...dto.PurchaseOrderLineRequest) dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		Number: number, Supplier: supplier, ExpectedAt: time.Now().Add(48 * time.Hour), Lines: lines,
	}
}

func line(sku string, qty, cost int64) dto.PurchaseOrderLineRequest {
	return dto.PurchaseOrderLineRequest{SKU: sku, Quantity: dec(qty), UnitCost: dec(cost)}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func venc(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
