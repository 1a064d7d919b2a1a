// seed_demo puebla el almacén documental con un catálogo de demostración:
// usuarios, productos (incluye perecederos), ubicaciones con muelle de
// recepción, transportadoras y stock inicial con lotes fechados.
//
// Uso: STORE_DRIVER=postgres DATABASE_URL=... go run ./cmd/seed_demo
// Requiere el driver postgres: el almacén en memoria no sobrevive al proceso.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/auth"
	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/application/usecase"
	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
	"github.com/invorya/wms-api/internal/infrastructure/postgres"
	"github.com/invorya/wms-api/pkg/config"
	"github.com/invorya/wms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "seed_demo requiere STORE_DRIVER=postgres: el almacén en memoria no persiste")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	store := postgres.NewDocumentStore(pool)
	for _, container := range repository.Containers {
		if err := store.CreateContainer(ctx, container); err != nil {
			log.Fatal().Err(err).Str("container", container).Msg("preparar almacén documental")
		}
	}

	productRepo := docstore.NewProductRepository(store)
	locationRepo := docstore.NewLocationRepository(store)
	lotRepo := docstore.NewLotRepository(store)
	recordRepo := docstore.NewInventoryRecordRepository(store)
	movementRepo := docstore.NewStockMovementRepository(store)
	allocationRepo := docstore.NewAllocationRepository(store)
	putawayRepo := docstore.NewPutAwayTaskRepository(store)
	carrierRepo := docstore.NewCarrierRepository(store)
	userRepo := docstore.NewUserRepository(store)

	zl := log.Component("seed").Zerolog()
	productUC := usecase.NewProductUseCase(productRepo, zl)
	locationUC := usecase.NewLocationUseCase(locationRepo, recordRepo, putawayRepo, zl)
	carrierUC := usecase.NewCarrierUseCase(carrierRepo, zl)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)
	ledgerUC := inventory.NewLedgerUseCase(
		recordRepo, allocationRepo, movementRepo, lotRepo, locationRepo, putawayRepo, zl,
	)

	seedUsers(ctx, log, authUC)
	seedLocations(ctx, log, locationUC)
	seedProducts(ctx, log, productUC)
	seedCarriers(ctx, log, carrierUC)
	seedStock(ctx, log, ledgerUC)

	log.Info().Msg("catálogo de demostración cargado")
}

func seedUsers(ctx context.Context, log *logger.Logger, uc *auth.UseCase) {
	users := []dto.RegisterRequest{
		{Email: "admin@demo.local", Password: "admin12345", Name: "Administración", Role: "admin"},
		{Email: "supervisor@demo.local", Password: "super12345", Name: "Jefe de Bodega", Role: "supervisor"},
		{Email: "operario@demo.local", Password: "opera12345", Name: "Operario Turno 1", Role: "operario"},
	}
	for _, u := range users {
		if _, err := uc.Register(ctx, u); err != nil {
			log.Warn().Err(err).Str("email", u.Email).Msg("usuario no creado")
			continue
		}
		log.Info().Str("email", u.Email).Str("role", u.Role).Msg("usuario creado")
	}
}

func seedLocations(ctx context.Context, log *logger.Logger, uc *usecase.LocationUseCase) {
	locations := []dto.CreateLocationRequest{
		{Code: "RECV-01", Type: "RECEIVING", Zone: "MUELLE", Capacity: dec("10000")},
		{Code: "STAGE-01", Type: "STAGING", Zone: "MUELLE", Capacity: dec("5000")},
		{Code: "PICK-A-01", Type: "PICK", Zone: "A", Capacity: dec("300")},
		{Code: "PICK-A-02", Type: "PICK", Zone: "A", Capacity: dec("300")},
		{Code: "PICK-B-01", Type: "PICK", Zone: "B", Capacity: dec("300")},
		{Code: "BULK-01", Type: "BULK", Zone: "RESERVA", Capacity: dec("2000")},
		{Code: "BULK-02", Type: "BULK", Zone: "RESERVA", Capacity: dec("2000")},
	}
	for _, l := range locations {
		if _, err := uc.Create(ctx, l); err != nil {
			log.Warn().Err(err).Str("code", l.Code).Msg("ubicación no creada")
			continue
		}
		log.Info().Str("code", l.Code).Str("type", l.Type).Msg("ubicación creada")
	}
}

func seedProducts(ctx context.Context, log *logger.Logger, uc *usecase.ProductUseCase) {
	products := []dto.CreateProductRequest{
		{
			SKU: "CAFE-500G", Name: "Café tostado molido 500 g", UnitMeasure: "UN",
			UnitCost: dec("18500"), WeightKg: dec("0.52"),
			LengthCm: dec("20"), WidthCm: dec("8"), HeightCm: dec("26"),
			Perishable: true,
		},
		{
			SKU: "LECHE-UHT-1L", Name: "Leche UHT entera 1 L", UnitMeasure: "UN",
			UnitCost: dec("4200"), WeightKg: dec("1.05"),
			LengthCm: dec("7"), WidthCm: dec("7"), HeightCm: dec("24"),
			Perishable: true,
		},
		{
			SKU: "ARROZ-5KG", Name: "Arroz blanco 5 kg", UnitMeasure: "UN",
			UnitCost: dec("21000"), WeightKg: dec("5.1"),
			LengthCm: dec("35"), WidthCm: dec("25"), HeightCm: dec("12"),
		},
		{
			SKU: "JABON-3PK", Name: "Jabón de tocador x3", UnitMeasure: "PAQ",
			UnitCost: dec("7800"), WeightKg: dec("0.36"),
			LengthCm: dec("16"), WidthCm: dec("6"), HeightCm: dec("10"),
		},
		{
			SKU: "ACEITE-3L", Name: "Aceite vegetal 3 L", UnitMeasure: "UN",
			UnitCost: dec("32500"), WeightKg: dec("2.9"),
			LengthCm: dec("14"), WidthCm: dec("14"), HeightCm: dec("32"),
		},
	}
	for _, p := range products {
		if _, err := uc.Create(ctx, p); err != nil {
			log.Warn().Err(err).Str("sku", p.SKU).Msg("producto no creado")
			continue
		}
		log.Info().Str("sku", p.SKU).Msg("producto creado")
	}
}

func seedCarriers(ctx context.Context, log *logger.Logger, uc *usecase.CarrierUseCase) {
	carriers := []dto.CreateCarrierRequest{
		{
			Code: "ANDINA", Name: "Transportes Andina",
			ServiceAreas: []string{"Cundinamarca", "Antioquia", "Valle del Cauca"},
			MaxWeightKg:  dec("40"), MaxDimensionCm: dec("120"),
			BaseRate: dec("9000"), RatePerKg: dec("1500"),
			OnTimeRate: dec("0.96"), TransitDays: 2,
		},
		{
			Code: "COSTEXPR", Name: "Costa Express",
			ServiceAreas: []string{"Atlántico", "Bolívar", "Magdalena"},
			MaxWeightKg:  dec("30"), MaxDimensionCm: dec("100"),
			BaseRate: dec("7500"), RatePerKg: dec("1900"),
			OnTimeRate: dec("0.91"), TransitDays: 3,
		},
		{
			Code: "VELOZ", Name: "Mensajería Veloz",
			ServiceAreas: []string{"Cundinamarca"},
			MaxWeightKg:  dec("15"), MaxDimensionCm: dec("80"),
			BaseRate: dec("5500"), RatePerKg: dec("2400"),
			OnTimeRate: dec("0.99"), TransitDays: 1,
		},
	}
	for _, cr := range carriers {
		if _, err := uc.Create(ctx, cr); err != nil {
			log.Warn().Err(err).Str("code", cr.Code).Msg("transportadora no creada")
			continue
		}
		log.Info().Str("code", cr.Code).Msg("transportadora creada")
	}
}

func seedStock(ctx context.Context, log *logger.Logger, ledger *inventory.LedgerUseCase) {
	entries := []inventory.EntryInput{
		{SKU: "CAFE-500G", LocationCode: "PICK-A-01", LotCode: "CAF-2026-08", ExpiryDate: days(120), Quantity: dec("180"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "CAFE-500G", LocationCode: "BULK-01", LotCode: "CAF-2026-10", ExpiryDate: days(180), Quantity: dec("900"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "LECHE-UHT-1L", LocationCode: "PICK-A-02", LotCode: "LEC-2026-01", ExpiryDate: days(45), Quantity: dec("240"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "LECHE-UHT-1L", LocationCode: "BULK-01", LotCode: "LEC-2026-02", ExpiryDate: days(90), Quantity: dec("1200"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "ARROZ-5KG", LocationCode: "PICK-B-01", Quantity: dec("150"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "ARROZ-5KG", LocationCode: "BULK-02", Quantity: dec("800"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "JABON-3PK", LocationCode: "PICK-B-01", Quantity: dec("260"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
		{SKU: "ACEITE-3L", LocationCode: "BULK-02", Quantity: dec("400"), Reason: "carga inicial", Reference: "SEED", Actor: "seed"},
	}
	for _, e := range entries {
		if err := ledger.Enter(ctx, e); err != nil {
			log.Warn().Err(err).Str("sku", e.SKU).Str("location", e.LocationCode).Msg("stock no cargado")
			continue
		}
		log.Info().Str("sku", e.SKU).Str("location", e.LocationCode).Stringer("qty", e.Quantity).Msg("stock cargado")
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("decimal inválido en seed: " + s)
	}
	return d
}

func days(n int) *time.Time {
	t := time.Now().AddDate(0, 0, n)
	return &t
}
