package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/invorya/wms-api/docs"
	"github.com/invorya/wms-api/internal/application/allocation"
	appanalytics "github.com/invorya/wms-api/internal/application/analytics"
	"github.com/invorya/wms-api/internal/application/auth"
	"github.com/invorya/wms-api/internal/application/inbound"
	"github.com/invorya/wms-api/internal/application/inventory"
	"github.com/invorya/wms-api/internal/application/orders"
	"github.com/invorya/wms-api/internal/application/packing"
	"github.com/invorya/wms-api/internal/application/picking"
	"github.com/invorya/wms-api/internal/application/returns"
	"github.com/invorya/wms-api/internal/application/shipping"
	"github.com/invorya/wms-api/internal/application/usecase"
	"github.com/invorya/wms-api/internal/application/waves"
	"github.com/invorya/wms-api/internal/domain/repository"
	shipdomain "github.com/invorya/wms-api/internal/domain/shipping"
	infraasn "github.com/invorya/wms-api/internal/infrastructure/asn"
	"github.com/invorya/wms-api/internal/infrastructure/docstore"
	infrapdf "github.com/invorya/wms-api/internal/infrastructure/pdf"
	"github.com/invorya/wms-api/internal/infrastructure/postgres"
	infraxlsx "github.com/invorya/wms-api/internal/infrastructure/xlsx"
	"github.com/invorya/wms-api/internal/jobs"
	httpRouter "github.com/invorya/wms-api/internal/interfaces/http"
	"github.com/invorya/wms-api/pkg/config"
	"github.com/invorya/wms-api/pkg/keymutex"
	"github.com/invorya/wms-api/pkg/logger"
)

// @title                      Invorya WMS API
// @version                    1.0
// @description                Motor de asignación de inventario y orquestación de fulfillment: libro mayor FEFO con lotes, olas de picking, recepción de proveedores, despacho con transportadoras y devoluciones.
// @host                       localhost:8080
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
// @description                Escriba "Bearer" seguido de un espacio y el token JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén documental: memoria para desarrollo y demos, PostgreSQL (JSONB)
	// para producción. Los repositorios son los mismos sobre ambos.
	var store repository.DocumentStore
	var pool *pgxpool.Pool
	if cfg.Store.Driver == "postgres" {
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store = postgres.NewDocumentStore(pool)
	} else {
		store = docstore.NewMemoryStore()
	}
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
	orderRepo := docstore.NewOrderRepository(store)
	allocationRepo := docstore.NewAllocationRepository(store)
	waveRepo := docstore.NewWaveRepository(store)
	taskRepo := docstore.NewPickTaskRepository(store)
	poRepo := docstore.NewPurchaseOrderRepository(store)
	asnRepo := docstore.NewASNRepository(store)
	receiptRepo := docstore.NewReceiptRepository(store)
	putawayRepo := docstore.NewPutAwayTaskRepository(store)
	shipmentRepo := docstore.NewShipmentRepository(store)
	carrierRepo := docstore.NewCarrierRepository(store)
	returnRepo := docstore.NewReturnRepository(store)
	userRepo := docstore.NewUserRepository(store)

	// La valoración y los conteos del tablero sí cambian de implementación:
	// en PostgreSQL se resuelven con SQL sobre el JSONB.
	var analyticsRepo repository.AnalyticsRepository
	if pool != nil {
		analyticsRepo = postgres.NewAnalyticsRepository(pool)
	} else {
		analyticsRepo = docstore.NewAnalyticsRepository(
			recordRepo, productRepo, orderRepo, waveRepo, taskRepo, putawayRepo, receiptRepo,
		)
	}

	// Candados por pedido: serializan asignación, admisión a olas y picking
	// sobre el mismo pedido.
	orderLocks := keymutex.New()

	ledgerUC := inventory.NewLedgerUseCase(
		recordRepo, allocationRepo, movementRepo, lotRepo, locationRepo, putawayRepo,
		log.Component("ledger").Zerolog(),
	)
	lotUC := inventory.NewLotUseCase(lotRepo, productRepo, log.Component("lots").Zerolog())
	orderUC := orders.NewUseCase(orderRepo, productRepo, log.Component("orders").Zerolog())
	engine := allocation.NewEngine(
		orderRepo, allocationRepo, waveRepo, taskRepo, ledgerUC, orderLocks,
		cfg.Engine.AllowPartialAllocation,
		log.Component("allocation").Zerolog(),
	)
	planner := waves.NewPlanner(orderRepo, waveRepo, orderLocks, log.Component("waves").Zerolog())
	pickingUC := picking.NewUseCase(
		waveRepo, taskRepo, allocationRepo, orderRepo, ledgerUC, orderLocks,
		log.Component("picking").Zerolog(),
	)
	inboundUC := inbound.NewUseCase(
		poRepo, asnRepo, receiptRepo, putawayRepo, productRepo, locationRepo,
		lotRepo, recordRepo, ledgerUC, infraasn.NewXMLParser(),
		log.Component("inbound").Zerolog(),
	)

	docGenerator := infrapdf.NewDocumentGenerator()
	shippingUC := shipping.NewUseCase(
		shipmentRepo, carrierRepo, orderRepo, orderUC, productRepo, docGenerator,
		shipdomain.Weights{
			Cost:        cfg.Engine.CarrierCostWeight,
			Reliability: cfg.Engine.CarrierReliabilityWeight,
		},
		log.Component("shipping").Zerolog(),
	)
	packingUC := packing.NewUseCase(
		orderRepo, waveRepo, orderUC, docGenerator,
		log.Component("packing").Zerolog(),
	)
	returnsUC := returns.NewUseCase(
		returnRepo, orderRepo, productRepo, ledgerUC,
		log.Component("returns").Zerolog(),
	)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth").Zerolog())

	productUC := usecase.NewProductUseCase(productRepo, log.Component("products").Zerolog())
	locationUC := usecase.NewLocationUseCase(locationRepo, recordRepo, putawayRepo, log.Component("locations").Zerolog())
	carrierUC := usecase.NewCarrierUseCase(carrierRepo, log.Component("carriers").Zerolog())
	userUC := usecase.NewUserUseCase(userRepo, log.Component("users").Zerolog())
	dashboardUC := appanalytics.NewDashboardUseCase(
		analyticsRepo, infraxlsx.NewValuationExporter(),
		log.Component("dashboard").Zerolog(),
	)

	// Trabajos de fondo: barrido de vencimientos y tareas estancadas.
	if cfg.Jobs.Enabled {
		manager := jobs.NewManager(lotRepo, taskRepo, cfg.Jobs, log.Component("jobs").Zerolog())
		if err := manager.StartAll(); err != nil {
			log.Fatal().Err(err).Msg("iniciar trabajos de fondo")
		}
		defer manager.StopAll()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invorya WMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		LocationUC:  locationUC,
		CarrierUC:   carrierUC,
		LedgerUC:    ledgerUC,
		LotUC:       lotUC,
		OrderUC:     orderUC,
		Engine:      engine,
		Planner:     planner,
		PickingUC:   pickingUC,
		InboundUC:   inboundUC,
		ShippingUC:  shippingUC,
		PackingUC:   packingUC,
		ReturnsUC:   returnsUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
