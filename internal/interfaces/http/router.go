package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	"github.com/invorya/wms-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	CarrierUC   *usecase.CarrierUseCase
	LedgerUC    *inventory.LedgerUseCase
	LotUC       *inventory.LotUseCase
	OrderUC     *orders.UseCase
	Engine      *allocation.Engine
	Planner     *waves.Planner
	PickingUC   *picking.UseCase
	InboundUC   *inbound.UseCase
	ShippingUC  *shipping.UseCase
	PackingUC   *packing.UseCase
	ReturnsUC   *returns.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Métricas Prometheus (público, para el scraper)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Atajos de autorización. RequireRole sin argumentos deja pasar solo a admin.
	soloAdmin := RequireRole()
	supervisores := RequireRole(entity.RoleSupervisor)
	operaciones := RequireRole(entity.RoleSupervisor, entity.RoleOperario)

	// Users (solo admin administra; cada quien puede leerse vía GET /users/:id)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", soloAdmin, userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", soloAdmin, userHandler.Update)

	// Products (catálogo: escribe supervisor, borra admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", supervisores, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", supervisores, productHandler.Update)
	products.Delete("/:id", soloAdmin, productHandler.Delete)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", supervisores, locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/available", locationHandler.Available)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", supervisores, locationHandler.Update)

	// Carriers
	carriers := protected.Group("/carriers")
	carrierHandler := NewCarrierHandler(deps.CarrierUC)
	carriers.Post("/", soloAdmin, carrierHandler.Create)
	carriers.Get("/", carrierHandler.List)
	carriers.Get("/:id", carrierHandler.GetByID)
	carriers.Put("/:id", soloAdmin, carrierHandler.Update)

	// Inventory y lotes
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.LotUC)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjustments", supervisores, inventoryHandler.Adjust)
	invGroup.Post("/allocations", supervisores, inventoryHandler.Allocate)
	invGroup.Get("/:sku", inventoryHandler.Availability)
	invGroup.Get("/:sku/movements", inventoryHandler.Movements)

	lots := protected.Group("/lots")
	lots.Post("/", operaciones, inventoryHandler.CreateLot)
	lots.Get("/expiring", inventoryHandler.ExpiringLots)
	lots.Get("/", inventoryHandler.ListLots)

	// Orders: ciclo de vida y asignación
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Engine)
	packingHandler := NewPackingHandler(deps.PackingUC)
	shipmentHandler := NewShipmentHandler(deps.ShippingUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/validate", orderHandler.Validate)
	ordersGroup.Post("/:id/allocate", supervisores, orderHandler.Allocate)
	ordersGroup.Post("/:id/cancel", supervisores, orderHandler.Cancel)
	ordersGroup.Get("/:id/packing-slip", operaciones, packingHandler.Slip)
	ordersGroup.Post("/:id/pack", operaciones, packingHandler.Complete)
	ordersGroup.Get("/:id/shipment", shipmentHandler.GetByOrder)

	// Waves: planeación (supervisor) y liberación a picking
	wavesGroup := protected.Group("/waves")
	waveHandler := NewWaveHandler(deps.Planner, deps.PickingUC)
	wavesGroup.Post("/plan", supervisores, waveHandler.Plan)
	wavesGroup.Post("/", supervisores, waveHandler.Create)
	wavesGroup.Get("/", waveHandler.List)
	wavesGroup.Get("/:id", waveHandler.GetByID)
	wavesGroup.Post("/:id/release", supervisores, waveHandler.Release)
	wavesGroup.Get("/:id/tasks", waveHandler.Tasks)

	// Pick tasks: ejecución por operarios
	tasks := protected.Group("/pick-tasks")
	pickHandler := NewPickTaskHandler(deps.PickingUC)
	tasks.Get("/:id", pickHandler.GetByID)
	tasks.Post("/:id/assign", operaciones, pickHandler.Assign)
	tasks.Post("/:id/start", operaciones, pickHandler.Start)
	tasks.Post("/:id/complete", operaciones, pickHandler.Complete)

	// Inbound: órdenes de compra, ASN, recepción y put-away
	inboundHandler := NewInboundHandler(deps.InboundUC)
	pos := protected.Group("/purchase-orders")
	pos.Post("/", supervisores, inboundHandler.CreatePurchaseOrder)
	pos.Get("/", inboundHandler.ListPurchaseOrders)
	pos.Get("/:id", inboundHandler.GetPurchaseOrder)

	asns := protected.Group("/asns")
	asns.Post("/", operaciones, inboundHandler.ProcessASN)
	asns.Get("/", inboundHandler.ListASNs)
	asns.Get("/:id", inboundHandler.GetASN)

	receipts := protected.Group("/receipts")
	receipts.Post("/", operaciones, inboundHandler.StartReceiving)
	receipts.Get("/", inboundHandler.ListReceipts)
	receipts.Get("/:id", inboundHandler.GetReceipt)
	receipts.Post("/:id/items", operaciones, inboundHandler.ReceiveItem)

	putaways := protected.Group("/putaway-tasks")
	putaways.Get("/", inboundHandler.ListPutAwayTasks)
	putaways.Get("/:id", inboundHandler.GetPutAwayTask)
	putaways.Post("/:id/complete", operaciones, inboundHandler.CompletePutAway)

	// Shipments: despacho y seguimiento
	shipments := protected.Group("/shipments")
	shipments.Post("/", operaciones, shipmentHandler.Create)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Post("/:id/select-carrier", operaciones, shipmentHandler.SelectCarrier)
	shipments.Get("/:id/label", operaciones, shipmentHandler.Label)
	shipments.Post("/:id/tracking", operaciones, shipmentHandler.AddTrackingEvent)

	// Returns: autorización (supervisor) y recepción física (operario)
	returnsGroup := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnsUC)
	returnsGroup.Post("/", supervisores, returnHandler.Create)
	returnsGroup.Get("/", returnHandler.List)
	returnsGroup.Get("/:id", returnHandler.GetByID)
	returnsGroup.Post("/:id/receive", operaciones, returnHandler.ReceiveLine)
	returnsGroup.Post("/:id/cancel", supervisores, returnHandler.Cancel)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/valuation", dashboardHandler.Valuation)
	dashboard.Get("/valuation.xlsx", dashboardHandler.ValuationXLSX)
}
