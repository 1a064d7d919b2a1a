package repository

import (
	"context"
	"encoding/json"
)

// Contenedores del almacén documental. Cada agregado vive en su propio
// contenedor; no hay transacciones entre contenedores.
const (
	ContainerProducts         = "products"
	ContainerLocations        = "locations"
	ContainerLots             = "lots"
	ContainerInventoryRecords = "inventory_records"
	ContainerStockMovements   = "stock_movements"
	ContainerOrders           = "orders"
	ContainerAllocations      = "allocations"
	ContainerWaves            = "waves"
	ContainerPickTasks        = "pick_tasks"
	ContainerPurchaseOrders   = "purchase_orders"
	ContainerASNs             = "asns"
	ContainerReceipts         = "receipts"
	ContainerPutAwayTasks     = "putaway_tasks"
	ContainerShipments        = "shipments"
	ContainerCarriers         = "carriers"
	ContainerReturns          = "returns"
	ContainerUsers            = "users"
)

// Containers lista todos los contenedores que el arranque debe garantizar.
var Containers = []string{
	ContainerProducts, ContainerLocations, ContainerLots,
	ContainerInventoryRecords, ContainerStockMovements, ContainerOrders,
	ContainerAllocations, ContainerWaves, ContainerPickTasks,
	ContainerPurchaseOrders, ContainerASNs, ContainerReceipts,
	ContainerPutAwayTasks, ContainerShipments, ContainerCarriers,
	ContainerReturns, ContainerUsers,
}

// DocumentStore define el puerto del almacén documental: documentos JSON
// direccionados por contenedor e id. Add falla con ErrDuplicate si el id ya
// existe; Get/Update/Remove fallan con ErrNotFound si no existe.
type DocumentStore interface {
	CreateContainer(ctx context.Context, container string) error
	Add(ctx context.Context, container, id string, doc json.RawMessage) error
	Get(ctx context.Context, container, id string) (json.RawMessage, error)
	Update(ctx context.Context, container, id string, doc json.RawMessage) error
	Remove(ctx context.Context, container, id string) error
	List(ctx context.Context, container string) ([]json.RawMessage, error)
}
