package dto

import "github.com/shopspring/decimal"

// DashboardSummaryResponse respuesta de GET /api/dashboard/summary.
// Contiene los conteos operativos del almacén más el valor total del inventario.
type DashboardSummaryResponse struct {
	OpenOrders       int            `json:"open_orders"`       // pedidos en estados no terminales
	OrdersByStatus   map[string]int `json:"orders_by_status"`  // desglose por estado
	ActiveWaves      int            `json:"active_waves"`      // olas PLANNED o RELEASED
	PendingPickTasks int            `json:"pending_pick_tasks"`
	PendingPutAway   int            `json:"pending_putaway"`
	OpenReceipts     int            `json:"open_receipts"`

	// Valoración del inventario a costo promedio
	DistinctSKUs        int             `json:"distinct_skus"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}

// ValuationRowResponse valoración de un SKU: existencia física por costo unitario.
type ValuationRowResponse struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Allocated   decimal.Decimal `json:"allocated"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ValuationResponse respuesta de GET /api/dashboard/valuation.
type ValuationResponse struct {
	Items      []ValuationRowResponse `json:"items"`
	TotalValue decimal.Decimal        `json:"total_value"`
}
