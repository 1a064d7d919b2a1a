package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio ponderado de un SKU tras
// una entrada (servicio de dominio).
// NuevoCosto = ((Existencia * CostoActual) + (CantEntrada * CostoEntrada)) / (Existencia + CantEntrada)
func WeightedAverageCost(onHand, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := onHand.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := onHand.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
