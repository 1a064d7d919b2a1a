package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
)

// Criteria describe el envío a cotizar frente a las transportadoras.
type Criteria struct {
	Region         string
	WeightKg       decimal.Decimal
	LongestSideCm  decimal.Decimal
	MaxTransitDays int // 0 = sin compromiso de tránsito
}

// Weights pondera costo contra confiabilidad en el puntaje. Deben venir de
// configuración; valores más altos castigan más esa dimensión.
type Weights struct {
	Cost        decimal.Decimal
	Reliability decimal.Decimal
}

// Quote es la cotización de una transportadora elegible.
type Quote struct {
	Carrier *entity.Carrier
	Cost    decimal.Decimal
	Score   decimal.Decimal
}

// SelectCarrier filtra primero y puntúa después: una transportadora que no
// cumple área, peso, dimensión o tránsito queda fuera sin importar su costo.
// Entre las elegibles gana el menor puntaje
//
//	score = costo*pesoCosto + (1 - onTimeRate)*pesoConfiabilidad
//
// y a igual puntaje, el ID menor. Sin elegibles: ErrNoEligibleCarrier.
func SelectCarrier(carriers []*entity.Carrier, c Criteria, w Weights) (Quote, error) {
	var best Quote
	found := false

	for _, carrier := range carriers {
		if !eligible(carrier, c) {
			continue
		}
		q := quoteFor(carrier, c, w)
		if !found || q.Score.LessThan(best.Score) ||
			(q.Score.Equal(best.Score) && q.Carrier.ID < best.Carrier.ID) {
			best = q
			found = true
		}
	}

	if !found {
		return Quote{}, domain.ErrNoEligibleCarrier
	}
	return best, nil
}

func eligible(carrier *entity.Carrier, c Criteria) bool {
	if !carrier.Active {
		return false
	}
	if !carrier.Serves(c.Region) {
		return false
	}
	if carrier.MaxWeightKg.IsPositive() && c.WeightKg.GreaterThan(carrier.MaxWeightKg) {
		return false
	}
	if carrier.MaxDimensionCm.IsPositive() && c.LongestSideCm.GreaterThan(carrier.MaxDimensionCm) {
		return false
	}
	if c.MaxTransitDays > 0 && carrier.TransitDays > c.MaxTransitDays {
		return false
	}
	return true
}

func quoteFor(carrier *entity.Carrier, c Criteria, w Weights) Quote {
	cost := carrier.CostFor(c.WeightKg)
	unreliability := decimal.NewFromInt(1).Sub(carrier.OnTimeRate)
	score := cost.Mul(w.Cost).Add(unreliability.Mul(w.Reliability))
	return Quote{Carrier: carrier, Cost: cost, Score: score}
}
