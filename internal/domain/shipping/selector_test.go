package shipping_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/shipping"
)

func TestSelectCarrier_GanaElMenorPuntaje(t *testing.T) {
	barata := buildCarrier("c1", "BAR", 10, 0.80) // costo 10, 80% a tiempo
	cara := buildCarrier("c2", "CAR", 50, 0.99)   // costo 50, 99% a tiempo

	quote, err := shipping.SelectCarrier(
		[]*entity.Carrier{cara, barata},
		criteriaBogota(),
		pesosIguales(),
	)

	require.NoError(t, err)
	// barata: 10*0.5 + 0.20*0.5 = 5.10  |  cara: 50*0.5 + 0.01*0.5 = 25.005
	assert.Equal(t, "BAR", quote.Carrier.Code, "con pesos iguales el costo domina")
	assert.True(t, quote.Cost.Equal(decimal.NewFromInt(10)))
}

func TestSelectCarrier_PonderacionPuedeInvertirElGanador(t *testing.T) {
	barata := buildCarrier("c1", "BAR", 10, 0.50) // falla la mitad de las veces
	confiable := buildCarrier("c2", "CON", 12, 0.99)

	// confiabilidad pesa mucho más que el costo
	w := shipping.Weights{
		Cost:        decimal.NewFromFloat(0.1),
		Reliability: decimal.NewFromInt(100),
	}

	quote, err := shipping.SelectCarrier([]*entity.Carrier{barata, confiable}, criteriaBogota(), w)

	require.NoError(t, err)
	// barata: 10*0.1 + 0.50*100 = 51  |  confiable: 12*0.1 + 0.01*100 = 2.2
	assert.Equal(t, "CON", quote.Carrier.Code,
		"al ponderar confiabilidad la transportadora puntual debe ganar aunque cueste más")
}

func TestSelectCarrier_EmpateDesempataPorIDMenor(t *testing.T) {
	a := buildCarrier("aaa", "PRIMERA", 10, 0.90)
	b := buildCarrier("zzz", "SEGUNDA", 10, 0.90)

	quote, err := shipping.SelectCarrier([]*entity.Carrier{b, a}, criteriaBogota(), pesosIguales())

	require.NoError(t, err)
	assert.Equal(t, "aaa", quote.Carrier.ID, "a igual puntaje gana el ID menor")
}

func TestSelectCarrier_ExcluyeInactivas(t *testing.T) {
	inactiva := buildCarrier("c1", "INA", 1, 0.99)
	inactiva.Active = false
	activa := buildCarrier("c2", "ACT", 100, 0.80)

	quote, err := shipping.SelectCarrier([]*entity.Carrier{inactiva, activa}, criteriaBogota(), pesosIguales())

	require.NoError(t, err)
	assert.Equal(t, "ACT", quote.Carrier.Code,
		"una inactiva jamás gana aunque su puntaje fuera el mejor")
}

func TestSelectCarrier_ExcluyeFueraDeAreaDeServicio(t *testing.T) {
	soloCosta := buildCarrier("c1", "COSTA", 1, 0.99)
	soloCosta.ServiceAreas = []string{"ATL", "BOL"}

	_, err := shipping.SelectCarrier([]*entity.Carrier{soloCosta}, criteriaBogota(), pesosIguales())

	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrier_ExcluyePorPesoMaximo(t *testing.T) {
	liviana := buildCarrier("c1", "LIV", 1, 0.99)
	liviana.MaxWeightKg = decimal.NewFromInt(2)

	c := criteriaBogota()
	c.WeightKg = decimal.NewFromInt(30)

	_, err := shipping.SelectCarrier([]*entity.Carrier{liviana}, c, pesosIguales())

	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrier_ExcluyePorDimension(t *testing.T) {
	estrecha := buildCarrier("c1", "EST", 1, 0.99)
	estrecha.MaxDimensionCm = decimal.NewFromInt(50)

	c := criteriaBogota()
	c.LongestSideCm = decimal.NewFromInt(120)

	_, err := shipping.SelectCarrier([]*entity.Carrier{estrecha}, c, pesosIguales())

	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrier_ExcluyePorTransitoMayorAlSLA(t *testing.T) {
	lenta := buildCarrier("c1", "LEN", 1, 0.99)
	lenta.TransitDays = 8

	c := criteriaBogota()
	c.MaxTransitDays = 3

	_, err := shipping.SelectCarrier([]*entity.Carrier{lenta}, c, pesosIguales())

	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrier_SinTransportadorasEsNoElegible(t *testing.T) {
	_, err := shipping.SelectCarrier(nil, criteriaBogota(), pesosIguales())
	assert.ErrorIs(t, err, domain.ErrNoEligibleCarrier)
}

func TestSelectCarrier_CostoIncluyeTarifaPorKilo(t *testing.T) {
	carrier := buildCarrier("c1", "KGR", 5, 0.95)
	carrier.RatePerKg = decimal.NewFromInt(2)

	c := criteriaBogota()
	c.WeightKg = decimal.NewFromInt(10)

	quote, err := shipping.SelectCarrier([]*entity.Carrier{carrier}, c, pesosIguales())

	require.NoError(t, err)
	assert.True(t, quote.Cost.Equal(decimal.NewFromInt(25)), "costo = base 5 + 2*10 kg")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func buildCarrier(id, code string, baseRate int64, onTime float64) *entity.Carrier {
	return &entity.Carrier{
		ID:           id,
		Code:         code,
		Name:         "Transportadora " + code,
		Active:       true,
		ServiceAreas: []string{"BOG", "ANT"},
		BaseRate:     decimal.NewFromInt(baseRate),
		OnTimeRate:   decimal.NewFromFloat(onTime),
		TransitDays:  2,
	}
}

func criteriaBogota() shipping.Criteria {
	return shipping.Criteria{
		Region:        "BOG",
		WeightKg:      decimal.NewFromInt(1),
		LongestSideCm: decimal.NewFromInt(20),
	}
}

func pesosIguales() shipping.Weights {
	return shipping.Weights{
		Cost:        decimal.NewFromFloat(0.5),
		Reliability: decimal.NewFromFloat(0.5),
	}
}
