package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/invorya/wms-api/internal/domain/repository"
	"github.com/invorya/wms-api/internal/infrastructure/xlsx"
)

func TestValuationWorkbookEsLegiblePorExcelize(t *testing.T) {
	rows := []repository.ValuationRow{
		{
			SKU: "SKU-1", ProductName: "Tornillos",
			OnHand: dec("10"), Allocated: dec("4"),
			UnitCost: dec("12.50"), TotalValue: dec("125"),
		},
		{
			SKU: "SKU-2", ProductName: "Tuercas",
			OnHand: dec("100"), Allocated: dec("0"),
			UnitCost: dec("3"), TotalValue: dec("300"),
		},
	}

	book, err := xlsx.NewValuationExporter().ValuationWorkbook(rows)
	require.NoError(t, err)
	require.NotEmpty(t, book)

	f, err := excelize.OpenReader(bytes.NewReader(book))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 4) // encabezado + 2 SKUs + total

	assert.Equal(t, "sku", got[0][0])
	assert.Equal(t, "SKU-1", got[1][0])
	assert.Equal(t, "Tornillos", got[1][1])
	assert.Equal(t, "125", got[1][5])
	assert.Equal(t, "SKU-2", got[2][0])
	assert.Equal(t, "TOTAL", got[3][1])
	assert.Equal(t, "425", got[3][5])
}

func TestValuationWorkbookSinFilasSoloEncabezado(t *testing.T) {
	book, err := xlsx.NewValuationExporter().ValuationWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(book))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 2) // encabezado + total en cero

	assert.Equal(t, "TOTAL", got[1][1])
	assert.Equal(t, "0", got[1][5])
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
