// Package xlsx genera los reportes descargables del tablero en formato Excel.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/invorya/wms-api/internal/application/analytics"
	"github.com/invorya/wms-api/internal/domain/repository"
)

var _ analytics.ValuationExporter = (*ValuationExporter)(nil)

// ValuationExporter implementa analytics.ValuationExporter sobre excelize.
type ValuationExporter struct{}

// NewValuationExporter construye el exportador.
func NewValuationExporter() *ValuationExporter { return &ValuationExporter{} }

// ValuationWorkbook produce un libro con una fila por SKU y el total al pie.
func (e *ValuationExporter) ValuationWorkbook(rows []repository.ValuationRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"sku",
		"producto",
		"existencia",
		"reservado",
		"costo_unitario",
		"valor_total",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	rowNum := 2
	var total float64
	for _, r := range rows {
		excelRow := []interface{}{
			r.SKU,
			r.ProductName,
			r.OnHand.InexactFloat64(),
			r.Allocated.InexactFloat64(),
			r.UnitCost.InexactFloat64(),
			r.TotalValue.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", rowNum, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", rowNum, err)
		}
		total += r.TotalValue.InexactFloat64()
		rowNum++
	}

	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return nil, fmt.Errorf("xlsx: fila de total: %w", err)
	}
	totalRow := []interface{}{"", "TOTAL", nil, nil, nil, total}
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("xlsx: fila de total: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
