package report

import (
	"fmt"

	"warehouse-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Inventory Transactions"

var excelColumns = []struct {
	header string
	width  float64
}{
	{"Transaction No", 20},
	{"Date", 15},
	{"Type", 12},
	{"Item Type", 12},
	{"Barcode", 15},
	{"Item Name", 30},
	{"Quantity", 12},
	{"Unit", 10},
	{"Initial Weight", 15},
	{"Current Weight", 15},
	{"Shrinkage", 12},
	{"Reference No", 20},
	{"User", 20},
}

func itemName(tx *models.InventoryTransaction) string {
	if tx.Material != nil {
		return tx.Material.Name
	}
	if tx.Product != nil {
		return tx.Product.Name
	}
	return "-"
}

func userName(tx *models.InventoryTransaction) string {
	if tx.User != nil {
		return tx.User.Name
	}
	return "-"
}

func orDash(v *float64) any {
	if v == nil {
		return "-"
	}
	return *v
}

// BuildExcel renders the transaction history to a workbook with a bold
// gray header row, one row per transaction.
func BuildExcel(transactions []models.InventoryTransaction) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	for i, col := range excelColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(excelColumns), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, tx := range transactions {
		shrinkage := 0.0
		if tx.Shrinkage != nil {
			shrinkage = *tx.Shrinkage
		}
		referenceNo := tx.ReferenceNo
		if referenceNo == "" {
			referenceNo = "-"
		}
		values := []any{
			tx.TransactionNo,
			tx.TransactionDate.Format("2006-01-02"),
			string(tx.Type),
			string(tx.ItemType),
			tx.Barcode,
			itemName(&tx),
			tx.Quantity,
			tx.Unit,
			orDash(tx.InitialWeight),
			orDash(tx.CurrentWeight),
			shrinkage,
			referenceNo,
			userName(&tx),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	return f, nil
}
