package report

import (
	"testing"
	"time"

	"warehouse-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []models.InventoryTransaction {
	initial := 80.0
	current := 78.0
	shrinkage := 2.0
	return []models.InventoryTransaction{
		{
			TransactionNo:   "INB-20250315-0001",
			Type:            models.TransactionInbound,
			ItemType:        models.ItemMaterial,
			Barcode:         "MAT-001",
			Material:        &models.Material{Name: "Flour"},
			Quantity:        150,
			Unit:            "kg",
			User:            &models.User{Name: "Dewi"},
			TransactionDate: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			TransactionNo:   "OUT-20250315-0001",
			Type:            models.TransactionOutbound,
			ItemType:        models.ItemMaterial,
			Barcode:         "MAT-001",
			Material:        &models.Material{Name: "Flour"},
			Quantity:        80,
			Unit:            "kg",
			InitialWeight:   &initial,
			CurrentWeight:   &current,
			Shrinkage:       &shrinkage,
			TransactionDate: time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildExcel(t *testing.T) {
	f, err := BuildExcel(sampleTransactions())
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Transaction No", header)

	first, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "INB-20250315-0001", first)

	name, err := f.GetCellValue(sheetName, "F2")
	require.NoError(t, err)
	assert.Equal(t, "Flour", name)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two transactions")
}

func TestBuildExcelEmpty(t *testing.T) {
	f, err := BuildExcel(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestBuildPDF(t *testing.T) {
	buf, err := BuildPDF(sampleTransactions(), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
	assert.Equal(t, "%PDF", string(buf.Bytes()[:4]))
}

func TestBuildPDFEmptyRange(t *testing.T) {
	buf, err := BuildPDF(nil, "", "")
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
