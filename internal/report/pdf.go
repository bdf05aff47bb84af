package report

import (
	"bytes"
	"fmt"

	"warehouse-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

// BuildPDF renders the transaction history to a simple report document:
// title, period line, summary block, then one block per transaction with a
// page break every ten entries.
func BuildPDF(transactions []models.InventoryTransaction, startDate, endDate string) (*bytes.Buffer, error) {
	if startDate == "" {
		startDate = "All"
	}
	if endDate == "" {
		endDate = "All"
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(18, 18, 18)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Inventory Report", "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Period: %s - %s", startDate, endDate), "", 1, "C", false, 0, "")
	doc.Ln(6)

	var inbound, outbound int
	for _, tx := range transactions {
		if tx.Type == models.TransactionInbound {
			inbound++
		} else {
			outbound++
		}
	}

	doc.SetFont("Helvetica", "BU", 14)
	doc.CellFormat(0, 9, "Summary", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, fmt.Sprintf("Total Transactions: %d", len(transactions)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Total Inbound: %d", inbound), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Total Outbound: %d", outbound), "", 1, "L", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Helvetica", "BU", 14)
	doc.CellFormat(0, 9, "Transactions", "", 1, "L", false, 0, "")
	doc.Ln(2)

	for i, tx := range transactions {
		if i > 0 && i%10 == 0 {
			doc.AddPage()
		}

		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(0, 6, fmt.Sprintf("%s | %s | %s", tx.TransactionNo, tx.Type, tx.Barcode), "", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(0, 5, "  "+itemName(&tx), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 5, fmt.Sprintf("  Qty: %.2f %s", tx.Quantity, tx.Unit), "", 1, "L", false, 0, "")
		if tx.Shrinkage != nil && *tx.Shrinkage != 0 {
			doc.CellFormat(0, 5, fmt.Sprintf("  Shrinkage: %.2f kg", *tx.Shrinkage), "", 1, "L", false, 0, "")
		}
		doc.Ln(2)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
