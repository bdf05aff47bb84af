package stock

import (
	"fmt"
	"time"

	"warehouse-backend/internal/models"
)

// Ledger maintains StockSummary.current_stock as the authoritative running
// balance per barcode: the sum of inbound quantities minus the sum of
// outbound quantities since the first transaction.
type Ledger struct {
	summaries SummaryRepository
	items     ItemLookup
	now       func() time.Time
}

func NewLedger(summaries SummaryRepository, items ItemLookup) *Ledger {
	return &Ledger{summaries: summaries, items: items, now: time.Now}
}

// Apply records one transaction against the running balance. The summary
// row is created lazily on the first transaction for a barcode; afterwards
// the balance changes only through atomic increments. Outbound exceeding
// recorded inbound is not rejected: current_stock may go negative.
func (l *Ledger) Apply(barcode string, itemType models.ItemType, txType models.TransactionType, quantity float64) error {
	change := quantity
	if txType == models.TransactionOutbound {
		change = -quantity
	}

	existing, err := l.summaries.Find(barcode)
	if err != nil {
		return err
	}

	now := l.now()

	if existing != nil {
		return l.summaries.Increment(barcode, change, txType, now)
	}

	summary := models.StockSummary{
		Barcode:      barcode,
		CurrentStock: change,
	}
	if txType == models.TransactionInbound {
		summary.LastInbound = &now
	} else {
		summary.LastOutbound = &now
	}

	switch itemType {
	case models.ItemMaterial:
		m, err := l.items.Material(barcode)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s not found", barcode)
		}
		summary.Unit = m.Unit
		summary.MaterialID = &m.ID
	case models.ItemProduct:
		p, err := l.items.Product(barcode)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("product %s not found", barcode)
		}
		summary.Unit = p.Unit
		summary.ProductID = &p.ID
	default:
		return fmt.Errorf("unknown item type %q", itemType)
	}

	return l.summaries.Create(&summary)
}
