package inventory

import (
	"fmt"
	"time"

	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

// TaskEnqueuer hands follow-up work to the background queue. Enqueueing is
// fire-and-forget: failures are logged by the implementation and never
// reach the request path.
type TaskEnqueuer interface {
	EnqueueScanProcess(transactionID uint, barcode string, txType models.TransactionType)
}

// Service implements the transaction recorder and the reweigh adjuster on
// top of injected storage ports.
type Service struct {
	transactions TransactionRepository
	items        stock.ItemLookup
	ledger       *stock.Ledger
	bus          *events.Bus
	queue        TaskEnqueuer
	now          func() time.Time
}

func NewService(transactions TransactionRepository, items stock.ItemLookup, ledger *stock.Ledger, bus *events.Bus, queue TaskEnqueuer) *Service {
	return &Service{
		transactions: transactions,
		items:        items,
		ledger:       ledger,
		bus:          bus,
		queue:        queue,
		now:          time.Now,
	}
}

// ScanInput is a validated barcode scan request.
type ScanInput struct {
	Barcode       string   `json:"barcode"`
	Type          string   `json:"type"`     // INBOUND | OUTBOUND
	ItemType      string   `json:"itemType"` // MATERIAL | PRODUCT
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	InitialWeight *float64 `json:"initialWeight"`
	ReferenceNo   string   `json:"referenceNo"`
	Supplier      string   `json:"supplier"`
	Destination   string   `json:"destination"`
	Notes         string   `json:"notes"`
}

func (in *ScanInput) validate() error {
	if in.Barcode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
	}
	if in.Type != string(models.TransactionInbound) && in.Type != string(models.TransactionOutbound) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be INBOUND or OUTBOUND")
	}
	if in.ItemType != string(models.ItemMaterial) && in.ItemType != string(models.ItemProduct) {
		return fiber.NewError(fiber.StatusBadRequest, "itemType must be MATERIAL or PRODUCT")
	}
	if in.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}
	if in.Unit == "" {
		return fiber.NewError(fiber.StatusBadRequest, "unit is required")
	}
	return nil
}

// Scan validates the request, allocates a transaction number, persists the
// transaction, applies it to the stock ledger and fans out the side
// effects (queue task, inventory update event).
func (s *Service) Scan(in ScanInput, userID *uint) (*models.InventoryTransaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	txType := models.TransactionType(in.Type)
	itemType := models.ItemType(in.ItemType)

	var materialID, productID *uint
	switch itemType {
	case models.ItemMaterial:
		m, err := s.items.Material(in.Barcode)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("MATERIAL with barcode %s not found", in.Barcode))
		}
		materialID = &m.ID
	case models.ItemProduct:
		p, err := s.items.Product(in.Barcode)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("PRODUCT with barcode %s not found", in.Barcode))
		}
		productID = &p.ID
	}

	now := s.now()
	transactionNo, err := s.nextTransactionNo(txType, now)
	if err != nil {
		return nil, err
	}

	tx := &models.InventoryTransaction{
		TransactionNo:   transactionNo,
		Type:            txType,
		ItemType:        itemType,
		Barcode:         in.Barcode,
		MaterialID:      materialID,
		ProductID:       productID,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		InitialWeight:   in.InitialWeight,
		CurrentWeight:   in.InitialWeight,
		ReferenceNo:     in.ReferenceNo,
		Supplier:        in.Supplier,
		Destination:     in.Destination,
		Notes:           in.Notes,
		UserID:          userID,
		TransactionDate: now,
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, err
	}

	if err := s.ledger.Apply(in.Barcode, itemType, txType, in.Quantity); err != nil {
		return nil, err
	}

	if s.queue != nil {
		s.queue.EnqueueScanProcess(tx.ID, tx.Barcode, tx.Type)
	}

	full, err := s.transactions.FindWithRelations(tx.ID)
	if err != nil || full == nil {
		// The transaction is committed; fall back to the bare row.
		full = tx
	}

	if s.bus != nil {
		s.bus.Publish(events.InventoryUpdate{Kind: events.KindScan, Transaction: full})
	}

	return full, nil
}

// nextTransactionNo builds {INB|OUT}-{YYYYMMDD}-{seq}, where seq restarts
// at 1 every calendar day per type. Two concurrent scans can compute the
// same sequence; the unique index on transaction_no turns that collision
// into an error instead of a silent duplicate.
func (s *Service) nextTransactionNo(txType models.TransactionType, now time.Time) (string, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.transactions.CountSince(txType, dayStart)
	if err != nil {
		return "", err
	}

	prefix := "OUT"
	if txType == models.TransactionInbound {
		prefix = "INB"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), count+1), nil
}

// Reweigh updates the measured weight of a recorded transaction and
// appends to its weighing history. Reweighing changes measured mass, not
// counted quantity, so the stock summary is deliberately left untouched.
func (s *Service) Reweigh(id uint, currentWeight float64, notes, operator string) (*models.InventoryTransaction, error) {
	if currentWeight < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "currentWeight must not be negative")
	}

	tx, err := s.transactions.Find(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Transaction not found")
	}

	// Shrinkage is initial minus current; weight gain yields a negative
	// value and is stored as-is.
	shrinkage := 0.0
	if tx.InitialWeight != nil {
		shrinkage = *tx.InitialWeight - currentWeight
	}

	if err := s.transactions.UpdateWeights(id, currentWeight, shrinkage); err != nil {
		return nil, err
	}

	rec := &models.WeighingRecord{
		TransactionID: id,
		Weight:        currentWeight,
		WeighedBy:     operator,
		Notes:         notes,
		WeighedAt:     s.now(),
	}
	if err := s.transactions.AppendWeighingRecord(rec); err != nil {
		return nil, err
	}

	updated, err := s.transactions.FindWithRelations(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Transaction not found")
	}

	if s.bus != nil {
		s.bus.Publish(events.InventoryUpdate{Kind: events.KindReweigh, Transaction: updated})
	}

	return updated, nil
}
