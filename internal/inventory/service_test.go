package inventory

import (
	"context"
	"testing"
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxRepo struct {
	nextID   uint
	rows     map[uint]*models.InventoryTransaction
	weighing map[uint][]models.WeighingRecord
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		nextID:   1,
		rows:     make(map[uint]*models.InventoryTransaction),
		weighing: make(map[uint][]models.WeighingRecord),
	}
}

func (r *fakeTxRepo) CountSince(txType models.TransactionType, start time.Time) (int64, error) {
	var count int64
	for _, tx := range r.rows {
		if tx.Type == txType && !tx.TransactionDate.Before(start) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTxRepo) Create(tx *models.InventoryTransaction) error {
	tx.ID = r.nextID
	r.nextID++
	r.rows[tx.ID] = tx
	return nil
}

func (r *fakeTxRepo) Find(id uint) (*models.InventoryTransaction, error) {
	return r.rows[id], nil
}

func (r *fakeTxRepo) FindWithRelations(id uint) (*models.InventoryTransaction, error) {
	tx := r.rows[id]
	if tx == nil {
		return nil, nil
	}
	copied := *tx
	copied.WeighingRecords = r.weighing[id]
	return &copied, nil
}

func (r *fakeTxRepo) UpdateWeights(id uint, currentWeight float64, shrinkage float64) error {
	tx := r.rows[id]
	tx.CurrentWeight = &currentWeight
	tx.Shrinkage = &shrinkage
	return nil
}

func (r *fakeTxRepo) AppendWeighingRecord(rec *models.WeighingRecord) error {
	r.weighing[rec.TransactionID] = append(r.weighing[rec.TransactionID], *rec)
	return nil
}

type fakeSummaryRepo struct {
	rows map[string]*models.StockSummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: make(map[string]*models.StockSummary)}
}

func (r *fakeSummaryRepo) Find(barcode string) (*models.StockSummary, error) {
	return r.rows[barcode], nil
}

func (r *fakeSummaryRepo) Create(s *models.StockSummary) error {
	r.rows[s.Barcode] = s
	return nil
}

func (r *fakeSummaryRepo) Increment(barcode string, delta float64, txType models.TransactionType, at time.Time) error {
	s := r.rows[barcode]
	s.CurrentStock += delta
	if txType == models.TransactionInbound {
		s.LastInbound = &at
	} else {
		s.LastOutbound = &at
	}
	return nil
}

type fakeItemLookup struct {
	materials map[string]*models.Material
	products  map[string]*models.Product
}

func (l *fakeItemLookup) Material(barcode string) (*models.Material, error) {
	return l.materials[barcode], nil
}

func (l *fakeItemLookup) Product(barcode string) (*models.Product, error) {
	return l.products[barcode], nil
}

type fixture struct {
	svc       *Service
	txRepo    *fakeTxRepo
	summaries *fakeSummaryRepo
	bus       *events.Bus
}

func newFixture() *fixture {
	txRepo := newFakeTxRepo()
	summaries := newFakeSummaryRepo()
	items := &fakeItemLookup{
		materials: map[string]*models.Material{
			"MAT-001": {ID: 1, Barcode: "MAT-001", Name: "Flour", Unit: "kg", MinStock: 100},
		},
		products: map[string]*models.Product{
			"PRD-001": {ID: 7, Barcode: "PRD-001", Name: "Bread", Unit: "pcs"},
		},
	}
	bus := events.NewBus()
	ledger := stock.NewLedger(summaries, items)
	svc := NewService(txRepo, items, ledger, bus, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return &fixture{svc: svc, txRepo: txRepo, summaries: summaries, bus: bus}
}

func validScan() ScanInput {
	return ScanInput{
		Barcode:  "MAT-001",
		Type:     "INBOUND",
		ItemType: "MATERIAL",
		Quantity: 150,
		Unit:     "kg",
	}
}

func TestScanUnknownBarcodeNotFound(t *testing.T) {
	fx := newFixture()

	in := validScan()
	in.Barcode = "UNKNOWN"

	_, err := fx.svc.Scan(in, nil)
	require.Error(t, err)
	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)

	assert.Empty(t, fx.txRepo.rows, "no transaction persisted")
	assert.Empty(t, fx.summaries.rows, "no summary mutated")
}

func TestScanValidation(t *testing.T) {
	fx := newFixture()

	cases := []struct {
		name   string
		mutate func(*ScanInput)
	}{
		{"missing barcode", func(in *ScanInput) { in.Barcode = "" }},
		{"bad type", func(in *ScanInput) { in.Type = "SIDEWAYS" }},
		{"bad item type", func(in *ScanInput) { in.ItemType = "GADGET" }},
		{"zero quantity", func(in *ScanInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *ScanInput) { in.Quantity = -3 }},
		{"missing unit", func(in *ScanInput) { in.Unit = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validScan()
			tc.mutate(&in)

			_, err := fx.svc.Scan(in, nil)
			require.Error(t, err)
			fiberErr, ok := err.(*fiber.Error)
			require.True(t, ok)
			assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
		})
	}
}

func TestScanRecordsTransaction(t *testing.T) {
	fx := newFixture()

	weight := 152.5
	in := validScan()
	in.InitialWeight = &weight
	userID := uint(9)

	tx, err := fx.svc.Scan(in, &userID)
	require.NoError(t, err)

	assert.Equal(t, "INB-20250315-0001", tx.TransactionNo)
	assert.Equal(t, models.TransactionInbound, tx.Type)
	assert.Equal(t, models.ItemMaterial, tx.ItemType)
	require.NotNil(t, tx.MaterialID)
	assert.Equal(t, uint(1), *tx.MaterialID)
	assert.Nil(t, tx.ProductID)
	require.NotNil(t, tx.CurrentWeight)
	assert.Equal(t, weight, *tx.CurrentWeight, "currentWeight initialized to initialWeight")
	require.NotNil(t, tx.UserID)
	assert.Equal(t, userID, *tx.UserID)

	s := fx.summaries.rows["MAT-001"]
	require.NotNil(t, s)
	assert.Equal(t, 150.0, s.CurrentStock)
}

func TestScanSequenceIncrementsWithinDay(t *testing.T) {
	fx := newFixture()

	first, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)
	second, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)

	assert.Equal(t, "INB-20250315-0001", first.TransactionNo)
	assert.Equal(t, "INB-20250315-0002", second.TransactionNo)

	// Outbound keeps its own sequence.
	out := validScan()
	out.Type = "OUTBOUND"
	out.Quantity = 10
	third, err := fx.svc.Scan(out, nil)
	require.NoError(t, err)
	assert.Equal(t, "OUT-20250315-0001", third.TransactionNo)
}

func TestScanPublishesInventoryUpdate(t *testing.T) {
	fx := newFixture()

	received := make(chan events.InventoryUpdate, 1)
	fx.bus.Subscribe(func(ev events.InventoryUpdate) {
		received <- ev
	})

	tx, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)

	select {
	case ev := <-received:
		assert.Equal(t, events.KindScan, ev.Kind)
		assert.Equal(t, tx.TransactionNo, ev.Transaction.TransactionNo)
	case <-time.After(time.Second):
		t.Fatal("no inventory update published")
	}
}

type memoryStore struct {
	entries map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) {
	m.entries[key] = value
}

func (m *memoryStore) Del(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(m.entries, k)
	}
}

func TestScanInvalidatesCaches(t *testing.T) {
	fx := newFixture()

	store := &memoryStore{entries: map[string]string{
		cache.KeyStockSummary:            `[]`,
		cache.KeyDashboardStats("today"): `{}`,
		cache.KeyDashboardStats("week"):  `{}`,
		"unrelated":                      `keep`,
	}}

	invalidated := make(chan struct{}, 1)
	fx.bus.Subscribe(func(events.InventoryUpdate) {
		cache.InvalidateInventory(context.Background(), store)
		invalidated <- struct{}{}
	})

	_, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)

	select {
	case <-invalidated:
	case <-time.After(time.Second):
		t.Fatal("cache invalidation never ran")
	}

	_, ok := store.entries[cache.KeyStockSummary]
	assert.False(t, ok)
	_, ok = store.entries[cache.KeyDashboardStats("today")]
	assert.False(t, ok)
	_, ok = store.entries[cache.KeyDashboardStats("week")]
	assert.False(t, ok)
	assert.Equal(t, "keep", store.entries["unrelated"])
}

func TestReweighNotFound(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Reweigh(99, 50, "", "op@example.com")
	require.Error(t, err)
	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestReweighComputesShrinkage(t *testing.T) {
	fx := newFixture()

	weight := 80.0
	in := validScan()
	in.Type = "OUTBOUND"
	in.Quantity = 80
	in.InitialWeight = &weight

	tx, err := fx.svc.Scan(in, nil)
	require.NoError(t, err)
	stockBefore := fx.summaries.rows["MAT-001"].CurrentStock

	updated, err := fx.svc.Reweigh(tx.ID, 78, "routine check", "op@example.com")
	require.NoError(t, err)

	require.NotNil(t, updated.Shrinkage)
	assert.Equal(t, 2.0, *updated.Shrinkage)
	require.NotNil(t, updated.CurrentWeight)
	assert.Equal(t, 78.0, *updated.CurrentWeight)

	// Reweighing changes measured mass, never counted quantity.
	assert.Equal(t, stockBefore, fx.summaries.rows["MAT-001"].CurrentStock)

	records := fx.txRepo.weighing[tx.ID]
	require.Len(t, records, 1)
	assert.Equal(t, 78.0, records[0].Weight)
	assert.Equal(t, "op@example.com", records[0].WeighedBy)
	assert.Equal(t, "routine check", records[0].Notes)
}

func TestReweighNegativeShrinkageStoredAsIs(t *testing.T) {
	fx := newFixture()

	weight := 80.0
	in := validScan()
	in.InitialWeight = &weight

	tx, err := fx.svc.Scan(in, nil)
	require.NoError(t, err)

	updated, err := fx.svc.Reweigh(tx.ID, 85, "", "op@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated.Shrinkage)
	assert.Equal(t, -5.0, *updated.Shrinkage)
}

func TestReweighWithoutInitialWeight(t *testing.T) {
	fx := newFixture()

	tx, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)

	updated, err := fx.svc.Reweigh(tx.ID, 42, "", "op@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated.Shrinkage)
	assert.Equal(t, 0.0, *updated.Shrinkage)
}

// Full walkthrough: inbound 150, outbound 80, reweigh the outbound.
func TestScanReweighScenario(t *testing.T) {
	fx := newFixture()
	material := &models.Material{MinStock: 100}

	_, err := fx.svc.Scan(validScan(), nil)
	require.NoError(t, err)

	s := fx.summaries.rows["MAT-001"]
	assert.Equal(t, 150.0, s.CurrentStock)
	s.Material = material
	assert.False(t, s.LowStock())

	weight := 80.0
	out := validScan()
	out.Type = "OUTBOUND"
	out.Quantity = 80
	out.InitialWeight = &weight
	outTx, err := fx.svc.Scan(out, nil)
	require.NoError(t, err)

	assert.Equal(t, 70.0, s.CurrentStock)
	assert.True(t, s.LowStock(), "70 <= minStock 100")

	updated, err := fx.svc.Reweigh(outTx.ID, 78, "", "op@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated.Shrinkage)
	assert.Equal(t, 2.0, *updated.Shrinkage)
	assert.Equal(t, 70.0, s.CurrentStock, "reweigh leaves stock untouched")
}
