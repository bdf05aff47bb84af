package stock

import (
	"math/rand"
	"testing"
	"time"

	"warehouse-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newFakeItemLookup() *fakeItemLookup {
	return &fakeItemLookup{
		materials: make(map[string]*models.Material),
		products:  make(map[string]*models.Product),
	}
}

func (l *fakeItemLookup) Material(barcode string) (*models.Material, error) {
	return l.materials[barcode], nil
}

func (l *fakeItemLookup) Product(barcode string) (*models.Product, error) {
	return l.products[barcode], nil
}

func newTestLedger() (*Ledger, *fakeSummaryRepo, *fakeItemLookup) {
	repo := newFakeSummaryRepo()
	items := newFakeItemLookup()
	items.materials["MAT-001"] = &models.Material{ID: 1, Barcode: "MAT-001", Name: "Flour", Unit: "kg", MinStock: 100}
	items.products["PRD-001"] = &models.Product{ID: 7, Barcode: "PRD-001", Name: "Bread", Unit: "pcs"}
	return NewLedger(repo, items), repo, items
}

func TestApplyCreatesSummaryOnFirstTransaction(t *testing.T) {
	ledger, repo, _ := newTestLedger()

	err := ledger.Apply("MAT-001", models.ItemMaterial, models.TransactionInbound, 150)
	require.NoError(t, err)

	s := repo.rows["MAT-001"]
	require.NotNil(t, s)
	assert.Equal(t, 150.0, s.CurrentStock)
	assert.Equal(t, "kg", s.Unit)
	require.NotNil(t, s.MaterialID)
	assert.Equal(t, uint(1), *s.MaterialID)
	assert.Nil(t, s.ProductID)
	assert.NotNil(t, s.LastInbound)
	assert.Nil(t, s.LastOutbound)
}

func TestApplyOutboundFirstCreatesNegativeSummary(t *testing.T) {
	ledger, repo, _ := newTestLedger()

	err := ledger.Apply("PRD-001", models.ItemProduct, models.TransactionOutbound, 30)
	require.NoError(t, err)

	s := repo.rows["PRD-001"]
	require.NotNil(t, s)
	assert.Equal(t, -30.0, s.CurrentStock)
	require.NotNil(t, s.ProductID)
	assert.Equal(t, uint(7), *s.ProductID)
	assert.Nil(t, s.LastInbound)
	assert.NotNil(t, s.LastOutbound)
}

func TestApplyIncrementsExistingSummary(t *testing.T) {
	ledger, repo, _ := newTestLedger()

	require.NoError(t, ledger.Apply("MAT-001", models.ItemMaterial, models.TransactionInbound, 150))
	require.NoError(t, ledger.Apply("MAT-001", models.ItemMaterial, models.TransactionOutbound, 80))

	s := repo.rows["MAT-001"]
	assert.Equal(t, 70.0, s.CurrentStock)
	assert.NotNil(t, s.LastInbound)
	assert.NotNil(t, s.LastOutbound)
}

func TestApplyUnknownBarcodeFails(t *testing.T) {
	ledger, repo, _ := newTestLedger()

	err := ledger.Apply("NOPE", models.ItemMaterial, models.TransactionInbound, 1)
	require.Error(t, err)
	assert.Empty(t, repo.rows)
}

// Replaying any sequence of inbound/outbound transactions must leave
// current_stock equal to the sum of inbound minus the sum of outbound.
func TestApplyReplayProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		ledger, repo, _ := newTestLedger()

		expected := 0.0
		steps := 1 + rng.Intn(100)
		for i := 0; i < steps; i++ {
			qty := float64(1+rng.Intn(500)) / 10
			txType := models.TransactionInbound
			if rng.Intn(2) == 0 {
				txType = models.TransactionOutbound
			}

			if txType == models.TransactionInbound {
				expected += qty
			} else {
				expected -= qty
			}
			require.NoError(t, ledger.Apply("MAT-001", models.ItemMaterial, txType, qty))
		}

		s := repo.rows["MAT-001"]
		require.NotNil(t, s)
		assert.InDelta(t, expected, s.CurrentStock, 1e-9, "round %d after %d steps", round, steps)
	}
}
