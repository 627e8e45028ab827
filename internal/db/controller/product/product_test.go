package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.StockMovement{}))

	return db
}

func testProduct(tenantID, sku string, stock int) *models.Product {
	return &models.Product{
		TenantID:  tenantID,
		SKU:       sku,
		Name:      "Widget " + sku,
		UnitPrice: decimal.NewFromInt(10),
		Stock:     stock,
	}
}

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)

	p := testProduct("acme", "W-1", 5)
	require.NoError(t, Create(db, p))
	assert.NotEmpty(t, p.ID)

	got, err := Get(db, "acme", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "W-1", got.SKU)

	// same id under another tenant must not resolve
	_, err = Get(db, "globo", p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateDuplicateSKU(t *testing.T) {
	db := testDB(t)

	require.NoError(t, Create(db, testProduct("acme", "W-1", 5)))
	assert.ErrorIs(t, Create(db, testProduct("acme", "W-1", 5)), ErrSKUExists)

	// same sku in another tenant is fine
	assert.NoError(t, Create(db, testProduct("globo", "W-1", 5)))
}

func TestApplyMovement(t *testing.T) {
	db := testDB(t)

	p := testProduct("acme", "W-1", 10)
	require.NoError(t, Create(db, p))

	err := ApplyMovement(db, &models.StockMovement{
		TenantID:  "acme",
		ProductID: p.ID,
		Kind:      models.MovementImport,
		Quantity:  5,
	})
	require.NoError(t, err)

	err = ApplyMovement(db, &models.StockMovement{
		TenantID:  "acme",
		ProductID: p.ID,
		Kind:      models.MovementExport,
		Quantity:  12,
	})
	require.NoError(t, err)

	got, err := Get(db, "acme", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	movements, err := ListMovements(db, "acme", "")
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestApplyMovementRejectsOverdraw(t *testing.T) {
	db := testDB(t)

	p := testProduct("acme", "W-1", 2)
	require.NoError(t, Create(db, p))

	err := ApplyMovement(db, &models.StockMovement{
		TenantID:  "acme",
		ProductID: p.ID,
		Kind:      models.MovementExport,
		Quantity:  3,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the refused movement must not be booked
	movements, err := ListMovements(db, "acme", "")
	require.NoError(t, err)
	assert.Empty(t, movements)

	got, err := Get(db, "acme", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestApplyMovementRejectsNonPositiveQuantity(t *testing.T) {
	db := testDB(t)

	err := ApplyMovement(db, &models.StockMovement{
		TenantID: "acme",
		Kind:     models.MovementImport,
		Quantity: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestNilDB(t *testing.T) {
	_, err := List(nil, "acme")
	assert.ErrorIs(t, err, ErrDBNil)

	assert.ErrorIs(t, Create(nil, testProduct("acme", "W-1", 1)), ErrDBNil)
}
