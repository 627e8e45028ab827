package order

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	return db
}

func testItems() []models.OrderItem {
	return []models.OrderItem{
		{ProductID: "p-1", Name: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		{ProductID: "p-2", Name: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
	}
}

func testOrder(tenantID string) *models.Order {
	return &models.Order{
		TenantID:  tenantID,
		Customer:  "Pat Doe",
		Items:     datatypes.NewJSONType(testItems()),
		CreatedBy: "Pat Doe",
	}
}

func TestCreateAssignsReferenceAndTotal(t *testing.T) {
	db := testDB(t)

	o := testOrder("acme")
	require.NoError(t, Create(db, o))

	assert.True(t, strings.HasPrefix(o.Reference, "SO-"))
	assert.Equal(t, models.OrderDraft, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(25)))

	got, err := Get(db, "acme", o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items.Data(), 2)
}

func TestCreateEmptyOrder(t *testing.T) {
	db := testDB(t)

	assert.ErrorIs(t, Create(db, &models.Order{TenantID: "acme", Customer: "Pat"}), ErrEmptyOrder)
}

func TestUpdateItemsRecomputesTotal(t *testing.T) {
	db := testDB(t)

	o := testOrder("acme")
	require.NoError(t, Create(db, o))

	items := []models.OrderItem{
		{ProductID: "p-1", Name: "Widget", Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
	}
	require.NoError(t, UpdateItems(db, "acme", o.ID, items))

	got, err := Get(db, "acme", o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items.Data(), 1)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(30)))
}

func TestUpdateItemsOnlyOnDrafts(t *testing.T) {
	db := testDB(t)

	o := testOrder("acme")
	require.NoError(t, Create(db, o))
	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderConfirmed))

	err := UpdateItems(db, "acme", o.ID, testItems())
	assert.ErrorIs(t, err, ErrOrderNotDraft)
}

func TestSetStatusFollowsLifecycle(t *testing.T) {
	db := testDB(t)

	o := testOrder("acme")
	require.NoError(t, Create(db, o))

	// draft cannot jump ahead
	assert.ErrorIs(t, SetStatus(db, "acme", o.ID, models.OrderShipped), ErrInvalidStatusChange)
	assert.ErrorIs(t, SetStatus(db, "acme", o.ID, models.OrderDone), ErrInvalidStatusChange)

	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderConfirmed))
	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderShipped))
	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderDone))

	// done is terminal
	assert.ErrorIs(t, SetStatus(db, "acme", o.ID, models.OrderDraft), ErrInvalidStatusChange)
	assert.ErrorIs(t, SetStatus(db, "acme", o.ID, models.OrderCancelled), ErrInvalidStatusChange)
}

func TestSetStatusCancelFromOpenStatus(t *testing.T) {
	db := testDB(t)

	o := testOrder("acme")
	require.NoError(t, Create(db, o))
	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderConfirmed))
	require.NoError(t, SetStatus(db, "acme", o.ID, models.OrderCancelled))

	// cancelled is terminal too
	assert.ErrorIs(t, SetStatus(db, "acme", o.ID, models.OrderConfirmed), ErrInvalidStatusChange)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	db := testDB(t)

	assert.ErrorIs(t, SetStatus(db, "acme", "missing", models.OrderConfirmed), ErrOrderNotFound)
}
