package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
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
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.StockMovement{},
		&models.Order{},
		&models.MediaTask{},
		&models.TechJob{},
		&models.FinanceEntry{},
		&models.WarrantyClaim{},
		&models.Employee{},
		&models.Salary{},
		&models.ChatMessage{},
		&models.Activity{},
		&models.Setting{},
	))

	return db
}

func TestExportRestoreRoundTrip(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	p := &models.Product{
		TenantID:  "acme",
		SKU:       "W-1",
		Name:      "Widget",
		UnitPrice: decimal.NewFromInt(10),
		Stock:     7,
	}
	require.NoError(t, db.Create(p).Error)

	// rows of other tenants must not leak into the dump
	require.NoError(t, db.Create(&models.Product{
		TenantID: "globo", SKU: "G-1", Name: "Gadget",
	}).Error)

	path, err := Export(db, "acme", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	// mutate and delete, then restore
	require.NoError(t, db.Model(p).Update("stock", 0).Error)
	require.NoError(t, db.Delete(&models.Product{}, "id = ?", p.ID).Error)

	require.NoError(t, Restore(db, path))

	var restored models.Product
	require.NoError(t, db.First(&restored, "id = ?", p.ID).Error)
	assert.Equal(t, 7, restored.Stock)
	assert.Equal(t, "W-1", restored.SKU)

	// the foreign tenant row from before the restore is untouched
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("tenant_id = ?", "globo").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRestoreIsIdempotent(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	require.NoError(t, db.Create(&models.ChatMessage{
		TenantID: "acme", Sender: "Pat", Body: "hello",
	}).Error)

	path, err := Export(db, "acme", dir)
	require.NoError(t, err)

	require.NoError(t, Restore(db, path))
	require.NoError(t, Restore(db, path))

	var count int64
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExportPagesLargeTables(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	// more rows than one page so the export has to paginate
	total := PageSize + 25

	messages := make([]models.ChatMessage, 0, total)
	for i := 0; i < total; i++ {
		messages = append(messages, models.ChatMessage{
			TenantID: "acme", Sender: "Pat", Body: "hello",
		})
	}
	require.NoError(t, db.CreateInBatches(&messages, PageSize).Error)

	path, err := Export(db, "acme", dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var dump struct {
		Tables map[string]json.RawMessage `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(raw, &dump))

	var dumped []models.ChatMessage
	require.NoError(t, json.Unmarshal(dump.Tables["chat_messages"], &dumped))
	require.Len(t, dumped, total)

	// every row exactly once, no page overlap or gap
	seen := make(map[uint64]bool, total)
	for _, m := range dumped {
		assert.False(t, seen[m.ID], "row %d dumped twice", m.ID)
		seen[m.ID] = true
	}
}

func TestExportValidation(t *testing.T) {
	db := testDB(t)

	_, err := Export(nil, "acme", t.TempDir())
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Export(db, "", t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyTenant)
}
