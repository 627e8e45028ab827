// Package backup dumps and restores all tenant-scoped tables as JSON.
// Export writes one timestamped file per run; Restore upserts rows by
// primary key so a restore over live data never duplicates.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

// PageSize is the number of rows read or written per batch.
const PageSize = 500

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrEmptyTenant is returned when no tenant slug was given.
	ErrEmptyTenant = errors.New("tenant slug is empty")
)

type tableSpec struct {
	name  string
	slice func() interface{} // pointer to an empty slice of the model
}

// specs lists every tenant-scoped table in dump order.
func specs() []tableSpec {
	return []tableSpec{
		{"users", func() interface{} { return &[]models.User{} }},
		{"products", func() interface{} { return &[]models.Product{} }},
		{"stock_movements", func() interface{} { return &[]models.StockMovement{} }},
		{"orders", func() interface{} { return &[]models.Order{} }},
		{"media_tasks", func() interface{} { return &[]models.MediaTask{} }},
		{"tech_jobs", func() interface{} { return &[]models.TechJob{} }},
		{"finance_entries", func() interface{} { return &[]models.FinanceEntry{} }},
		{"warranty_claims", func() interface{} { return &[]models.WarrantyClaim{} }},
		{"employees", func() interface{} { return &[]models.Employee{} }},
		{"salaries", func() interface{} { return &[]models.Salary{} }},
		{"chat_messages", func() interface{} { return &[]models.ChatMessage{} }},
		{"activities", func() interface{} { return &[]models.Activity{} }},
		{"settings", func() interface{} { return &[]models.Setting{} }},
	}
}

type dumpFile struct {
	Tenant    string                     `json:"tenant"`
	CreatedAt time.Time                  `json:"created_at"`
	Tables    map[string]json.RawMessage `json:"tables"`
}

// Export dumps every tenant-scoped table of one tenant into a timestamped
// JSON file under dir and returns the file path. Tables are read in pages
// so a large tenant does not load wholesale into memory per query.
func Export(db *gorm.DB, tenantID, dir string) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	if tenantID == "" {
		return "", ErrEmptyTenant
	}

	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dump := dumpFile{
		Tenant:    tenantID,
		CreatedAt: time.Now().UTC(),
		Tables:    map[string]json.RawMessage{},
	}

	for _, spec := range specs() {
		combined := reflect.ValueOf(spec.slice()).Elem()

		for offset := 0; ; offset += PageSize {
			page := spec.slice()

			// offset pagination needs a stable order or pages can skip
			// and duplicate rows
			err := db.Where("tenant_id = ?", tenantID).Order("id").
				Limit(PageSize).Offset(offset).Find(page).Error
			if err != nil {
				return "", fmt.Errorf("failed to dump table %s: %w", spec.name, err)
			}

			pageValue := reflect.ValueOf(page).Elem()
			combined = reflect.AppendSlice(combined, pageValue)

			if pageValue.Len() < PageSize {
				break
			}
		}

		raw, err := json.Marshal(combined.Interface())
		if err != nil {
			return "", fmt.Errorf("failed to marshal table %s: %w", spec.name, err)
		}

		dump.Tables[spec.name] = raw

		log.Debug().Str("table", spec.name).Int("rows", combined.Len()).Msg("table dumped")
	}

	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dump: %w", err)
	}

	filename := fmt.Sprintf("bizdesk-%s-%s.json", tenantID, dump.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, out, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Info().Str("tenant", tenantID).Str("file", path).Msg("backup written")

	return path, nil
}

// Restore reads a dump file and upserts its rows by primary key. Existing
// rows are overwritten, missing ones created; rows absent from the dump
// are left untouched.
func Restore(db *gorm.DB, path string) error {
	if db == nil {
		return ErrDBNil
	}

	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var dump dumpFile
	if err := json.Unmarshal(raw, &dump); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	if dump.Tenant == "" {
		return ErrEmptyTenant
	}

	for _, spec := range specs() {
		rawTable, ok := dump.Tables[spec.name]
		if !ok {
			continue
		}

		rows := spec.slice()
		if err := json.Unmarshal(rawTable, rows); err != nil {
			return fmt.Errorf("failed to parse table %s: %w", spec.name, err)
		}

		if reflect.ValueOf(rows).Elem().Len() == 0 {
			continue
		}

		err := db.Clauses(clause.OnConflict{UpdateAll: true}).
			CreateInBatches(rows, PageSize).Error
		if err != nil {
			return fmt.Errorf("failed to restore table %s: %w", spec.name, err)
		}

		log.Debug().Str("table", spec.name).
			Int("rows", reflect.ValueOf(rows).Elem().Len()).Msg("table restored")
	}

	log.Info().Str("tenant", dump.Tenant).Str("file", path).Msg("backup restored")

	return nil
}
