// Package hrm provides tenant-scoped operations for employees and monthly
// salary records.
package hrm

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizdesk/bizdesk/internal/db/models"
)

const whereTenantAndID = "tenant_id = ? AND id = ?"

var (
	// ErrEmployeeNotFound is returned when an employee is not found.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrSalaryNotFound is returned when a salary record is not found.
	ErrSalaryNotFound = errors.New("salary record not found")
	// ErrInvalidMonth is returned when a salary month is not in YYYY-MM form.
	ErrInvalidMonth = errors.New("salary month must be in YYYY-MM form")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	monthRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// ListEmployees retrieves all employees of a tenant.
func ListEmployees(db *gorm.DB, tenantID string) ([]models.Employee, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var employees []models.Employee
	result := db.Where("tenant_id = ?", tenantID).Order("full_name").Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}

	return employees, nil
}

// GetEmployee retrieves an employee by id within a tenant.
func GetEmployee(db *gorm.DB, tenantID, id string) (*models.Employee, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var employee models.Employee
	result := db.Where(whereTenantAndID, tenantID, id).First(&employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, result.Error
	}

	return &employee, nil
}

// CreateEmployee creates a new employee record.
func CreateEmployee(db *gorm.DB, employee *models.Employee) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(employee).Error
}

// UpdateEmployee applies field updates to an employee within a tenant.
func UpdateEmployee(db *gorm.DB, tenantID, id string, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Employee{}).Where(whereTenantAndID, tenantID, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

// CountEmployees returns the number of employees of a tenant.
func CountEmployees(db *gorm.DB, tenantID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Employee{}).Where("tenant_id = ?", tenantID).Count(&count)

	return count, result.Error
}

// ListSalaries retrieves the salary records of a tenant for one month.
func ListSalaries(db *gorm.DB, tenantID, month string) ([]models.Salary, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Where("tenant_id = ?", tenantID)
	if month != "" {
		query = query.Where("month = ?", month)
	}

	var salaries []models.Salary
	result := query.Order("month DESC").Find(&salaries)
	if result.Error != nil {
		return nil, result.Error
	}

	return salaries, nil
}

// UpsertSalary writes the salary record of an employee for one month.
// A second write for the same employee and month overwrites the first.
func UpsertSalary(db *gorm.DB, salary *models.Salary) error {
	if db == nil {
		return ErrDBNil
	}

	if !monthRE.MatchString(salary.Month) {
		return ErrInvalidMonth
	}

	if _, err := GetEmployee(db, salary.TenantID, salary.EmployeeID); err != nil {
		return err
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "month"}},
		UpdateAll: true,
	}).Create(salary).Error
}
