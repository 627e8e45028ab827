package hrm

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
	require.NoError(t, db.AutoMigrate(&models.Employee{}, &models.Salary{}))

	return db
}

func TestUpsertSalaryOverwrites(t *testing.T) {
	db := testDB(t)

	employee := &models.Employee{TenantID: "acme", FullName: "Pat Smith"}
	require.NoError(t, CreateEmployee(db, employee))

	first := &models.Salary{
		TenantID:   "acme",
		EmployeeID: employee.ID,
		Month:      "2026-08",
		Base:       decimal.NewFromInt(3000),
		Bonus:      decimal.NewFromInt(200),
	}
	require.NoError(t, UpsertSalary(db, first))

	second := &models.Salary{
		TenantID:   "acme",
		EmployeeID: employee.ID,
		Month:      "2026-08",
		Base:       decimal.NewFromInt(3100),
		Deduction:  decimal.NewFromInt(50),
	}
	require.NoError(t, UpsertSalary(db, second))

	salaries, err := ListSalaries(db, "acme", "2026-08")
	require.NoError(t, err)
	require.Len(t, salaries, 1)
	assert.True(t, salaries[0].Base.Equal(decimal.NewFromInt(3100)))
	assert.True(t, salaries[0].Net().Equal(decimal.NewFromInt(3050)))
}

func TestUpsertSalaryValidatesMonth(t *testing.T) {
	db := testDB(t)

	err := UpsertSalary(db, &models.Salary{TenantID: "acme", EmployeeID: "x", Month: "08-2026"})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	err = UpsertSalary(db, &models.Salary{TenantID: "acme", EmployeeID: "x", Month: "2026-13"})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestUpsertSalaryRequiresEmployee(t *testing.T) {
	db := testDB(t)

	err := UpsertSalary(db, &models.Salary{TenantID: "acme", EmployeeID: "missing", Month: "2026-08"})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestEmployeeTenantIsolation(t *testing.T) {
	db := testDB(t)

	employee := &models.Employee{TenantID: "acme", FullName: "Pat Smith"}
	require.NoError(t, CreateEmployee(db, employee))

	_, err := GetEmployee(db, "globo", employee.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	count, err := CountEmployees(db, "globo")
	require.NoError(t, err)
	assert.Zero(t, count)
}
