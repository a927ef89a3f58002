package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockReportRepository creates a GormReportRepository over a mocked
// Postgres connection so the raw aggregate SQL can be verified against the
// production dialect.
func newMockReportRepository(t *testing.T) (*GormReportRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormReportRepository(gormDB), mock, mockDB
}

func TestGormReportRepository_ConsumedDays_SQL(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	employeeID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(rdr\.business_days\), 0\) AS total`).
		WithArgs(employeeID, "approved", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("7.5"))

	total, err := repo.ConsumedDays(context.Background(), employeeID, 2026)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("7.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_ConsumedDays_YearBounds(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	employeeID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(rdr\.business_days\), 0\) AS total`).
		WithArgs(employeeID, "approved", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

	_, err := repo.ConsumedDays(context.Background(), employeeID, 2026)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_TypeSummaries_SQL(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	employeeID := uuid.New()

	rows := sqlmock.NewRows([]string{"request_type", "total_requests", "total_days"}).
		AddRow("permission", 1, "2").
		AddRow("vacation", 2, "10")
	mock.ExpectQuery(`SELECT vr\.request_type AS request_type`).
		WithArgs(employeeID, "approved", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	summaries, err := repo.TypeSummaries(context.Background(), employeeID, 2026)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(2), summaries[1].TotalRequests)
	assert.True(t, summaries[1].TotalDays.Equal(decimal.NewFromInt(10)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_AllEmployees_SQL(t *testing.T) {
	repo, mock, mockDB := newMockReportRepository(t)
	defer mockDB.Close()

	userID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "full_name", "email", "employee_number", "position",
		"vacation_days", "permission_days", "absence_days", "total_days", "total_requests",
	}).AddRow(userID, "Jane Doe", "jane@example.com", "E-1", "Analyst", "5", "0", "0", "5", 1)

	mock.ExpectQuery(`LEFT JOIN vacation_requests vr`).
		WithArgs("vacation", "permission", "justified_absence", "approved",
			sqlmock.AnyArg(), sqlmock.AnyArg(), true).
		WillReturnRows(rows)

	summaries, err := repo.AllEmployees(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, userID, summaries[0].UserID)
	assert.True(t, summaries[0].VacationDays.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(1), summaries[0].TotalRequests)
	assert.NoError(t, mock.ExpectationsWereMet())
}
