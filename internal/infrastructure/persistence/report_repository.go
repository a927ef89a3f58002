package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/report"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// ConsumedDays sums approved business days for one employee in a year.
// Returns zero, not null, when the employee has no approved requests.
func (r *GormReportRepository) ConsumedDays(ctx context.Context, employeeID uuid.UUID, year int) (decimal.Decimal, error) {
	start, end := yearBounds(year)

	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(rdr.business_days), 0) AS total
		FROM request_date_ranges rdr
		JOIN vacation_requests vr ON vr.id = rdr.request_id
		WHERE vr.employee_id = ?
		  AND vr.status = ?
		  AND vr.created_at >= ? AND vr.created_at < ?`,
		employeeID, string(vacation.StatusApproved), start, end,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// TypeSummaries groups one employee's approved in-year requests by type.
func (r *GormReportRepository) TypeSummaries(ctx context.Context, employeeID uuid.UUID, year int) ([]report.TypeSummary, error) {
	start, end := yearBounds(year)

	var rows []struct {
		RequestType   string
		TotalRequests int64
		TotalDays     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT vr.request_type AS request_type,
		       COUNT(DISTINCT vr.id) AS total_requests,
		       COALESCE(SUM(rdr.business_days), 0) AS total_days
		FROM vacation_requests vr
		LEFT JOIN request_date_ranges rdr ON rdr.request_id = vr.id
		WHERE vr.employee_id = ?
		  AND vr.status = ?
		  AND vr.created_at >= ? AND vr.created_at < ?
		GROUP BY vr.request_type
		ORDER BY vr.request_type`,
		employeeID, string(vacation.StatusApproved), start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]report.TypeSummary, len(rows))
	for i, row := range rows {
		summaries[i] = report.TypeSummary{
			RequestType:   vacation.RequestType(row.RequestType),
			TotalRequests: row.TotalRequests,
			TotalDays:     row.TotalDays,
		}
	}
	return summaries, nil
}

// EmployeeRequests returns one employee's requests created in the year, any
// status, newest first. Ranges are preloaded and directory fields joined so
// report callers get the same detail shape the lifecycle endpoints serve.
func (r *GormReportRepository) EmployeeRequests(ctx context.Context, employeeID uuid.UUID, year int) ([]*vacation.RequestDetail, error) {
	start, end := yearBounds(year)

	var requestModels []models.VacationRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Ranges").
		Where("employee_id = ? AND created_at >= ? AND created_at < ?", employeeID, start, end).
		Order("created_at DESC").
		Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return joinRequestDetails(ctx, r.db, requestModels)
}

// AllEmployees returns one summary row per active user for the year, ordered
// by full name. Users without approved requests appear with zero sums.
func (r *GormReportRepository) AllEmployees(ctx context.Context, year int) ([]report.EmployeeYearSummary, error) {
	start, end := yearBounds(year)

	var rows []struct {
		ID             uuid.UUID
		FullName       string
		Email          string
		EmployeeNumber string
		Position       string
		VacationDays   decimal.Decimal
		PermissionDays decimal.Decimal
		AbsenceDays    decimal.Decimal
		TotalDays      decimal.Decimal
		TotalRequests  int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.full_name, u.email, u.employee_number, u.position,
		       COALESCE(SUM(CASE WHEN vr.request_type = ? THEN rdr.business_days ELSE 0 END), 0) AS vacation_days,
		       COALESCE(SUM(CASE WHEN vr.request_type = ? THEN rdr.business_days ELSE 0 END), 0) AS permission_days,
		       COALESCE(SUM(CASE WHEN vr.request_type = ? THEN rdr.business_days ELSE 0 END), 0) AS absence_days,
		       COALESCE(SUM(rdr.business_days), 0) AS total_days,
		       COUNT(DISTINCT vr.id) AS total_requests
		FROM users u
		LEFT JOIN vacation_requests vr
		       ON vr.employee_id = u.id
		      AND vr.status = ?
		      AND vr.created_at >= ? AND vr.created_at < ?
		LEFT JOIN request_date_ranges rdr ON rdr.request_id = vr.id
		WHERE u.is_active = ?
		GROUP BY u.id, u.full_name, u.email, u.employee_number, u.position
		ORDER BY u.full_name ASC`,
		string(vacation.TypeVacation), string(vacation.TypePermission), string(vacation.TypeJustifiedAbsence),
		string(vacation.StatusApproved), start, end, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]report.EmployeeYearSummary, len(rows))
	for i, row := range rows {
		summaries[i] = report.EmployeeYearSummary{
			UserID:         row.ID,
			FullName:       row.FullName,
			Email:          row.Email,
			EmployeeNumber: row.EmployeeNumber,
			Position:       row.Position,
			VacationDays:   row.VacationDays,
			PermissionDays: row.PermissionDays,
			AbsenceDays:    row.AbsenceDays,
			TotalDays:      row.TotalDays,
			TotalRequests:  row.TotalRequests,
		}
	}
	return summaries, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
