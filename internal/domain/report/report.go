package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
)

// EmployeeYearSummary is one row of the org-wide report: approved business
// days for one active user in one year, broken out by request type. Users
// with no approved requests appear with zero sums, never nulls.
type EmployeeYearSummary struct {
	UserID         uuid.UUID       `json:"id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	EmployeeNumber string          `json:"employee_number"`
	Position       string          `json:"position"`
	VacationDays   decimal.Decimal `json:"vacation_days"`
	PermissionDays decimal.Decimal `json:"permission_days"`
	AbsenceDays    decimal.Decimal `json:"absence_days"`
	TotalDays      decimal.Decimal `json:"total_days"`
	TotalRequests  int64           `json:"total_requests"`
}

// TypeSummary groups one employee's approved in-year requests by type.
type TypeSummary struct {
	RequestType   vacation.RequestType `json:"request_type"`
	TotalRequests int64                `json:"total_requests"`
	TotalDays     decimal.Decimal      `json:"total_days"`
}

// Repository defines the read-only aggregation queries behind reports.
// Year filters are half-open bounds on created_at, matching the numbering
// scope of requests.
type Repository interface {
	// ConsumedDays sums approved business days for one employee in a year.
	ConsumedDays(ctx context.Context, employeeID uuid.UUID, year int) (decimal.Decimal, error)
	// TypeSummaries groups one employee's approved in-year days by type.
	TypeSummaries(ctx context.Context, employeeID uuid.UUID, year int) ([]TypeSummary, error)
	// EmployeeRequests returns one employee's requests created in the year,
	// any status, newest first, with ranges and directory fields attached.
	EmployeeRequests(ctx context.Context, employeeID uuid.UUID, year int) ([]*vacation.RequestDetail, error)
	// AllEmployees returns one summary row per active user for the year,
	// ordered by full name, with zero sums for users without approvals.
	AllEmployees(ctx context.Context, year int) ([]EmployeeYearSummary, error)
}
