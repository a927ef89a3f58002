package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/report"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmployeeReport is the per-employee yearly vacation balance joined with the
// year's request history, newest first. Requests of every status appear in
// the history; only approved ones count toward UsedDays.
type EmployeeReport struct {
	UserID           uuid.UUID
	FullName         string
	Year             int
	BaseVacationDays decimal.Decimal
	UsedDays         decimal.Decimal
	AvailableDays    decimal.Decimal
	ByType           []report.TypeSummary
	Requests         []*vacation.RequestDetail
}

// ReportService computes yearly consumption reports. Only approved requests
// count; pending and rejected requests never consume days.
type ReportService struct {
	reports report.Repository
	users   identity.UserRepository
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reports report.Repository, users identity.UserRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		users:   users,
		logger:  logger,
	}
}

// MyReport returns the acting user's own balance for a year.
func (s *ReportService) MyReport(ctx context.Context, actor *identity.User, year int) (*EmployeeReport, error) {
	return s.buildReport(ctx, actor, year)
}

// EmployeeReportFor returns another employee's balance. Visible to managers
// and admin roles only.
func (s *ReportService) EmployeeReportFor(ctx context.Context, actor *identity.User, employeeID uuid.UUID, year int) (*EmployeeReport, error) {
	if actor.ID != employeeID && !actor.Role.Can(identity.CapReportViewOthers) {
		return nil, shared.ErrForbidden
	}

	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.buildReport(ctx, employee, year)
}

// AllEmployeesReport returns one summary row per active user for the year.
// Visible to HR and super admins only.
func (s *ReportService) AllEmployeesReport(ctx context.Context, actor *identity.User, year int) ([]report.EmployeeYearSummary, error) {
	if !actor.Role.Can(identity.CapReportViewAll) {
		return nil, shared.ErrForbidden
	}
	return s.reports.AllEmployees(ctx, year)
}

func (s *ReportService) buildReport(ctx context.Context, employee *identity.User, year int) (*EmployeeReport, error) {
	used, err := s.reports.ConsumedDays(ctx, employee.ID, year)
	if err != nil {
		return nil, err
	}
	byType, err := s.reports.TypeSummaries(ctx, employee.ID, year)
	if err != nil {
		return nil, err
	}
	requests, err := s.reports.EmployeeRequests(ctx, employee.ID, year)
	if err != nil {
		return nil, err
	}

	base := decimal.NewFromInt(int64(employee.BaseVacationDays))
	return &EmployeeReport{
		UserID:           employee.ID,
		FullName:         employee.FullName,
		Year:             year,
		BaseVacationDays: base,
		UsedDays:         used,
		AvailableDays:    base.Sub(used),
		ByType:           byType,
		Requests:         requests,
	}, nil
}
