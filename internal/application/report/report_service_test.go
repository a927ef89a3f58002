package report

import (
	"context"
	"testing"
	"time"

	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type reportFixture struct {
	service  *ReportService
	requests vacation.RequestRepository
	employee *identity.User
	manager  *identity.User
	hrAdmin  *identity.User
}

func setupReportService(t *testing.T) *reportFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	users := persistence.NewGormUserRepository(db)
	f := &reportFixture{
		service:  NewReportService(persistence.NewGormReportRepository(db), users, zap.NewNop()),
		requests: persistence.NewGormRequestRepository(db),
		employee: saveUser(t, users, "emp@example.com", "Employee One", identity.RoleEmployee),
		manager:  saveUser(t, users, "mgr@example.com", "Manager One", identity.RoleManager),
		hrAdmin:  saveUser(t, users, "hr@example.com", "HR Admin", identity.RoleHRAdmin),
	}
	return f
}

func saveUser(t *testing.T, users identity.UserRepository, email, name string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, name)
	require.NoError(t, err)
	require.NoError(t, user.SetRole(role))
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// fileWeek persists one pending Monday-to-Friday request for the employee.
func fileWeek(t *testing.T, f *reportFixture, requestType vacation.RequestType) *vacation.VacationRequest {
	t.Helper()
	ctx := context.Background()

	req, err := vacation.NewRequest(f.employee.ID, f.manager.ID, requestType, "reason", "", []vacation.DateRange{{
		DateFrom:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DateTo:       time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		BusinessDays: decimal.NewFromInt(5),
	}})
	require.NoError(t, err)
	approve, reject, err := vacation.MintTokenPair(req.ID)
	require.NoError(t, err)
	history := vacation.NewHistoryEntry(req.ID, f.employee.ID, vacation.HistoryCreated, "Request submitted")
	require.NoError(t, f.requests.Create(ctx, req, []*vacation.ApprovalToken{approve, reject}, history))
	return req
}

// approveWeek persists one approved Monday-to-Friday request for the employee.
func approveWeek(t *testing.T, f *reportFixture, requestType vacation.RequestType) {
	t.Helper()
	req := fileWeek(t, f, requestType)

	matched, err := f.requests.Decide(context.Background(), vacation.DecideInput{
		RequestID:   req.ID,
		Decision:    vacation.DecisionApproved,
		PerformedBy: f.manager.ID,
		DecidedAt:   time.Now(),
	})
	require.NoError(t, err)
	require.True(t, matched)
}

func TestReportService_MyReport(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	t.Run("full allowance when nothing is approved", func(t *testing.T) {
		f := setupReportService(t)

		rep, err := f.service.MyReport(ctx, f.employee, year)
		require.NoError(t, err)
		assert.Equal(t, f.employee.ID, rep.UserID)
		assert.Equal(t, "Employee One", rep.FullName)
		assert.True(t, rep.BaseVacationDays.Equal(decimal.NewFromInt(15)))
		assert.True(t, rep.UsedDays.IsZero())
		assert.True(t, rep.AvailableDays.Equal(decimal.NewFromInt(15)))
		assert.Empty(t, rep.ByType)
	})

	t.Run("approved days reduce the balance", func(t *testing.T) {
		f := setupReportService(t)
		approveWeek(t, f, vacation.TypeVacation)

		rep, err := f.service.MyReport(ctx, f.employee, year)
		require.NoError(t, err)
		assert.True(t, rep.UsedDays.Equal(decimal.NewFromInt(5)))
		assert.True(t, rep.AvailableDays.Equal(decimal.NewFromInt(10)))
		require.Len(t, rep.ByType, 1)
		assert.Equal(t, vacation.TypeVacation, rep.ByType[0].RequestType)
	})

	t.Run("carries the year's requests with ranges", func(t *testing.T) {
		f := setupReportService(t)
		approveWeek(t, f, vacation.TypeVacation)
		pending := fileWeek(t, f, vacation.TypePermission)

		rep, err := f.service.MyReport(ctx, f.employee, year)
		require.NoError(t, err)
		require.Len(t, rep.Requests, 2)

		var pendingDetail *vacation.RequestDetail
		for _, detail := range rep.Requests {
			require.Len(t, detail.Ranges, 1)
			assert.Equal(t, "Employee One", detail.EmployeeName)
			if detail.ID == pending.ID {
				pendingDetail = detail
			}
		}
		require.NotNil(t, pendingDetail)
		assert.Equal(t, vacation.StatusPending, pendingDetail.Status)
		assert.True(t, pendingDetail.TotalDays().Equal(decimal.NewFromInt(5)))

		// The pending week appears in the history but not the balance.
		assert.True(t, rep.UsedDays.Equal(decimal.NewFromInt(5)))
	})

	t.Run("requests from other years are excluded", func(t *testing.T) {
		f := setupReportService(t)
		approveWeek(t, f, vacation.TypeVacation)

		rep, err := f.service.MyReport(ctx, f.employee, year-1)
		require.NoError(t, err)
		assert.Empty(t, rep.Requests)
		assert.True(t, rep.UsedDays.IsZero())
	})

	t.Run("the balance may go negative", func(t *testing.T) {
		f := setupReportService(t)
		for i := 0; i < 4; i++ {
			approveWeek(t, f, vacation.TypeVacation)
		}

		rep, err := f.service.MyReport(ctx, f.employee, year)
		require.NoError(t, err)
		assert.True(t, rep.AvailableDays.Equal(decimal.NewFromInt(-5)), "got %s", rep.AvailableDays)
	})
}

func TestReportService_EmployeeReportFor(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	t.Run("manager may view another employee", func(t *testing.T) {
		f := setupReportService(t)
		approveWeek(t, f, vacation.TypePermission)

		rep, err := f.service.EmployeeReportFor(ctx, f.manager, f.employee.ID, year)
		require.NoError(t, err)
		assert.Equal(t, f.employee.ID, rep.UserID)
		assert.True(t, rep.UsedDays.Equal(decimal.NewFromInt(5)))
		require.Len(t, rep.Requests, 1)
		assert.Equal(t, vacation.StatusApproved, rep.Requests[0].Status)
	})

	t.Run("employee may view their own", func(t *testing.T) {
		f := setupReportService(t)

		rep, err := f.service.EmployeeReportFor(ctx, f.employee, f.employee.ID, year)
		require.NoError(t, err)
		assert.Equal(t, f.employee.ID, rep.UserID)
	})

	t.Run("employee may not view someone else", func(t *testing.T) {
		f := setupReportService(t)

		_, err := f.service.EmployeeReportFor(ctx, f.employee, f.manager.ID, year)
		assert.Equal(t, shared.ErrForbidden, err)
	})
}

func TestReportService_AllEmployeesReport(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	t.Run("hr admin gets one row per user", func(t *testing.T) {
		f := setupReportService(t)
		approveWeek(t, f, vacation.TypeVacation)

		rows, err := f.service.AllEmployeesReport(ctx, f.hrAdmin, year)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		var employeeTotal decimal.Decimal
		for _, row := range rows {
			if row.UserID == f.employee.ID {
				employeeTotal = row.TotalDays
			}
		}
		assert.True(t, employeeTotal.Equal(decimal.NewFromInt(5)))
	})

	t.Run("manager is forbidden", func(t *testing.T) {
		f := setupReportService(t)

		_, err := f.service.AllEmployeesReport(ctx, f.manager, year)
		assert.Equal(t, shared.ErrForbidden, err)
	})
}
