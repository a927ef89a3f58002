package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decideApproved moves a pending request to approved.
func decideApproved(t *testing.T, f *requestFixture, requestID uuid.UUID) {
	t.Helper()
	matched, err := f.repo.Decide(context.Background(), vacation.DecideInput{
		RequestID:   requestID,
		Decision:    vacation.DecisionApproved,
		PerformedBy: f.manager.ID,
		DecidedAt:   time.Now(),
	})
	require.NoError(t, err)
	require.True(t, matched)
}

// createTypedRequest persists a request of the given type spanning one
// Monday-to-Friday work week and returns it.
func createTypedRequest(t *testing.T, f *requestFixture, requestType vacation.RequestType) *vacation.VacationRequest {
	t.Helper()
	req, err := vacation.NewRequest(f.employee.ID, f.manager.ID, requestType, "reason", "", []vacation.DateRange{{
		DateFrom:     date(2026, 3, 2),
		DateTo:       date(2026, 3, 6),
		BusinessDays: decimal.NewFromInt(5),
	}})
	require.NoError(t, err)

	approve, reject, err := vacation.MintTokenPair(req.ID)
	require.NoError(t, err)
	history := vacation.NewHistoryEntry(req.ID, f.employee.ID, vacation.HistoryCreated, "Request submitted")
	require.NoError(t, f.repo.Create(context.Background(), req, []*vacation.ApprovalToken{approve, reject}, history))
	return req
}

func TestGormReportRepository_ConsumedDays(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	t.Run("returns zero for employee without approvals", func(t *testing.T) {
		f := setupRequestFixture(t)
		reports := NewGormReportRepository(f.db)

		total, err := reports.ConsumedDays(ctx, f.employee.ID, year)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("sums only approved requests", func(t *testing.T) {
		f := setupRequestFixture(t)
		reports := NewGormReportRepository(f.db)

		approved := createTypedRequest(t, f, vacation.TypeVacation)
		decideApproved(t, f, approved.ID)
		createTypedRequest(t, f, vacation.TypeVacation) // stays pending

		total, err := reports.ConsumedDays(ctx, f.employee.ID, year)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(5)), "got %s", total)
	})

	t.Run("other years are excluded", func(t *testing.T) {
		f := setupRequestFixture(t)
		reports := NewGormReportRepository(f.db)

		approved := createTypedRequest(t, f, vacation.TypeVacation)
		decideApproved(t, f, approved.ID)

		total, err := reports.ConsumedDays(ctx, f.employee.ID, year-1)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormReportRepository_TypeSummaries(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	f := setupRequestFixture(t)
	reports := NewGormReportRepository(f.db)

	vac1 := createTypedRequest(t, f, vacation.TypeVacation)
	vac2 := createTypedRequest(t, f, vacation.TypeVacation)
	perm := createTypedRequest(t, f, vacation.TypePermission)
	for _, req := range []*vacation.VacationRequest{vac1, vac2, perm} {
		decideApproved(t, f, req.ID)
	}
	createTypedRequest(t, f, vacation.TypeJustifiedAbsence) // pending, excluded

	summaries, err := reports.TypeSummaries(ctx, f.employee.ID, year)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byType := make(map[vacation.RequestType]struct {
		requests int64
		days     decimal.Decimal
	}, len(summaries))
	for _, s := range summaries {
		byType[s.RequestType] = struct {
			requests int64
			days     decimal.Decimal
		}{s.TotalRequests, s.TotalDays}
	}

	assert.Equal(t, int64(2), byType[vacation.TypeVacation].requests)
	assert.True(t, byType[vacation.TypeVacation].days.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), byType[vacation.TypePermission].requests)
	assert.True(t, byType[vacation.TypePermission].days.Equal(decimal.NewFromInt(5)))
}

func TestGormReportRepository_EmployeeRequests(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	t.Run("includes every status with ranges and names", func(t *testing.T) {
		f := setupRequestFixture(t)
		reports := NewGormReportRepository(f.db)

		approved := createTypedRequest(t, f, vacation.TypeVacation)
		decideApproved(t, f, approved.ID)
		pending := createTypedRequest(t, f, vacation.TypePermission)

		details, err := reports.EmployeeRequests(ctx, f.employee.ID, year)
		require.NoError(t, err)
		require.Len(t, details, 2)

		byID := make(map[uuid.UUID]vacation.RequestStatus, len(details))
		for _, d := range details {
			byID[d.ID] = d.Status
			require.Len(t, d.Ranges, 1)
			assert.Equal(t, "Employee One", d.EmployeeName)
			assert.Equal(t, "Manager One", d.ManagerName)
		}
		assert.Equal(t, vacation.StatusApproved, byID[approved.ID])
		assert.Equal(t, vacation.StatusPending, byID[pending.ID])
	})

	t.Run("other employees and other years are excluded", func(t *testing.T) {
		f := setupRequestFixture(t)
		reports := NewGormReportRepository(f.db)
		createTypedRequest(t, f, vacation.TypeVacation)

		details, err := reports.EmployeeRequests(ctx, uuid.New(), year)
		require.NoError(t, err)
		assert.Empty(t, details)

		details, err = reports.EmployeeRequests(ctx, f.employee.ID, year-1)
		require.NoError(t, err)
		assert.Empty(t, details)
	})
}

func TestGormReportRepository_AllEmployees(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	f := setupRequestFixture(t)
	reports := NewGormReportRepository(f.db)

	approved := createTypedRequest(t, f, vacation.TypePermission)
	decideApproved(t, f, approved.ID)

	summaries, err := reports.AllEmployees(ctx, year)
	require.NoError(t, err)
	// Employee One and Manager One, ordered by full name
	require.Len(t, summaries, 2)

	employeeRow := summaries[0]
	assert.Equal(t, f.employee.ID, employeeRow.UserID)
	assert.Equal(t, "Employee One", employeeRow.FullName)
	assert.True(t, employeeRow.PermissionDays.Equal(decimal.NewFromInt(5)))
	assert.True(t, employeeRow.VacationDays.IsZero())
	assert.True(t, employeeRow.AbsenceDays.IsZero())
	assert.True(t, employeeRow.TotalDays.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(1), employeeRow.TotalRequests)

	// The manager never requested anything and still appears with zero sums
	managerRow := summaries[1]
	assert.Equal(t, f.manager.ID, managerRow.UserID)
	assert.True(t, managerRow.TotalDays.IsZero())
	assert.Equal(t, int64(0), managerRow.TotalRequests)
}
