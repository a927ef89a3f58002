package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDetail() *vacation.RequestDetail {
	return &vacation.RequestDetail{
		VacationRequest: vacation.VacationRequest{
			BaseEntity:    shared.BaseEntity{ID: uuid.New()},
			RequestNumber: "VAC-2026-0007",
			RequestType:   vacation.TypeVacation,
			Reason:        "Family trip",
			Status:        vacation.StatusApproved,
			Ranges: []vacation.DateRange{{
				DateFrom:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				DateTo:       time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				BusinessDays: decimal.NewFromInt(5),
			}},
		},
		EmployeeName:  "Employee One",
		EmployeeEmail: "emp@example.com",
		ManagerName:   "Manager One",
		ManagerEmail:  "mgr@example.com",
	}
}

func TestN8NClient_NotifyNewRequest(t *testing.T) {
	t.Run("posts the payload as json", func(t *testing.T) {
		var received NewRequestPayload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewN8NClient(config.NotifyConfig{NewRequestURL: server.URL, Timeout: time.Second})
		notifier := NewRequestNotifier(client)
		detail := testDetail()

		err := notifier.NotifyNewRequest(context.Background(), detail,
			"https://portal/api/v1/requests/token/tok-a?action=approve",
			"https://portal/api/v1/requests/token/tok-r?action=reject")
		require.NoError(t, err)

		assert.Equal(t, detail.ID.String(), received.RequestID)
		assert.Equal(t, "VAC-2026-0007", received.RequestNumber)
		assert.Equal(t, "vacation", received.RequestType)
		assert.Equal(t, "Vacaciones", received.RequestTypeLabel)
		assert.Equal(t, "5", received.TotalDays)
		assert.Equal(t, "https://portal/api/v1/requests/token/tok-a?action=approve", received.ApproveURL)
		assert.Equal(t, "https://portal/api/v1/requests/token/tok-r?action=reject", received.RejectURL)
		assert.Contains(t, received.DatesTableHTML, "2026-03-02")
		assert.Contains(t, received.DatesTableHTML, "Días hábiles")
	})

	t.Run("missing url disables delivery silently", func(t *testing.T) {
		client := NewN8NClient(config.NotifyConfig{Timeout: time.Second})
		notifier := NewRequestNotifier(client)

		err := notifier.NotifyNewRequest(context.Background(), testDetail(), "a", "r")
		assert.NoError(t, err)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewN8NClient(config.NotifyConfig{NewRequestURL: server.URL, Timeout: time.Second})
		notifier := NewRequestNotifier(client)

		err := notifier.NotifyNewRequest(context.Background(), testDetail(), "a", "r")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestN8NClient_NotifyDecision(t *testing.T) {
	var received DecisionPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewN8NClient(config.NotifyConfig{DecisionURL: server.URL, Timeout: time.Second})
	notifier := NewRequestNotifier(client)
	detail := testDetail()
	detail.ManagerComments = "Enjoy"

	err := notifier.NotifyDecision(context.Background(), detail, []identity.HRRecipient{
		{Email: "hr@example.com", FullName: "HR Admin"},
		{Email: "root@example.com", FullName: "Super Admin"},
	})
	require.NoError(t, err)

	assert.Equal(t, "approved", received.Status)
	assert.Equal(t, "Aprobada", received.StatusLabel)
	assert.Equal(t, "Enjoy", received.Comments)
	assert.Equal(t, []string{"hr@example.com", "root@example.com"}, received.HREmails)
}

func TestRequestTypeLabel(t *testing.T) {
	assert.Equal(t, "Vacaciones", RequestTypeLabel(vacation.TypeVacation))
	assert.Equal(t, "Permiso", RequestTypeLabel(vacation.TypePermission))
	assert.Equal(t, "Falta Justificada", RequestTypeLabel(vacation.TypeJustifiedAbsence))
	assert.Equal(t, "other", RequestTypeLabel(vacation.RequestType("other")))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Aprobada", StatusLabel(vacation.StatusApproved))
	assert.Equal(t, "Rechazada", StatusLabel(vacation.StatusRejected))
	assert.Equal(t, "pending", StatusLabel(vacation.StatusPending))
}

func TestDatesTableHTML(t *testing.T) {
	t.Run("renders one row per range", func(t *testing.T) {
		html := DatesTableHTML([]vacation.DateRange{
			{
				DateFrom:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				DateTo:       time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				BusinessDays: decimal.NewFromInt(5),
			},
			{
				DateFrom:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
				DateTo:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				BusinessDays: decimal.NewFromInt(2),
			},
		})

		assert.Contains(t, html, "<th>Desde</th><th>Hasta</th><th>Días hábiles</th>")
		assert.Contains(t, html, "<td>2026-03-02</td>")
		assert.Contains(t, html, "<td>2026-03-09</td>")
		assert.Contains(t, html, "<td>5</td>")
		assert.Contains(t, html, "<td>2</td>")
	})

	t.Run("empty ranges render headers only", func(t *testing.T) {
		html := DatesTableHTML(nil)
		assert.Contains(t, html, "<table")
		assert.NotContains(t, html, "<td>")
	})
}
