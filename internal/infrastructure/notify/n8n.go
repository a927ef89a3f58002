package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/config"
)

// NewRequestPayload is the webhook body sent when a request is created.
// The approve and reject URLs embed the single-use decision tokens.
type NewRequestPayload struct {
	RequestID        string   `json:"request_id"`
	RequestNumber    string   `json:"request_number"`
	EmployeeName     string   `json:"employee_name"`
	EmployeeEmail    string   `json:"employee_email"`
	EmployeePosition string   `json:"employee_position"`
	ManagerName      string   `json:"manager_name"`
	ManagerEmail     string   `json:"manager_email"`
	RequestType      string   `json:"request_type"`
	RequestTypeLabel string   `json:"request_type_label"`
	Reason           string   `json:"reason"`
	Notes            string   `json:"notes,omitempty"`
	TotalDays        string   `json:"total_days"`
	DatesTableHTML   string   `json:"dates_table_html"`
	ApproveURL       string   `json:"approve_url"`
	RejectURL        string   `json:"reject_url"`
}

// DecisionPayload is the webhook body sent when a request is decided.
// HR admins are carbon-copied via HREmails.
type DecisionPayload struct {
	RequestID     string   `json:"request_id"`
	RequestNumber string   `json:"request_number"`
	EmployeeName  string   `json:"employee_name"`
	EmployeeEmail string   `json:"employee_email"`
	ManagerName   string   `json:"manager_name"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"status_label"`
	Comments      string   `json:"comments,omitempty"`
	TotalDays     string   `json:"total_days"`
	HREmails      []string `json:"hr_emails"`
}

// N8NClient posts lifecycle notifications to n8n workflow webhooks.
// Delivery is best-effort: callers log failures and never roll back
// the triggering operation.
type N8NClient struct {
	newRequestURL string
	decisionURL   string
	httpClient    *http.Client
}

// NewN8NClient creates a webhook client from configuration
func NewN8NClient(cfg config.NotifyConfig) *N8NClient {
	return &N8NClient{
		newRequestURL: cfg.NewRequestURL,
		decisionURL:   cfg.DecisionURL,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

// NotifyNewRequest posts the new-request webhook. A missing URL disables
// the notification silently.
func (c *N8NClient) NotifyNewRequest(ctx context.Context, payload NewRequestPayload) error {
	if c.newRequestURL == "" {
		return nil
	}
	return c.post(ctx, c.newRequestURL, payload)
}

// NotifyDecision posts the decision webhook
func (c *N8NClient) NotifyDecision(ctx context.Context, payload DecisionPayload) error {
	if c.decisionURL == "" {
		return nil
	}
	return c.post(ctx, c.decisionURL, payload)
}

func (c *N8NClient) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// RequestTypeLabel renders the Spanish display label used in emails
func RequestTypeLabel(t vacation.RequestType) string {
	switch t {
	case vacation.TypeVacation:
		return "Vacaciones"
	case vacation.TypePermission:
		return "Permiso"
	case vacation.TypeJustifiedAbsence:
		return "Falta Justificada"
	}
	return string(t)
}

// StatusLabel renders the Spanish display label for a decision outcome
func StatusLabel(s vacation.RequestStatus) string {
	switch s {
	case vacation.StatusApproved:
		return "Aprobada"
	case vacation.StatusRejected:
		return "Rechazada"
	}
	return string(s)
}

// DatesTableHTML renders the requested date ranges as an HTML table for
// embedding in notification emails.
func DatesTableHTML(ranges []vacation.DateRange) string {
	var b strings.Builder
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0">`)
	b.WriteString("<tr><th>Desde</th><th>Hasta</th><th>Días hábiles</th></tr>")
	for _, r := range ranges {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(r.DateFrom.Format("2006-01-02")))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(r.DateTo.Format("2006-01-02")))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(r.BusinessDays.String()))
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}
