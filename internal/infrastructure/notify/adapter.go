package notify

import (
	"context"

	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
)

// RequestNotifier adapts the webhook client to the application layer's
// notifier contract, mapping domain read models onto webhook payloads.
type RequestNotifier struct {
	client *N8NClient
}

// NewRequestNotifier creates a new RequestNotifier
func NewRequestNotifier(client *N8NClient) *RequestNotifier {
	return &RequestNotifier{client: client}
}

// NotifyNewRequest posts the new-request webhook carrying the decision links
func (n *RequestNotifier) NotifyNewRequest(ctx context.Context, detail *vacation.RequestDetail, approveURL, rejectURL string) error {
	return n.client.NotifyNewRequest(ctx, NewRequestPayload{
		RequestID:        detail.ID.String(),
		RequestNumber:    detail.RequestNumber,
		EmployeeName:     detail.EmployeeName,
		EmployeeEmail:    detail.EmployeeEmail,
		EmployeePosition: detail.EmployeePosition,
		ManagerName:      detail.ManagerName,
		ManagerEmail:     detail.ManagerEmail,
		RequestType:      string(detail.RequestType),
		RequestTypeLabel: RequestTypeLabel(detail.RequestType),
		Reason:           detail.Reason,
		Notes:            detail.Notes,
		TotalDays:        detail.TotalDays().String(),
		DatesTableHTML:   DatesTableHTML(detail.Ranges),
		ApproveURL:       approveURL,
		RejectURL:        rejectURL,
	})
}

// NotifyDecision posts the decision webhook with HR admins carbon-copied
func (n *RequestNotifier) NotifyDecision(ctx context.Context, detail *vacation.RequestDetail, hrRecipients []identity.HRRecipient) error {
	hrEmails := make([]string, len(hrRecipients))
	for i, r := range hrRecipients {
		hrEmails[i] = r.Email
	}

	return n.client.NotifyDecision(ctx, DecisionPayload{
		RequestID:     detail.ID.String(),
		RequestNumber: detail.RequestNumber,
		EmployeeName:  detail.EmployeeName,
		EmployeeEmail: detail.EmployeeEmail,
		ManagerName:   detail.ManagerName,
		Status:        string(detail.Status),
		StatusLabel:   StatusLabel(detail.Status),
		Comments:      detail.ManagerComments,
		TotalDays:     detail.TotalDays().String(),
		HREmails:      hrEmails,
	})
}
