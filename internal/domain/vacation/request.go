package vacation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state of a vacation request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	// StatusCancelled is recognized on the read side for display purposes,
	// but no operation in this system produces it.
	StatusCancelled RequestStatus = "cancelled"
)

// RequestType is the category of absence being requested.
type RequestType string

const (
	TypeVacation         RequestType = "vacation"
	TypePermission       RequestType = "permission"
	TypeJustifiedAbsence RequestType = "justified_absence"
)

// IsValid reports whether the request type is one of the known types.
func (t RequestType) IsValid() bool {
	switch t {
	case TypeVacation, TypePermission, TypeJustifiedAbsence:
		return true
	}
	return false
}

// Decision is a terminal outcome applied to a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// IsValid reports whether the decision is approved or rejected.
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Status returns the request status resulting from the decision.
func (d Decision) Status() RequestStatus {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusRejected
}

// VacationRequest is the aggregate for a single absence request. The
// approving manager is frozen at creation time: a later change of the
// employee's manager does not move pending requests.
type VacationRequest struct {
	shared.BaseEntity
	RequestNumber       string
	EmployeeID          uuid.UUID
	ManagerID           uuid.UUID
	RequestType         RequestType
	Reason              string
	Notes               string
	Status              RequestStatus
	ManagerComments     string
	ManagerDecisionDate *time.Time
	Ranges              []DateRange
}

// DateRange is one inclusive span of calendar days within a request.
// BusinessDays is validated against the server-side calculator at creation.
type DateRange struct {
	ID           uuid.UUID
	RequestID    uuid.UUID
	DateFrom     time.Time
	DateTo       time.Time
	BusinessDays decimal.Decimal
}

// NewRequest builds a pending request with its validated date ranges.
func NewRequest(employeeID, managerID uuid.UUID, requestType RequestType, reason, notes string, ranges []DateRange) (*VacationRequest, error) {
	if !requestType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REQUEST_TYPE", "Unknown request type: "+string(requestType))
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason is required")
	}
	if managerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANAGER", "An approving manager is required")
	}
	if len(ranges) == 0 {
		return nil, shared.NewDomainError("INVALID_DATE_RANGES", "At least one date range is required")
	}

	req := &VacationRequest{
		BaseEntity:  shared.NewBaseEntity(),
		EmployeeID:  employeeID,
		ManagerID:   managerID,
		RequestType: requestType,
		Reason:      strings.TrimSpace(reason),
		Notes:       strings.TrimSpace(notes),
		Status:      StatusPending,
	}

	total := decimal.Zero
	for _, r := range ranges {
		computed := decimal.NewFromInt(int64(BusinessDays(r.DateFrom, r.DateTo)))
		if !r.BusinessDays.Equal(computed) {
			return nil, shared.NewDomainError("BUSINESS_DAYS_MISMATCH",
				fmt.Sprintf("Range %s to %s contains %s business days, got %s",
					r.DateFrom.Format("2006-01-02"), r.DateTo.Format("2006-01-02"),
					computed.String(), r.BusinessDays.String()))
		}
		r.ID = uuid.New()
		r.RequestID = req.ID
		req.Ranges = append(req.Ranges, r)
		total = total.Add(r.BusinessDays)
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DATE_RANGES", "Date ranges must contain at least one business day")
	}

	return req, nil
}

// TotalDays is the sum of business days across all ranges.
func (r *VacationRequest) TotalDays() decimal.Decimal {
	total := decimal.Zero
	for _, dr := range r.Ranges {
		total = total.Add(dr.BusinessDays)
	}
	return total
}

// IsPending reports whether the request still awaits a decision.
func (r *VacationRequest) IsPending() bool {
	return r.Status == StatusPending
}

// FormatRequestNumber renders the human-readable per-year identifier,
// e.g. VAC-2026-0042.
func FormatRequestNumber(year, sequence int) string {
	return fmt.Sprintf("VAC-%d-%04d", year, sequence)
}

// HistoryAction is an audit log action recorded per state transition.
type HistoryAction string

const (
	HistoryCreated  HistoryAction = "created"
	HistoryApproved HistoryAction = "approved"
	HistoryRejected HistoryAction = "rejected"
)

// HistoryEntry is one append-only audit row. Entries are never mutated
// or deleted.
type HistoryEntry struct {
	ID          uuid.UUID
	RequestID   uuid.UUID
	Action      HistoryAction
	PerformedBy uuid.UUID
	Details     string
	CreatedAt   time.Time
}

// NewHistoryEntry creates an audit entry for a state transition.
func NewHistoryEntry(requestID, performedBy uuid.UUID, action HistoryAction, details string) *HistoryEntry {
	return &HistoryEntry{
		ID:          uuid.New(),
		RequestID:   requestID,
		Action:      action,
		PerformedBy: performedBy,
		Details:     details,
		CreatedAt:   time.Now(),
	}
}
