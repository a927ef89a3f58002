package vacation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestDetail is the denormalized read model for a request: the request
// itself plus live-joined employee and manager directory fields. Names are
// not snapshotted at decision time; they reflect the current directory.
type RequestDetail struct {
	VacationRequest
	EmployeeName     string
	EmployeeEmail    string
	EmployeePosition string
	EmployeeNumber   string
	ManagerName      string
	ManagerEmail     string
}

// DecideInput carries a decision to be applied to a pending request.
type DecideInput struct {
	RequestID uuid.UUID
	// ManagerID, when set, additionally constrains the target row to
	// manager_id = ManagerID. Admin roles leave it nil.
	ManagerID   *uuid.UUID
	Decision    Decision
	Comments    string
	PerformedBy uuid.UUID
	DecidedAt   time.Time
}

// RequestRepository defines persistence operations for the request
// lifecycle. Multi-row writes are atomic: a failure of any part leaves
// no partial rows behind.
type RequestRepository interface {
	// Create persists the request, its date ranges, both approval tokens
	// and the initial history entry as one transaction. The per-year
	// request number is allocated inside the same transaction and set on
	// the request before insert.
	Create(ctx context.Context, req *VacationRequest, tokens []*ApprovalToken, history *HistoryEntry) error

	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*RequestDetail, error)
	ListByManager(ctx context.Context, managerID uuid.UUID) ([]*RequestDetail, error)
	ListAll(ctx context.Context) ([]*RequestDetail, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*RequestDetail, error)

	// Decide applies the decision with a conditional update guarded on
	// status = pending (and manager match when constrained), appending the
	// history entry in the same transaction. Returns false without side
	// effects when no pending row matched.
	Decide(ctx context.Context, input DecideInput) (bool, error)

	// FindRedeemableToken returns the token matching the given value that
	// is unexpired and unused, together with the parent request's current
	// status. Returns shared.ErrNotFound when no such token exists.
	FindRedeemableToken(ctx context.Context, token string, now time.Time) (*ApprovalToken, RequestStatus, error)

	// RedeemToken marks the token used and applies the decision in one
	// transaction. When the pending guard matches no row the whole
	// transaction rolls back, leaving the token unused, and false is
	// returned: the sibling token won the race.
	RedeemToken(ctx context.Context, tokenID uuid.UUID, input DecideInput) (bool, error)

	FindHistory(ctx context.Context, requestID uuid.UUID) ([]*HistoryEntry, error)
}
