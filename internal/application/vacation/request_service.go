package vacation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/domain/vacation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier delivers lifecycle notifications. Delivery is best-effort: the
// service logs failures and never rolls back the triggering operation.
type Notifier interface {
	NotifyNewRequest(ctx context.Context, detail *vacation.RequestDetail, approveURL, rejectURL string) error
	NotifyDecision(ctx context.Context, detail *vacation.RequestDetail, hrEmails []identity.HRRecipient) error
}

// RequestService implements the absence request workflow.
type RequestService struct {
	requests vacation.RequestRepository
	users    identity.UserRepository
	notifier Notifier
	baseURL  string
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService. baseURL is the externally
// visible origin used to build token links embedded in notifications.
func NewRequestService(requests vacation.RequestRepository, users identity.UserRepository, notifier Notifier, baseURL string, logger *zap.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// RangeInput is one requested date span. BusinessDays is the client's count,
// revalidated against the server-side calculator.
type RangeInput struct {
	DateFrom     time.Time
	DateTo       time.Time
	BusinessDays decimal.Decimal
}

// CreateRequestInput carries a new absence request.
type CreateRequestInput struct {
	ManagerID   uuid.UUID
	RequestType vacation.RequestType
	Reason      string
	Notes       string
	Ranges      []RangeInput
}

// Create submits a new request on behalf of the acting employee. The request,
// its ranges, both decision tokens and the initial audit entry are persisted
// atomically; the manager notification is sent after commit, best-effort.
func (s *RequestService) Create(ctx context.Context, actor *identity.User, input CreateRequestInput) (*vacation.RequestDetail, error) {
	if !actor.Role.Can(identity.CapRequestCreate) {
		return nil, shared.ErrForbidden
	}

	manager, err := s.users.FindByID(ctx, input.ManagerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_MANAGER", "Selected manager not found")
		}
		return nil, err
	}
	if !manager.IsActive || !manager.Role.IsManagerial() {
		return nil, shared.NewDomainError("INVALID_MANAGER", "Selected manager cannot approve requests")
	}

	ranges := make([]vacation.DateRange, len(input.Ranges))
	for i, r := range input.Ranges {
		ranges[i] = vacation.DateRange{
			DateFrom:     r.DateFrom,
			DateTo:       r.DateTo,
			BusinessDays: r.BusinessDays,
		}
	}

	req, err := vacation.NewRequest(actor.ID, manager.ID, input.RequestType, input.Reason, input.Notes, ranges)
	if err != nil {
		return nil, err
	}

	approveToken, rejectToken, err := vacation.MintTokenPair(req.ID)
	if err != nil {
		return nil, err
	}

	history := vacation.NewHistoryEntry(req.ID, actor.ID, vacation.HistoryCreated,
		fmt.Sprintf("Request submitted for %s business days", req.TotalDays().String()))

	if err := s.requests.Create(ctx, req, []*vacation.ApprovalToken{approveToken, rejectToken}, history); err != nil {
		return nil, err
	}

	s.logger.Info("Request created",
		zap.String("request_id", req.ID.String()),
		zap.String("request_number", req.RequestNumber),
		zap.String("employee_id", actor.ID.String()),
		zap.String("manager_id", manager.ID.String()),
	)

	detail, err := s.requests.FindDetailByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		approveURL := fmt.Sprintf("%s/api/v1/requests/token/%s?action=approve", s.baseURL, approveToken.Token)
		rejectURL := fmt.Sprintf("%s/api/v1/requests/token/%s?action=reject", s.baseURL, rejectToken.Token)
		if err := s.notifier.NotifyNewRequest(ctx, detail, approveURL, rejectURL); err != nil {
			s.logger.Warn("Failed to notify manager of new request",
				zap.String("request_id", req.ID.String()),
				zap.Error(err),
			)
		}
	}

	return detail, nil
}

// ListScope selects the visibility filter applied when listing requests.
type ListScope string

const (
	ScopeMine ListScope = "me"
	ScopeTeam ListScope = "team"
	ScopeAll  ListScope = "all"
)

// List returns the requests visible to the actor under the requested scope:
// "me" is the actor's own submissions, "team" the requests awaiting the actor
// as approver, "all" everything. A scope the actor may not use, or an empty
// one, falls back to the widest scope the actor's role allows.
func (s *RequestService) List(ctx context.Context, actor *identity.User, scope ListScope) ([]*vacation.RequestDetail, error) {
	switch scope {
	case ScopeMine:
		return s.requests.ListByEmployee(ctx, actor.ID)
	case ScopeTeam:
		if actor.Role.Can(identity.CapRequestDecide) {
			return s.requests.ListByManager(ctx, actor.ID)
		}
	case ScopeAll:
		if actor.Role.Can(identity.CapRequestViewAll) {
			return s.requests.ListAll(ctx)
		}
	}

	if actor.Role.Can(identity.CapRequestViewAll) {
		return s.requests.ListAll(ctx)
	}
	if actor.Role.Can(identity.CapRequestDecide) {
		return s.requests.ListByManager(ctx, actor.ID)
	}
	return s.requests.ListByEmployee(ctx, actor.ID)
}

// Get returns one request if the actor may see it. Requests outside the
// actor's scope are reported as not found, never as forbidden.
func (s *RequestService) Get(ctx context.Context, actor *identity.User, id uuid.UUID) (*vacation.RequestDetail, error) {
	detail, err := s.requests.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, detail) {
		return nil, shared.ErrNotFound
	}
	return detail, nil
}

// History returns the audit trail of a request within the actor's scope.
func (s *RequestService) History(ctx context.Context, actor *identity.User, id uuid.UUID) ([]*vacation.HistoryEntry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.requests.FindHistory(ctx, id)
}

func (s *RequestService) canView(actor *identity.User, detail *vacation.RequestDetail) bool {
	if actor.Role.Can(identity.CapRequestViewAll) {
		return true
	}
	if detail.EmployeeID == actor.ID {
		return true
	}
	return actor.Role.Can(identity.CapRequestDecide) && detail.ManagerID == actor.ID
}

// DecideRequestInput carries an in-app decision on a pending request.
type DecideRequestInput struct {
	RequestID uuid.UUID
	Decision  vacation.Decision
	Comments  string
}

// Decide applies a manager's decision. Managers may only decide requests
// assigned to them; HR and super admins may decide any pending request. A
// request that is missing, already decided, or outside the actor's scope is
// uniformly reported as not found.
func (s *RequestService) Decide(ctx context.Context, actor *identity.User, input DecideRequestInput) (*vacation.RequestDetail, error) {
	if !actor.Role.Can(identity.CapRequestDecide) {
		return nil, shared.ErrForbidden
	}
	if !input.Decision.IsValid() {
		return nil, shared.NewDomainError("INVALID_DECISION", "Decision must be approved or rejected")
	}

	decideInput := vacation.DecideInput{
		RequestID:   input.RequestID,
		Decision:    input.Decision,
		Comments:    input.Comments,
		PerformedBy: actor.ID,
		DecidedAt:   time.Now(),
	}
	if !actor.Role.Can(identity.CapRequestDecideAny) {
		managerID := actor.ID
		decideInput.ManagerID = &managerID
	}

	matched, err := s.requests.Decide(ctx, decideInput)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, shared.ErrNotFound
	}

	s.logger.Info("Request decided",
		zap.String("request_id", input.RequestID.String()),
		zap.String("decision", string(input.Decision)),
		zap.String("decided_by", actor.ID.String()),
	)

	detail, err := s.requests.FindDetailByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, detail)
	return detail, nil
}

// RedeemOutcome classifies the result of following a token link.
type RedeemOutcome string

const (
	RedeemConfirmed        RedeemOutcome = "confirmed"
	RedeemTokenExpired     RedeemOutcome = "token-expired"
	RedeemAlreadyProcessed RedeemOutcome = "already-processed"
)

// RedeemResult is the outcome of a token redemption. Status is set only
// when the outcome is RedeemConfirmed.
type RedeemResult struct {
	Outcome RedeemOutcome
	Status  vacation.RequestStatus
}

// Redeem applies the decision carried by a single-use token link. Unknown,
// expired and used tokens all map to the token-expired outcome; a token whose
// request was already decided, including one that loses the race against its
// sibling, maps to already-processed. The first valid redemption wins.
func (s *RequestService) Redeem(ctx context.Context, tokenValue string, action vacation.TokenAction, comments string) (*RedeemResult, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown token action")
	}

	token, parentStatus, err := s.requests.FindRedeemableToken(ctx, tokenValue, time.Now())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &RedeemResult{Outcome: RedeemTokenExpired}, nil
		}
		return nil, err
	}
	if parentStatus != vacation.StatusPending {
		return &RedeemResult{Outcome: RedeemAlreadyProcessed}, nil
	}

	detail, err := s.requests.FindDetailByID(ctx, token.RequestID)
	if err != nil {
		return nil, err
	}

	decision := action.Decision()
	ok, err := s.requests.RedeemToken(ctx, token.ID, vacation.DecideInput{
		RequestID:   token.RequestID,
		Decision:    decision,
		Comments:    comments,
		PerformedBy: detail.ManagerID,
		DecidedAt:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return &RedeemResult{Outcome: RedeemAlreadyProcessed}, nil
	}

	s.logger.Info("Request decided via token link",
		zap.String("request_id", token.RequestID.String()),
		zap.String("decision", string(decision)),
	)

	decided, err := s.requests.FindDetailByID(ctx, token.RequestID)
	if err == nil {
		s.notifyDecision(ctx, decided)
	}

	return &RedeemResult{Outcome: RedeemConfirmed, Status: decision.Status()}, nil
}

// notifyDecision sends the decision webhook with HR admins carbon-copied.
// Failures are logged only.
func (s *RequestService) notifyDecision(ctx context.Context, detail *vacation.RequestDetail) {
	if s.notifier == nil {
		return
	}
	hrEmails, err := s.users.FindHRAdminEmails(ctx)
	if err != nil {
		s.logger.Warn("Failed to load HR recipients for decision notification",
			zap.String("request_id", detail.ID.String()),
			zap.Error(err),
		)
		hrEmails = nil
	}
	if err := s.notifier.NotifyDecision(ctx, detail, hrEmails); err != nil {
		s.logger.Warn("Failed to notify decision",
			zap.String("request_id", detail.ID.String()),
			zap.Error(err),
		)
	}
}
