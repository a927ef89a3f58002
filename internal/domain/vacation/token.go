package vacation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenTTL is how long an approval token stays redeemable after issuance.
const TokenTTL = 7 * 24 * time.Hour

// TokenAction is the decision a token carries when redeemed.
type TokenAction string

const (
	TokenActionApprove TokenAction = "approve"
	TokenActionReject  TokenAction = "reject"
)

// Decision maps the token action to the request decision it applies.
func (a TokenAction) Decision() Decision {
	if a == TokenActionApprove {
		return DecisionApproved
	}
	return DecisionRejected
}

// IsValid reports whether the action is approve or reject.
func (a TokenAction) IsValid() bool {
	return a == TokenActionApprove || a == TokenActionReject
}

// ApprovalToken is a single-use, time-limited credential embedded in a
// notification link. Two are minted per request, one per action; whichever
// is redeemed first decides the request, and the sibling is rejected by the
// parent-still-pending guard rather than by explicit invalidation.
type ApprovalToken struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	Action    *Decision // recorded at redemption, nil until then
}

// MintTokenPair generates the approve and reject tokens for a request.
func MintTokenPair(requestID uuid.UUID) (approve, reject *ApprovalToken, err error) {
	expiresAt := time.Now().Add(TokenTTL)

	approve, err = mintToken(requestID, expiresAt)
	if err != nil {
		return nil, nil, err
	}
	reject, err = mintToken(requestID, expiresAt)
	if err != nil {
		return nil, nil, err
	}
	return approve, reject, nil
}

func mintToken(requestID uuid.UUID, expiresAt time.Time) (*ApprovalToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate approval token: %w", err)
	}
	return &ApprovalToken{
		ID:        uuid.New(),
		RequestID: requestID,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: expiresAt,
	}, nil
}

// IsExpired reports whether the token has passed its expiry.
func (t *ApprovalToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsUsed reports whether the token has already been redeemed.
func (t *ApprovalToken) IsUsed() bool {
	return t.UsedAt != nil
}
