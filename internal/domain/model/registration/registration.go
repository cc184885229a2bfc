// Package registration holds the one-shot registration token and the
// long-lived OpAMP bearer token it mints.
package registration

import (
	"time"

	"github.com/google/uuid"
)

// Token is a one-shot secret an operator mints so a new agent can redeem it
// for a bearer token. Consumption is atomic: exactly one redemption
// succeeds per token.
type Token struct {
	ID           uuid.UUID
	Org          string
	OneShotSecret string
	ExpiresAt    time.Time
	ConsumedAt   *time.Time
}

// IsConsumable reports whether the token may still be redeemed at now.
func (t *Token) IsConsumable(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}

// BearerToken is a long-lived OpAMP credential bound to one agent instance.
// Revocation is by deleting the row; in-flight sessions are then cancelled
// the next time their credential is re-checked.
type BearerToken struct {
	ID          uuid.UUID
	InstanceUID uuid.UUID
	Org         string
	Secret      string
	IssuedAt    time.Time
}
