package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/opamp-commander/opamp-commander/internal/domain/model/registration"
)

// RegistrationToken is the row shape of the registration_tokens table.
type RegistrationToken struct {
	ID            uuid.UUID    `db:"id"`
	Org           string       `db:"org"`
	OneShotSecret string       `db:"one_shot_secret"`
	ExpiresAt     time.Time    `db:"expires_at"`
	ConsumedAt    sql.NullTime `db:"consumed_at"`
}

// RegistrationTokenFromDomain projects a domain.Token into its row shape.
func RegistrationTokenFromDomain(t *registration.Token) *RegistrationToken {
	row := &RegistrationToken{
		ID:            t.ID,
		Org:           t.Org,
		OneShotSecret: t.OneShotSecret,
		ExpiresAt:     t.ExpiresAt,
	}

	if t.ConsumedAt != nil {
		row.ConsumedAt = sql.NullTime{Time: *t.ConsumedAt, Valid: true}
	}

	return row
}

// ToDomain converts the row back into a domain.Token.
func (e *RegistrationToken) ToDomain() *registration.Token {
	t := &registration.Token{
		ID:            e.ID,
		Org:           e.Org,
		OneShotSecret: e.OneShotSecret,
		ExpiresAt:     e.ExpiresAt,
	}

	if e.ConsumedAt.Valid {
		consumedAt := e.ConsumedAt.Time
		t.ConsumedAt = &consumedAt
	}

	return t
}

// BearerToken is the row shape of the bearer_tokens table.
type BearerToken struct {
	ID          uuid.UUID `db:"id"`
	InstanceUID uuid.UUID `db:"instance_uid"`
	Org         string    `db:"org"`
	Secret      string    `db:"secret"`
	IssuedAt    time.Time `db:"issued_at"`
}

// BearerTokenFromDomain projects a domain.BearerToken into its row shape.
func BearerTokenFromDomain(t *registration.BearerToken) *BearerToken {
	return &BearerToken{
		ID:          t.ID,
		InstanceUID: t.InstanceUID,
		Org:         t.Org,
		Secret:      t.Secret,
		IssuedAt:    t.IssuedAt,
	}
}

// ToDomain converts the row back into a domain.BearerToken.
func (e *BearerToken) ToDomain() *registration.BearerToken {
	return &registration.BearerToken{
		ID:          e.ID,
		InstanceUID: e.InstanceUID,
		Org:         e.Org,
		Secret:      e.Secret,
		IssuedAt:    e.IssuedAt,
	}
}
