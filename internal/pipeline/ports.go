package pipeline

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"consentgate/internal/assertion"
	"consentgate/internal/registry"
)

// AssertionVerifier validates the inbound client assertion. Stage 1.
type AssertionVerifier interface {
	Verify(rawToken string) (*assertion.SignedAssertion, error)
}

// ClientRegistry answers whether a client registration exists. Stage 2.
type ClientRegistry interface {
	Exists(ctx context.Context, clientName string) (bool, error)
}

// ConsentRegistry looks up consent records, evaluates their expiry and
// applies the activation transition. Stages 3 and 4.
type ConsentRegistry interface {
	FindActiveConsent(ctx context.Context, clientID string) (*registry.ConsentRecord, error)
	Expired(record *registry.ConsentRecord) (bool, error)
	Activate(ctx context.Context, consentID string) error
}

// TokenExchanger redeems the authorization code for an access token.
// Stage 5.
type TokenExchanger interface {
	Exchange(ctx context.Context, authorizationCode string) (string, error)
}
