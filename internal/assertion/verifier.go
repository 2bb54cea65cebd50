// Package assertion verifies the signed client assertion presented on the
// triggering request: RS256 signature over the compact JWS signing input,
// then the expiry claim against the current time.
package assertion

import (
	"crypto/rsa"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "consentgate/pkg/domainerrors"
)

// SignedAssertion is the decoded form of the inbound bearer token. It is
// created here and never mutated afterwards.
type SignedAssertion struct {
	HeaderSegment    string
	PayloadSegment   string
	SignatureSegment string

	// Subject is the client identifier claim; stage 2 keys its registry
	// lookup on it.
	Subject string

	// ExpiresAt is the absolute expiry instant from the exp claim.
	ExpiresAt time.Time
}

// Verifier checks assertion signatures against a fixed RSA public key.
// Verification is pure: no network, no shared state.
type Verifier struct {
	publicKey *rsa.PublicKey
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock overrides the time source, for boundary tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// New constructs a Verifier around the deployment's assertion public key.
func New(publicKeyPEM string, logger *slog.Logger, opts ...Option) (*Verifier, error) {
	key, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	v := &Verifier{
		publicKey: key,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates rawToken's structure, RS256 signature and expiry.
// The assertion is valid iff its expiry is strictly after the current time;
// one expiring at exactly the current second is already invalid.
func (v *Verifier) Verify(rawToken string) (*SignedAssertion, error) {
	lastDot := strings.LastIndex(rawToken, ".")
	if lastDot <= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedToken, "token has no signature segment")
	}
	signingInput := rawToken[:lastDot]
	signatureSegment := rawToken[lastDot+1:]

	headerDot := strings.Index(signingInput, ".")
	if headerDot <= 0 || signatureSegment == "" {
		return nil, dErrors.New(dErrors.CodeMalformedToken, "token is not in compact JWS form")
	}

	signature, err := base64.RawURLEncoding.DecodeString(signatureSegment)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidSignature, "signature segment is not base64url", err)
	}

	if err := jwt.SigningMethodRS256.Verify(signingInput, signature, v.publicKey); err != nil {
		v.logger.Debug("assertion signature rejected", "error", err.Error())
		return nil, dErrors.Wrap(dErrors.CodeInvalidSignature, "RS256 verification failed", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeMalformedToken, "claims segment could not be parsed", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, dErrors.New(dErrors.CodeMissingExpiryClaim, "exp claim is absent")
	}

	subject, _ := claims.GetSubject()

	a := &SignedAssertion{
		HeaderSegment:    signingInput[:headerDot],
		PayloadSegment:   signingInput[headerDot+1:],
		SignatureSegment: signatureSegment,
		Subject:          subject,
		ExpiresAt:        exp.Time,
	}

	// Compared as UTC epoch seconds; the boundary is strict.
	if !(exp.Time.Unix() > v.now().Unix()) {
		return a, dErrors.New(dErrors.CodeAssertionExpired, "assertion expiry is not in the future")
	}
	return a, nil
}
