// Package pipeline sequences the five verification stages that gate access
// token issuance: assertion verification, client existence, consent lookup,
// consent activation, token exchange. Any stage failure short-circuits the
// run into a terminal rejection; stages are never retried or reordered.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"consentgate/internal/platform/metrics"
	"consentgate/internal/session"
)

// Stage labels for logs and metrics, named after what each stage checks.
const (
	stageAssertion  = "assertion_verification"
	stageClient     = "client_validation"
	stageConsent    = "consent_validation"
	stageActivation = "consent_activation"
	stageExchange   = "token_generation"
)

// Request carries the entry inputs of one verification run, extracted from
// the triggering request's headers.
type Request struct {
	// BearerToken is the raw client assertion from the Authorization header.
	BearerToken string

	// AuthorizationCode is the code header value, redeemed in stage 5.
	AuthorizationCode string
}

// Pipeline orchestrates the verification stages. Construct once; Run is safe
// for concurrent use, each run owning an independent context.
type Pipeline struct {
	verifier   AssertionVerifier
	clients    ClientRegistry
	consents   ConsentRegistry
	exchanger  TokenExchanger
	sessions   session.Store
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	newRunID   func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches stage and outcome metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithRunIDSource overrides run ID generation, for tests.
func WithRunIDSource(newRunID func() string) Option {
	return func(p *Pipeline) {
		p.newRunID = newRunID
	}
}

// New constructs the pipeline. Every collaborator is required except the
// session store, which falls back to the in-process store.
func New(
	verifier AssertionVerifier,
	clients ClientRegistry,
	consents ConsentRegistry,
	exchanger TokenExchanger,
	sessions session.Store,
	sessionTTL time.Duration,
	logger *slog.Logger,
	opts ...Option,
) (*Pipeline, error) {
	if verifier == nil {
		return nil, fmt.Errorf("assertion verifier is required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client registry is required")
	}
	if consents == nil {
		return nil, fmt.Errorf("consent registry is required")
	}
	if exchanger == nil {
		return nil, fmt.Errorf("token exchanger is required")
	}
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	p := &Pipeline{
		verifier:   verifier,
		clients:    clients,
		consents:   consents,
		exchanger:  exchanger,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one verification. Stages run strictly in order; each consumes
// the context produced by its predecessor and appends its own field. The
// first failing stage decides the rejection reason.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	runID := p.newRunID()
	rc := NewRunContext(runID).WithAuthorizationCode(req.AuthorizationCode)

	// Stage 1: verify the client assertion before touching the network.
	stageStart := time.Now()
	asserted, err := p.verifier.Verify(req.BearerToken)
	p.observeStage(stageAssertion, stageStart)
	if err != nil {
		return p.reject(ctx, runID, StateStart, stageAssertion, err)
	}
	p.transition(ctx, runID, StateAssertionVerified)

	// Stage 2: the subject claim must name a registered client.
	stageStart = time.Now()
	exists, err := p.clients.Exists(ctx, asserted.Subject)
	p.observeStage(stageClient, stageStart)
	if err != nil {
		return p.reject(ctx, runID, StateAssertionVerified, stageClient, err)
	}
	if !exists {
		return p.reject(ctx, runID, StateAssertionVerified, stageClient,
			clientNotFound(asserted.Subject))
	}
	rc = rc.WithClientID(asserted.Subject)
	p.transition(ctx, runID, StateClientConfirmed)

	// Stage 3: the client must hold an unexpired consent.
	stageStart = time.Now()
	record, err := p.consents.FindActiveConsent(ctx, rc.ClientID())
	if err != nil {
		p.observeStage(stageConsent, stageStart)
		return p.reject(ctx, runID, StateClientConfirmed, stageConsent, err)
	}
	expired, err := p.consents.Expired(record)
	p.observeStage(stageConsent, stageStart)
	if err != nil {
		return p.reject(ctx, runID, StateClientConfirmed, stageConsent, err)
	}
	if expired {
		return p.reject(ctx, runID, StateClientConfirmed, stageConsent,
			consentExpired(record.ID))
	}
	rc = rc.WithConsentID(record.ID)
	p.transition(ctx, runID, StateConsentFound)

	// Stage 4: flip the consent to active.
	stageStart = time.Now()
	err = p.consents.Activate(ctx, rc.ConsentID())
	p.observeStage(stageActivation, stageStart)
	if err != nil {
		return p.reject(ctx, runID, StateConsentFound, stageActivation, err)
	}
	p.transition(ctx, runID, StateConsentActivated)

	// Stage 5: redeem the authorization code captured in stage 1.
	stageStart = time.Now()
	token, err := p.exchanger.Exchange(ctx, rc.AuthorizationCode())
	p.observeStage(stageExchange, stageStart)
	if err != nil {
		return p.reject(ctx, runID, StateConsentActivated, stageExchange, err)
	}
	rc = rc.WithAccessToken(token)

	// Session persistence is a host concern; a failed write does not undo
	// the issued token, so the run still completes.
	if err := p.sessions.SaveAccessToken(ctx, runID, token, p.sessionTTL); err != nil {
		p.logger.ErrorContext(ctx, "failed to persist access token to session store",
			"run_id", runID,
			"error", err.Error(),
		)
	}

	p.transition(ctx, runID, StateTokenIssued)
	if p.metrics != nil {
		p.metrics.ObserveRun("accepted")
	}
	return accepted(runID, rc.AccessToken())
}

func (p *Pipeline) reject(ctx context.Context, runID string, from State, stage string, err error) Outcome {
	out := rejected(runID, err)
	p.logger.WarnContext(ctx, "verification rejected",
		"run_id", runID,
		"stage", stage,
		"from_state", string(from),
		"reason", string(out.Reason),
		"error", err.Error(),
	)
	if p.metrics != nil {
		p.metrics.ObserveRun("rejected")
		p.metrics.ObserveRejection(string(out.Reason))
	}
	return out
}

func (p *Pipeline) transition(ctx context.Context, runID string, to State) {
	p.logger.DebugContext(ctx, "state transition",
		"run_id", runID,
		"state", string(to),
	)
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, time.Since(start))
	}
}
