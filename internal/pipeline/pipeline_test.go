package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"consentgate/internal/assertion"
	"consentgate/internal/pipeline/mocks"
	"consentgate/internal/registry"
	"consentgate/internal/session"
	dErrors "consentgate/pkg/domainerrors"
)

type fixture struct {
	verifier  *mocks.MockAssertionVerifier
	clients   *mocks.MockClientRegistry
	consents  *mocks.MockConsentRegistry
	exchanger *mocks.MockTokenExchanger
	sessions  *session.MemoryStore
	pipeline  *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		verifier:  mocks.NewMockAssertionVerifier(ctrl),
		clients:   mocks.NewMockClientRegistry(ctrl),
		consents:  mocks.NewMockConsentRegistry(ctrl),
		exchanger: mocks.NewMockTokenExchanger(ctrl),
		sessions:  session.NewMemoryStore(),
	}

	p, err := New(f.verifier, f.clients, f.consents, f.exchanger, f.sessions,
		time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithRunIDSource(func() string { return "run-1" }))
	require.NoError(t, err)
	f.pipeline = p
	return f
}

func validAssertion() *assertion.SignedAssertion {
	return &assertion.SignedAssertion{
		Subject:   "tpp-client-42",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func pendingConsent() *registry.ConsentRecord {
	return &registry.ConsentRecord{
		ID:                    "consent-1",
		ClientID:              "tpp-client-42",
		Status:                registry.ConsentStatusPending,
		ConsentExpiryDateTime: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
}

var testRequest = Request{
	BearerToken:       "hdr.payload.sig",
	AuthorizationCode: "auth-code-1",
}

func TestRun_AllStagesPassIssuesToken(t *testing.T) {
	f := newFixture(t)
	record := pendingConsent()

	gomock.InOrder(
		f.verifier.EXPECT().Verify("hdr.payload.sig").Return(validAssertion(), nil),
		f.clients.EXPECT().Exists(gomock.Any(), "tpp-client-42").Return(true, nil),
		f.consents.EXPECT().FindActiveConsent(gomock.Any(), "tpp-client-42").Return(record, nil),
		f.consents.EXPECT().Expired(record).Return(false, nil),
		f.consents.EXPECT().Activate(gomock.Any(), "consent-1").Return(nil),
		f.exchanger.EXPECT().Exchange(gomock.Any(), "auth-code-1").Return("abc123", nil),
	)

	out := f.pipeline.Run(context.Background(), testRequest)

	assert.True(t, out.Accepted())
	assert.Equal(t, StateTokenIssued, out.State)
	assert.Equal(t, "abc123", out.AccessToken)
	assert.Empty(t, out.Reason)

	token, ok, err := f.sessions.AccessToken(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestRun_ClientNotFoundStopsBeforeConsent(t *testing.T) {
	f := newFixture(t)

	f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
	f.clients.EXPECT().Exists(gomock.Any(), "tpp-client-42").Return(false, nil)
	// No consent or exchange expectations: any call there fails the test.

	out := f.pipeline.Run(context.Background(), testRequest)

	assert.False(t, out.Accepted())
	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, dErrors.CodeClientNotFound, out.Reason)
	assert.Empty(t, out.AccessToken)
}

func TestRun_ExpiredConsentStopsBeforeActivation(t *testing.T) {
	f := newFixture(t)
	record := pendingConsent()
	record.ConsentExpiryDateTime = time.Now().Add(-time.Hour).Format(time.RFC3339)

	f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
	f.clients.EXPECT().Exists(gomock.Any(), "tpp-client-42").Return(true, nil)
	f.consents.EXPECT().FindActiveConsent(gomock.Any(), "tpp-client-42").Return(record, nil)
	f.consents.EXPECT().Expired(record).Return(true, nil)

	out := f.pipeline.Run(context.Background(), testRequest)

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, dErrors.CodeConsentExpired, out.Reason)
}

func TestRun_InvalidSignatureMakesNoNetworkCalls(t *testing.T) {
	f := newFixture(t)

	f.verifier.EXPECT().Verify(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidSignature, "RS256 verification failed"))

	out := f.pipeline.Run(context.Background(), testRequest)

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, dErrors.CodeInvalidSignature, out.Reason)
}

func TestRun_AuthorizationCodeSurvivesToExchange(t *testing.T) {
	f := newFixture(t)
	record := pendingConsent()

	f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
	f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)
	f.consents.EXPECT().FindActiveConsent(gomock.Any(), gomock.Any()).Return(record, nil)
	f.consents.EXPECT().Expired(record).Return(false, nil)
	f.consents.EXPECT().Activate(gomock.Any(), gomock.Any()).Return(nil)
	// Stage 5 must see exactly the code stage 1 recorded.
	f.exchanger.EXPECT().Exchange(gomock.Any(), "code-set-by-stage-one").Return("tok", nil)

	out := f.pipeline.Run(context.Background(), Request{
		BearerToken:       "hdr.payload.sig",
		AuthorizationCode: "code-set-by-stage-one",
	})

	assert.True(t, out.Accepted())
}

func TestRun_StageErrorsMapToReasonCodes(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(f *fixture)
		reason dErrors.Code
	}{
		{
			name: "assertion expired",
			setup: func(f *fixture) {
				f.verifier.EXPECT().Verify(gomock.Any()).
					Return(validAssertion(), dErrors.New(dErrors.CodeAssertionExpired, "expired"))
			},
			reason: dErrors.CodeAssertionExpired,
		},
		{
			name: "registry error",
			setup: func(f *fixture) {
				f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
				f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).
					Return(false, dErrors.New(dErrors.CodeRegistryError, "status 500"))
			},
			reason: dErrors.CodeRegistryError,
		},
		{
			name: "consent id not found",
			setup: func(f *fixture) {
				f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
				f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)
				f.consents.EXPECT().FindActiveConsent(gomock.Any(), gomock.Any()).
					Return(nil, dErrors.New(dErrors.CodeConsentIDNotFound, "no id"))
			},
			reason: dErrors.CodeConsentIDNotFound,
		},
		{
			name: "invalid consent id on activation",
			setup: func(f *fixture) {
				record := pendingConsent()
				f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
				f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)
				f.consents.EXPECT().FindActiveConsent(gomock.Any(), gomock.Any()).Return(record, nil)
				f.consents.EXPECT().Expired(record).Return(false, nil)
				f.consents.EXPECT().Activate(gomock.Any(), "consent-1").
					Return(dErrors.New(dErrors.CodeInvalidConsentID, "status 400"))
			},
			reason: dErrors.CodeInvalidConsentID,
		},
		{
			name: "token generation failed",
			setup: func(f *fixture) {
				record := pendingConsent()
				f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
				f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)
				f.consents.EXPECT().FindActiveConsent(gomock.Any(), gomock.Any()).Return(record, nil)
				f.consents.EXPECT().Expired(record).Return(false, nil)
				f.consents.EXPECT().Activate(gomock.Any(), gomock.Any()).Return(nil)
				f.exchanger.EXPECT().Exchange(gomock.Any(), gomock.Any()).
					Return("", dErrors.New(dErrors.CodeTokenGenerationFailed, "no access_token"))
			},
			reason: dErrors.CodeTokenGenerationFailed,
		},
		{
			name: "timeout during lookup",
			setup: func(f *fixture) {
				f.verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
				f.clients.EXPECT().Exists(gomock.Any(), gomock.Any()).
					Return(false, dErrors.Wrap(dErrors.CodeTimeout, "deadline", context.DeadlineExceeded))
			},
			reason: dErrors.CodeTimeout,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)

			out := f.pipeline.Run(context.Background(), testRequest)

			assert.Equal(t, StateRejected, out.State)
			assert.Equal(t, tc.reason, out.Reason)
			assert.Empty(t, out.AccessToken)
		})
	}
}

type failingSessionStore struct{}

func (failingSessionStore) SaveAccessToken(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingSessionStore) AccessToken(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func TestRun_SessionPersistFailureDoesNotUndoIssuance(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAssertionVerifier(ctrl)
	clients := mocks.NewMockClientRegistry(ctrl)
	consents := mocks.NewMockConsentRegistry(ctrl)
	exchanger := mocks.NewMockTokenExchanger(ctrl)
	record := pendingConsent()

	verifier.EXPECT().Verify(gomock.Any()).Return(validAssertion(), nil)
	clients.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)
	consents.EXPECT().FindActiveConsent(gomock.Any(), gomock.Any()).Return(record, nil)
	consents.EXPECT().Expired(record).Return(false, nil)
	consents.EXPECT().Activate(gomock.Any(), gomock.Any()).Return(nil)
	exchanger.EXPECT().Exchange(gomock.Any(), gomock.Any()).Return("abc123", nil)

	p, err := New(verifier, clients, consents, exchanger, failingSessionStore{},
		time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	out := p.Run(context.Background(), testRequest)

	assert.True(t, out.Accepted())
	assert.Equal(t, "abc123", out.AccessToken)
}

func TestNew_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAssertionVerifier(ctrl)
	clients := mocks.NewMockClientRegistry(ctrl)
	consents := mocks.NewMockConsentRegistry(ctrl)
	exchanger := mocks.NewMockTokenExchanger(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(nil, clients, consents, exchanger, nil, time.Hour, logger)
	assert.Error(t, err)

	_, err = New(verifier, nil, consents, exchanger, nil, time.Hour, logger)
	assert.Error(t, err)

	_, err = New(verifier, clients, nil, exchanger, nil, time.Hour, logger)
	assert.Error(t, err)

	_, err = New(verifier, clients, consents, nil, nil, time.Hour, logger)
	assert.Error(t, err)

	// Missing session store falls back to the memory store.
	p, err := New(verifier, clients, consents, exchanger, nil, time.Hour, logger)
	require.NoError(t, err)
	assert.NotNil(t, p)
}
