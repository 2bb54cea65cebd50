package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentgate/internal/pipeline"
	dErrors "consentgate/pkg/domainerrors"
	"consentgate/pkg/testutil"
)

type stubRunner struct {
	outcome pipeline.Outcome
	gotReq  pipeline.Request
	calls   int
}

func (s *stubRunner) Run(_ context.Context, req pipeline.Request) pipeline.Outcome {
	s.calls++
	s.gotReq = req
	return s.outcome
}

type stubHealth struct {
	err error
}

func (s stubHealth) Health(context.Context) error { return s.err }

func newTestRouter(runner *stubRunner, health HealthChecker) http.Handler {
	h := New(runner, health, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleVerify_Accepted(t *testing.T) {
	runner := &stubRunner{outcome: pipeline.Outcome{
		State:       pipeline.StateTokenIssued,
		RunID:       "run-1",
		AccessToken: "abc123",
	}}
	router := newTestRouter(runner, nil)

	req := testutil.NewRequest(t, http.MethodPost, "/verify")
	req.Header.Set("Authorization", "Bearer hdr.payload.sig")
	req.Header.Set("code", "auth-code-1")

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	var body map[string]string
	require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &body))
	assert.Equal(t, "abc123", body["access_token"])
	assert.Equal(t, "run-1", body["run_id"])

	assert.Equal(t, "hdr.payload.sig", runner.gotReq.BearerToken)
	assert.Equal(t, "auth-code-1", runner.gotReq.AuthorizationCode)
}

func TestHandleVerify_RejectedExposesOnlyReasonCode(t *testing.T) {
	runner := &stubRunner{outcome: pipeline.Outcome{
		State:  pipeline.StateRejected,
		RunID:  "run-1",
		Reason: dErrors.CodeConsentExpired,
	}}
	router := newTestRouter(runner, nil)

	req := testutil.NewRequest(t, http.MethodPost, "/verify")
	req.Header.Set("Authorization", "Bearer hdr.payload.sig")
	req.Header.Set("code", "auth-code-1")

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	body := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "consent_expired", body["error"])
	assert.Len(t, body, 1, "rejection envelope carries the reason code and nothing else")
}

func TestHandleVerify_HeaderValidation(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing authorization header", func(r *http.Request) {
			r.Header.Set("code", "auth-code-1")
		}},
		{"authorization without bearer scheme", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
			r.Header.Set("code", "auth-code-1")
		}},
		{"empty bearer token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer ")
			r.Header.Set("code", "auth-code-1")
		}},
		{"missing code header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer hdr.payload.sig")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &stubRunner{}
			router := newTestRouter(runner, nil)

			req := testutil.NewRequest(t, http.MethodPost, "/verify")
			tc.setup(req)

			rr := testutil.DoRequest(router, req)

			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
			assert.Zero(t, runner.calls, "pipeline must not run for invalid requests")
		})
	}
}

func TestHandleVerify_BearerSchemeIsCaseInsensitive(t *testing.T) {
	runner := &stubRunner{outcome: pipeline.Outcome{
		State:       pipeline.StateTokenIssued,
		AccessToken: "abc123",
	}}
	router := newTestRouter(runner, nil)

	req := testutil.NewRequest(t, http.MethodPost, "/verify")
	req.Header.Set("Authorization", "bearer hdr.payload.sig")
	req.Header.Set("code", "auth-code-1")

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "hdr.payload.sig", runner.gotReq.BearerToken)
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		router := newTestRouter(&stubRunner{}, stubHealth{})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("degraded store", func(t *testing.T) {
		router := newTestRouter(&stubRunner{}, stubHealth{err: errors.New("redis down")})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})

	t.Run("no store configured", func(t *testing.T) {
		router := newTestRouter(&stubRunner{}, nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
	})
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(&stubRunner{}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/verify"))

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
