// Package httptransport is the thin HTTP layer triggering verification runs.
// It extracts the two inbound headers, delegates to the pipeline and
// translates the outcome; callers never see more than accept/reject plus a
// reason code.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/pipeline"
	"consentgate/internal/platform/middleware"
	dErrors "consentgate/pkg/domainerrors"
)

// Runner is the pipeline surface the handler depends on.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Outcome
}

// HealthChecker reports backing-store health for the readiness endpoint.
// A nil checker means no external store is configured.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles the verification endpoint.
type Handler struct {
	pipeline Runner
	health   HealthChecker
	logger   *slog.Logger
}

// New creates the verification Handler.
func New(p Runner, health HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{pipeline: p, health: health, logger: logger}
}

// Register mounts the verification routes onto r.
func (h *Handler) Register(r chi.Router) {
	verifyRouter := chi.NewRouter()
	verifyRouter.Use(middleware.Recovery(h.logger))
	verifyRouter.Use(middleware.RequestID)
	verifyRouter.Use(middleware.Logger(h.logger))
	verifyRouter.Use(middleware.Timeout(60 * time.Second))
	verifyRouter.Post("/verify", h.handleVerify)
	verifyRouter.Get("/healthz", h.handleHealth)

	r.Mount("/", verifyRouter)
}

// handleVerify runs the five-stage pipeline for one request.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	bearer, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		h.logger.WarnContext(ctx, "missing or malformed Authorization header",
			"request_id", requestID,
		)
		writeError(w, http.StatusBadRequest, dErrors.CodeBadRequest)
		return
	}

	code := r.Header.Get("code")
	if code == "" {
		h.logger.WarnContext(ctx, "missing code header", "request_id", requestID)
		writeError(w, http.StatusBadRequest, dErrors.CodeBadRequest)
		return
	}

	outcome := h.pipeline.Run(ctx, pipeline.Request{
		BearerToken:       bearer,
		AuthorizationCode: code,
	})
	if !outcome.Accepted() {
		writeError(w, http.StatusUnauthorized, outcome.Reason)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": outcome.AccessToken,
		"run_id":       outcome.RunID,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// bearerToken strips the Bearer scheme from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError keeps the rejection envelope to the reason code alone.
func writeError(w http.ResponseWriter, status int, code dErrors.Code) {
	writeJSON(w, status, map[string]string{"error": string(code)})
}
