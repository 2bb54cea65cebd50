package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"consentgate/internal/gateway"
	dErrors "consentgate/pkg/domainerrors"
)

// ConsentRegistryClient looks up consent records and applies the
// pending -> active status transition.
type ConsentRegistryClient struct {
	gateway   *gateway.Gateway
	lookupURL string
	updateURL string
	logger    *slog.Logger
	now       func() time.Time
}

// ConsentOption configures a ConsentRegistryClient.
type ConsentOption func(*ConsentRegistryClient)

// WithConsentClock overrides the time source used for the status-update
// timestamp, for tests.
func WithConsentClock(now func() time.Time) ConsentOption {
	return func(c *ConsentRegistryClient) {
		c.now = now
	}
}

// NewConsentRegistryClient constructs a client against the registry's
// consent endpoints.
func NewConsentRegistryClient(gw *gateway.Gateway, lookupURL, updateURL string, logger *slog.Logger, opts ...ConsentOption) (*ConsentRegistryClient, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if lookupURL == "" || updateURL == "" {
		return nil, fmt.Errorf("lookup and update URLs are required")
	}
	c := &ConsentRegistryClient{
		gateway:   gw,
		lookupURL: lookupURL,
		updateURL: updateURL,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FindActiveConsent returns the consent record the registry holds for
// clientID. The registry returns an ordered collection and this takes its
// first element unconditionally, matching registry behavior; no tie-break
// among multiple consents is defined.
func (c *ConsentRegistryClient) FindActiveConsent(ctx context.Context, clientID string) (*ConsentRecord, error) {
	lookup := c.lookupURL + "?clientId=" + url.QueryEscape(clientID)
	resp, err := c.gateway.Get(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, dErrors.New(dErrors.CodeConsentLookupError,
			fmt.Sprintf("consent lookup returned status %d", resp.StatusCode))
	}

	var envelope consentLookupResponse
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeConsentLookupError, "decode consent lookup response", err)
	}
	if len(envelope.ClientDetails) == 0 {
		return nil, dErrors.New(dErrors.CodeConsentIDNotFound, "registry returned no consent records")
	}

	record := envelope.ClientDetails[0]
	if record.ID == "" {
		return nil, dErrors.New(dErrors.CodeConsentIDNotFound, "consent record has no identifier")
	}
	return &record, nil
}

// Expired reports whether the record's expiry has been reached. The boundary
// is inclusive: a consent expiring at exactly the current instant is expired.
// Note the deliberate asymmetry with the assertion expiry check, which is
// strict; both preserve upstream registry behavior.
func (c *ConsentRegistryClient) Expired(record *ConsentRecord) (bool, error) {
	expiry, err := time.Parse(time.RFC3339, record.ConsentExpiryDateTime)
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeConsentLookupError, "parse consentExpiryDateTime", err)
	}
	return !c.now().Before(expiry), nil
}

// Activate applies the partial update flipping the consent's status to
// active and stamping statusUpdateDateTime. Calling it on an already-active
// consent succeeds and refreshes the timestamp.
func (c *ConsentRegistryClient) Activate(ctx context.Context, consentID string) error {
	body, err := json.Marshal([]patchOperation{
		{Operation: "replace", Field: "/status", Value: string(ConsentStatusActive)},
		{Operation: "replace", Field: "/statusUpdateDateTime", Value: c.now().Format(time.RFC3339)},
	})
	if err != nil {
		return dErrors.Wrap(dErrors.CodeConsentUpdateError, "encode status patch", err)
	}

	update := c.updateURL + "?consentId=" + url.QueryEscape(consentID)
	resp, err := c.gateway.Do(ctx, http.MethodPatch, update,
		map[string]string{"Content-Type": "application/json"}, body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return dErrors.New(dErrors.CodeInvalidConsentID, "registry rejected consent id")
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeConsentNotFound, "consent does not exist")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return dErrors.New(dErrors.CodeConsentUpdateError,
			fmt.Sprintf("consent update returned status %d", resp.StatusCode))
	}

	c.logger.InfoContext(ctx, "consent activated", "consent_id", consentID)
	return nil
}
