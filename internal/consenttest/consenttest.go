// Package consenttest seeds and tears down consent records in a registry,
// for tests that exercise the consent clients against a real or fake
// registry. It is test support, not part of the verification flow.
package consenttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"consentgate/internal/gateway"
	"consentgate/internal/registry"
	dErrors "consentgate/pkg/domainerrors"
)

// Consent is the full record shape the registry accepts on creation.
type Consent struct {
	PersonID              string `json:"personId"`
	PersonLastName        string `json:"personLastName"`
	PersonEmail           string `json:"personEmail"`
	Scope                 string `json:"scope"`
	OrgID                 string `json:"orgId"`
	ClientID              string `json:"clientId"`
	Status                string `json:"status"`
	ConsentStartDateTime  string `json:"consentStartDateTime"`
	StatusUpdateDateTime  string `json:"statusUpdateDateTime"`
	ConsentExpiryDateTime string `json:"consentExpiryDateTime"`
}

// Fixture creates and deletes consents against a registry's managed-consent
// endpoint.
type Fixture struct {
	gateway *gateway.Gateway
	baseURL string
}

// NewFixture constructs a fixture against baseURL, the registry's managed
// consent collection.
func NewFixture(gw *gateway.Gateway, baseURL string) *Fixture {
	return &Fixture{gateway: gw, baseURL: baseURL}
}

// CreateConsent posts a pending consent for clientID expiring at expiry and
// returns the registry-assigned identifier.
func (f *Fixture) CreateConsent(ctx context.Context, clientID string, expiry time.Time) (string, error) {
	now := time.Now()
	body, err := json.Marshal(Consent{
		PersonID:              "test-person",
		PersonLastName:        "Tester",
		PersonEmail:           "tester@example.com",
		Scope:                 "accounts",
		OrgID:                 "test-org",
		ClientID:              clientID,
		Status:                string(registry.ConsentStatusPending),
		ConsentStartDateTime:  now.Format(time.RFC3339),
		StatusUpdateDateTime:  now.Format(time.RFC3339),
		ConsentExpiryDateTime: expiry.Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	resp, err := f.gateway.Do(ctx, http.MethodPost, f.baseURL,
		map[string]string{"Content-Type": "application/json"}, body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", dErrors.New(dErrors.CodeConsentUpdateError,
			fmt.Sprintf("create consent returned status %d", resp.StatusCode))
	}

	var created struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", dErrors.Wrap(dErrors.CodeConsentUpdateError, "decode create response", err)
	}
	return created.ID, nil
}

// DeleteConsent removes a consent by its registry identifier.
func (f *Fixture) DeleteConsent(ctx context.Context, consentID string) error {
	resp, err := f.gateway.Do(ctx, http.MethodDelete, f.baseURL+"/"+consentID, nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dErrors.New(dErrors.CodeConsentUpdateError,
			fmt.Sprintf("delete consent returned status %d", resp.StatusCode))
	}
	return nil
}
