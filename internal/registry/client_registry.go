// Package registry holds the HTTP clients for the external client and
// consent registries. The registries are systems of record; these clients
// only query and apply the one status transition the pipeline needs.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"consentgate/internal/gateway"
	dErrors "consentgate/pkg/domainerrors"
)

// ClientRegistryClient resolves client registrations by the assertion's
// subject claim.
type ClientRegistryClient struct {
	gateway   *gateway.Gateway
	lookupURL string
	logger    *slog.Logger
}

// NewClientRegistryClient constructs a client against the registry's
// client-lookup endpoint.
func NewClientRegistryClient(gw *gateway.Gateway, lookupURL string, logger *slog.Logger) (*ClientRegistryClient, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if lookupURL == "" {
		return nil, fmt.Errorf("lookup URL is required")
	}
	return &ClientRegistryClient{gateway: gw, lookupURL: lookupURL, logger: logger}, nil
}

// Exists reports whether a client registration exists for clientName.
// A 404 from the registry is a negative answer, not an error; any other
// non-2xx status is a registry error.
func (c *ClientRegistryClient) Exists(ctx context.Context, clientName string) (bool, error) {
	lookup := c.lookupURL + "?clientName=" + url.QueryEscape(clientName)
	resp, err := c.gateway.Get(ctx, lookup)
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.InfoContext(ctx, "client not found in registry", "client_name", clientName)
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, dErrors.New(dErrors.CodeRegistryError,
			fmt.Sprintf("client lookup returned status %d", resp.StatusCode))
	}
}
