// Package exchange trades an authorization code for an access token at the
// deployment's OAuth2 token endpoint.
package exchange

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"consentgate/internal/gateway"
	dErrors "consentgate/pkg/domainerrors"
)

// Client performs the authorization_code grant with Basic client
// authentication. Grant parameters travel in the query string, matching the
// token endpoint's expectations; the body stays empty.
type Client struct {
	gateway       *gateway.Gateway
	tokenEndpoint string
	clientID      string
	clientSecret  string
	logger        *slog.Logger
}

// New constructs a token exchange client.
func New(gw *gateway.Gateway, tokenEndpoint, clientID, clientSecret string, logger *slog.Logger) (*Client, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if tokenEndpoint == "" {
		return nil, fmt.Errorf("token endpoint is required")
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}
	return &Client{
		gateway:       gw,
		tokenEndpoint: tokenEndpoint,
		clientID:      clientID,
		clientSecret:  clientSecret,
		logger:        logger,
	}, nil
}

// Exchange redeems an authorization code for an access token. A response
// without an access_token field is a generation failure even when the status
// is 2xx.
func (c *Client) Exchange(ctx context.Context, authorizationCode string) (string, error) {
	endpoint := c.tokenEndpoint +
		"?grant_type=authorization_code&code=" + url.QueryEscape(authorizationCode)

	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	headers := map[string]string{
		"Authorization": "Basic " + basic,
		"Content-Type":  "application/x-www-form-urlencoded",
	}

	resp, err := c.gateway.Do(ctx, http.MethodPost, endpoint, headers, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", dErrors.New(dErrors.CodeTokenExchangeError,
			fmt.Sprintf("token endpoint returned status %d", resp.StatusCode))
	}

	var body struct {
		AccessToken *string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", dErrors.Wrap(dErrors.CodeTokenExchangeError, "decode token response", err)
	}
	if body.AccessToken == nil || *body.AccessToken == "" {
		return "", dErrors.New(dErrors.CodeTokenGenerationFailed, "response carries no access_token")
	}

	c.logger.InfoContext(ctx, "access token issued", "client_id", c.clientID)
	return *body.AccessToken, nil
}
