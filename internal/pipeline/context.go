package pipeline

// RunContext is the shared state threaded through the pipeline stages for a
// single verification run. It is immutable: each With method returns a new
// value carrying the extra field, so a later stage can never overwrite what
// an earlier stage recorded. Data flow is strictly forward.
type RunContext struct {
	runID             string
	authorizationCode string
	clientID          string
	consentID         string
	accessToken       string
}

// NewRunContext starts an empty context for one run.
func NewRunContext(runID string) RunContext {
	return RunContext{runID: runID}
}

// RunID identifies this verification run; it keys the session-store entry.
func (c RunContext) RunID() string { return c.runID }

// AuthorizationCode is set by stage 1 from the triggering request's code
// header.
func (c RunContext) AuthorizationCode() string { return c.authorizationCode }

// ClientID is set by stage 2 from the assertion's subject claim.
func (c RunContext) ClientID() string { return c.clientID }

// ConsentID is set by stage 3 from the registry's consent record.
func (c RunContext) ConsentID() string { return c.consentID }

// AccessToken is set by stage 5 after a successful exchange.
func (c RunContext) AccessToken() string { return c.accessToken }

// WithAuthorizationCode returns a copy carrying the authorization code.
func (c RunContext) WithAuthorizationCode(code string) RunContext {
	c.authorizationCode = code
	return c
}

// WithClientID returns a copy carrying the client identifier.
func (c RunContext) WithClientID(clientID string) RunContext {
	c.clientID = clientID
	return c
}

// WithConsentID returns a copy carrying the consent identifier.
func (c RunContext) WithConsentID(consentID string) RunContext {
	c.consentID = consentID
	return c
}

// WithAccessToken returns a copy carrying the minted access token.
func (c RunContext) WithAccessToken(token string) RunContext {
	c.accessToken = token
	return c
}
