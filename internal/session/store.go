// Package session persists the minted access token into session-scoped
// storage. The original host kept the token as a session property; here the
// store is redis with a TTL, with a memory twin for tests and single-node
// deployments.
package session

import (
	"context"
	"time"
)

// Store holds one access token per verification run, keyed by run ID.
type Store interface {
	// SaveAccessToken persists the token under runID for ttl.
	SaveAccessToken(ctx context.Context, runID, accessToken string, ttl time.Duration) error

	// AccessToken returns the token for runID, or ("", false, nil) when the
	// entry is absent or expired.
	AccessToken(ctx context.Context, runID string) (string, bool, error)
}
