package pipeline

import (
	"fmt"

	dErrors "consentgate/pkg/domainerrors"
)

// State names a position in the verification state machine. Transitions only
// move forward; Rejected is absorbing and reachable from every non-terminal
// state.
type State string

const (
	StateStart             State = "start"
	StateAssertionVerified State = "assertion_verified"
	StateClientConfirmed   State = "client_confirmed"
	StateConsentFound      State = "consent_found"
	StateConsentActivated  State = "consent_activated"
	StateTokenIssued       State = "token_issued"
	StateRejected          State = "rejected"
)

// Outcome is the terminal result of one verification run. Callers observe
// only accept/reject plus a reason code; detail text stays in operator logs.
type Outcome struct {
	State       State
	RunID       string
	AccessToken string
	Reason      dErrors.Code
}

// Accepted reports whether the run completed every stage.
func (o Outcome) Accepted() bool {
	return o.State == StateTokenIssued
}

func accepted(runID, accessToken string) Outcome {
	return Outcome{State: StateTokenIssued, RunID: runID, AccessToken: accessToken}
}

func rejected(runID string, err error) Outcome {
	return Outcome{State: StateRejected, RunID: runID, Reason: dErrors.CodeOf(err)}
}

func clientNotFound(subject string) error {
	return dErrors.New(dErrors.CodeClientNotFound, fmt.Sprintf("no registration for client %q", subject))
}

func consentExpired(consentID string) error {
	return dErrors.New(dErrors.CodeConsentExpired, fmt.Sprintf("consent %q has expired", consentID))
}
