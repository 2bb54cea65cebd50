package registry

// ConsentStatus is the registry-side consent lifecycle state. This service
// only ever performs the pending -> active transition.
type ConsentStatus string

const (
	ConsentStatusPending ConsentStatus = "pending"
	ConsentStatusActive  ConsentStatus = "active"
	ConsentStatusExpired ConsentStatus = "expired"
	ConsentStatusRevoked ConsentStatus = "revoked"
)

// ConsentRecord is the slice of the registry's consent entity this service
// consumes. The registry owns the record; we read it in stage 3 and patch its
// status in stage 4.
type ConsentRecord struct {
	ID                    string        `json:"_id"`
	ClientID              string        `json:"clientId"`
	Status                ConsentStatus `json:"status"`
	ConsentExpiryDateTime string        `json:"consentExpiryDateTime"`
	StatusUpdateDateTime  string        `json:"statusUpdateDateTime"`
}

// consentLookupResponse mirrors the registry's consent query envelope.
type consentLookupResponse struct {
	ClientDetails []ConsentRecord `json:"ClientDetails"`
}

// patchOperation is one entry of the registry's partial-update body.
type patchOperation struct {
	Operation string `json:"operation"`
	Field     string `json:"field"`
	Value     string `json:"value"`
}
