package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OwnerRef identifies the customer or session that caused the event.
type OwnerRef struct {
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
	SessionID  *string    `json:"sessionId,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Owner      *OwnerRef       `json:"owner,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a stored payload.
func DecodeEnvelope(raw json.RawMessage) (PayloadEnvelope, error) {
	var env PayloadEnvelope
	err := json.Unmarshal(raw, &env)
	return env, err
}
