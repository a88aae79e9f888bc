// Package leads captures contact details from conversations that did
// not end in a booking, so the crew can follow up.
package leads

import (
	"strings"
	"time"
)

// Lead is one captured prospect.
type Lead struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ServiceID      string    `json:"service_id"`
	Outcome        string    `json:"outcome"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request for capturing a lead.
type CreateLeadRequest struct {
	ConversationID string `json:"conversation_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ServiceID      string `json:"service_id"`
	Outcome        string `json:"outcome"`
	Summary        string `json:"summary"`
	Source         string `json:"source"`
}

// Validate checks the lead is traceable and reachable.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.ConversationID) == "" {
		return ErrMissingConversation
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	return nil
}
