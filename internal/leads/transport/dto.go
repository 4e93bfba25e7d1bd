package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs. Required-field presence and contact-format rules are enforced
// by the service with specific reason codes; the tags here only cap sizes.
type CreateLeadRequest struct {
	Name   string `json:"name" validate:"max=120"`
	Email  string `json:"email" validate:"max=254"`
	Phone  string `json:"phone" validate:"max=32"`
	Party  string `json:"party" validate:"max=120"`
	Status string `json:"status,omitempty" validate:"max=60"`
	Tag    string `json:"tag,omitempty" validate:"max=60"`
}

type UpdateLeadRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email  *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Party  *string `json:"party,omitempty" validate:"omitempty,max=120"`
	Status *string `json:"status,omitempty" validate:"omitempty,max=60"`
	Tag    *string `json:"tag,omitempty" validate:"omitempty,max=60"`
}

type CheckDuplicateRequest struct {
	Email string `form:"email" validate:"max=254"`
	Phone string `form:"phone" validate:"max=32"`
}

// Response DTOs
type LeadResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Party         string    `json:"party"`
	Status        string    `json:"status"`
	Tag           string    `json:"tag"`
	LastConnected time.Time `json:"lastConnected"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DuplicateCheckResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
	EmailTaken  bool `json:"emailTaken"`
	PhoneTaken  bool `json:"phoneTaken"`
}
