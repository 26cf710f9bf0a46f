package utils

import "github.com/meinhoongagan/senior-care-app/validation"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}
