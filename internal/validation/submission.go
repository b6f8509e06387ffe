package validation

import (
	"regexp"
	"strings"
)

// Field length caps applied to story submissions before validation.
const (
	MaxNameLen    = 120
	MaxEmailLen   = 200
	MaxSubjectLen = 200
	MaxMessageLen = 8000
)

// SubscribeRequest is the newsletter signup payload. Honeypot is a hidden
// form field; any non-empty value marks the submission as automated.
type SubscribeRequest struct {
	Email    string `json:"email"`
	Honeypot string `json:"hp"`
}

// SubmitRequest is the story submission payload.
type SubmitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Honeypot string `json:"hp"`
}

// Deliberately simpler than RFC 5322: non-whitespace local and domain parts
// and a dot somewhere in the domain.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether email passes the submission email check.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Normalize trims the email and returns the request ready for validation.
func (r *SubscribeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Normalize truncates all fields to their caps. Truncation happens before
// validation so an oversized subject is shortened, not rejected.
func (r *SubmitRequest) Normalize() {
	r.Name = truncate(r.Name, MaxNameLen)
	r.Email = truncate(strings.TrimSpace(r.Email), MaxEmailLen)
	r.Subject = truncate(r.Subject, MaxSubjectLen)
	r.Message = truncate(r.Message, MaxMessageLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
