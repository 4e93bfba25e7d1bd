package service

import (
	"context"
	"regexp"
	"strings"

	"leads_backend/platform/apperr"
	"leads_backend/platform/phone"

	"github.com/google/uuid"
)

// Reason codes for user-fixable validation failures.
const (
	CodeMissingField   = "MISSING_FIELD"
	CodeInvalidEmail   = "INVALID_EMAIL"
	CodeInvalidPhone   = "INVALID_PHONE"
	CodeDuplicateEmail = "DUPLICATE_EMAIL"
	CodeDuplicatePhone = "DUPLICATE_PHONE"
	CodeDuplicateBoth  = "DUPLICATE_BOTH"
)

// local-part@domain with a dotted top-level segment. No MX lookup.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// DuplicateResult classifies the outcome of a duplicate check.
type DuplicateResult int

const (
	NoConflict DuplicateResult = iota
	EmailConflict
	PhoneConflict
	BothConflict
)

// leadFields is the validated slice of a lead: the full candidate state on
// create, the merged state on update. Descriptive fields (party, status, tag)
// are free-form and not validated.
type leadFields struct {
	Name  string
	Email string
	Phone string
}

func validEmail(candidate string) bool {
	return emailPattern.MatchString(candidate)
}

// validateLead runs the ordered validation pipeline: required presence, email
// grammar, phone grammar, then the duplicate check against the store.
// Presence beats format and format beats duplicates, so no store read happens
// for malformed contact data. Returns the phone in storage (E.164) form.
func (s *Service) validateLead(ctx context.Context, f leadFields, excludeID *uuid.UUID) (string, error) {
	required := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"phone", f.Phone},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return "", apperr.Invalid(CodeMissingField, field.name+" is required")
		}
	}

	if !validEmail(f.Email) {
		return "", apperr.Invalid(CodeInvalidEmail, "invalid email format")
	}
	if !phone.Valid(f.Phone) {
		return "", apperr.Invalid(CodeInvalidPhone, "invalid phone number format")
	}

	storagePhone := phone.NormalizeE164(f.Phone)

	result, err := s.checkDuplicate(ctx, f.Email, storagePhone, excludeID)
	if err != nil {
		return "", err
	}

	switch result {
	case EmailConflict:
		return "", apperr.Invalid(CodeDuplicateEmail, "email already exists")
	case PhoneConflict:
		return "", apperr.Invalid(CodeDuplicatePhone, "phone number already exists")
	case BothConflict:
		return "", apperr.Invalid(CodeDuplicateBoth, "email and phone number already exist")
	}

	return storagePhone, nil
}

// checkDuplicate reads the store for conflicting contact data. A failed read
// is surfaced as StoreUnavailable, never as "no conflict": the duplicate
// check is a precondition for every write.
func (s *Service) checkDuplicate(ctx context.Context, email, phoneNumber string, excludeID *uuid.UUID) (DuplicateResult, error) {
	matches, err := s.repo.FindByContact(ctx, email, phoneNumber, excludeID)
	if err != nil {
		return NoConflict, apperr.Unavailable("duplicate check failed", err).WithOp("leads.checkDuplicate")
	}

	emailTaken := false
	phoneTaken := false
	for _, match := range matches {
		if strings.EqualFold(match.Email, email) {
			emailTaken = true
		}
		if match.Phone == phoneNumber {
			phoneTaken = true
		}
	}

	switch {
	case emailTaken && phoneTaken:
		return BothConflict, nil
	case emailTaken:
		return EmailConflict, nil
	case phoneTaken:
		return PhoneConflict, nil
	default:
		return NoConflict, nil
	}
}
