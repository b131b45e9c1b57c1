package utils

import (
	"regexp"
	"strings"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Summary joins every message into one line
func (vr *ValidationResult) Summary() string {
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	cepRegex   = regexp.MustCompile(`^\d{5}-?\d{3}$`)
)

var brazilianStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsValidEmail checks the e-mail format
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidCEP checks a Brazilian postal code (00000-000 or 00000000)
func IsValidCEP(cep string) bool {
	return cepRegex.MatchString(strings.TrimSpace(cep))
}

// IsValidUF checks a two-letter Brazilian state code
func IsValidUF(uf string) bool {
	_, ok := brazilianStates[strings.ToUpper(strings.TrimSpace(uf))]
	return ok
}

// FormatCEP renders a CEP as 00000-000
func FormatCEP(cep string) string {
	digits := OnlyDigits(cep)
	if len(digits) != 8 {
		return strings.TrimSpace(cep)
	}
	return digits[:5] + "-" + digits[5:]
}
