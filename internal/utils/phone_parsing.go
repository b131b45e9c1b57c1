package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	DDI      string `json:"ddi"`
	DDD      string `json:"ddd"`
	Valor    string `json:"valor"`
	Full     string `json:"full"`
	National string `json:"national"`
}

// ParsePhoneNumber parses a phone number, assuming Brazil when no country code is given
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	clean := strings.TrimSpace(phoneString)
	if clean == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	// 12+ digits starting with 55 already carry the country code
	if digits := OnlyDigits(clean); !strings.HasPrefix(clean, "+") && len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		clean = "+" + digits
	}

	region := "BR"
	if strings.HasPrefix(clean, "+") {
		region = ""
	}

	num, err := phonenumbers.Parse(clean, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	countryCode := num.GetCountryCode()
	national := phonenumbers.GetNationalSignificantNumber(num)

	components := &PhoneComponents{
		DDI:      fmt.Sprintf("%d", countryCode),
		Full:     phonenumbers.Format(num, phonenumbers.E164),
		National: national,
		Valor:    national,
	}

	// Brazilian numbers carry a two-digit area code
	if countryCode == 55 && len(national) > 2 {
		components.DDD = national[:2]
		components.Valor = national[2:]
	}

	return components, nil
}

// NormalizeBrazilianPhone validates a phone number and returns its national digits (DDD + number)
func NormalizeBrazilianPhone(phoneString string) (string, error) {
	components, err := ParsePhoneNumber(phoneString)
	if err != nil {
		return "", err
	}
	if components.DDI != "55" {
		return "", fmt.Errorf("phone number is not Brazilian: %s", phoneString)
	}
	return components.National, nil
}

// FormatBrazilianPhone renders national digits as (21) 99999-8888 or (21) 3333-4444
func FormatBrazilianPhone(national string) string {
	digits := OnlyDigits(national)
	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	default:
		return national
	}
}
