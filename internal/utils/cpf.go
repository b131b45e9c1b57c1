package utils

import (
	"strings"
)

// OnlyDigits strips every non-digit character
func OnlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF validates a CPF number, masked or not, including both check digits
func ValidateCPF(cpf string) bool {
	cpf = OnlyDigits(cpf)
	if len(cpf) != 11 || allSameDigit(cpf) {
		return false
	}

	return checkDigit(cpf[:9], descendingWeights(10)) == cpf[9] &&
		checkDigit(cpf[:10], descendingWeights(11)) == cpf[10]
}

// ValidateCNPJ validates a CNPJ number, masked or not, including both check digits
func ValidateCNPJ(cnpj string) bool {
	cnpj = OnlyDigits(cnpj)
	if len(cnpj) != 14 || allSameDigit(cnpj) {
		return false
	}

	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(cnpj[:12], first) == cnpj[12] &&
		checkDigit(cnpj[:13], second) == cnpj[13]
}

// FormatCPF renders a CPF as 000.000.000-00. Inputs without 11 digits are returned trimmed.
func FormatCPF(cpf string) string {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return strings.TrimSpace(cpf)
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

// FormatCNPJ renders a CNPJ as 00.000.000/0000-00. Inputs without 14 digits are returned trimmed.
func FormatCNPJ(cnpj string) string {
	digits := OnlyDigits(cnpj)
	if len(digits) != 14 {
		return strings.TrimSpace(cnpj)
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}

// CPFVariants returns the masked and unmasked spellings of a CPF, used to match
// records written by the intake form and by the HR screens alike
func CPFVariants(cpf string) []string {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return []string{strings.TrimSpace(cpf)}
	}
	return []string{digits, FormatCPF(digits)}
}

func checkDigit(base string, weights []int) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}

func descendingWeights(from int) []int {
	weights := make([]int, from-1)
	for i := range weights {
		weights[i] = from - i
	}
	return weights
}

func allSameDigit(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
