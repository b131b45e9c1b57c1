package utils

import "strings"

// MaskName keeps the first name and the initials of the other names for logs,
// e.g. "Maria Aparecida Souza" becomes "Maria A******** S****"
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return maskWord(parts[0])
	}

	masked := make([]string, len(parts))
	masked[0] = parts[0]
	for i := 1; i < len(parts); i++ {
		masked[i] = maskWord(parts[i])
	}
	return strings.Join(masked, " ")
}

func maskWord(word string) string {
	runes := []rune(word)
	if len(runes) <= 1 {
		return word
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
