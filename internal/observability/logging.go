package observability

import (
	"github.com/grupolocar/locar-api/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF for logging. Masked and unmasked inputs produce the same output.
func MaskCPF(cpf string) string {
	digits := make([]byte, 0, 11)
	for i := 0; i < len(cpf); i++ {
		if cpf[i] >= '0' && cpf[i] <= '9' {
			digits = append(digits, cpf[i])
		}
	}
	if len(digits) != 11 {
		return "***.***.***-**"
	}
	return string(digits[:3]) + ".***." + string(digits[6:9]) + "-**"
}

// MaskSensitiveData masks sensitive fields of an employee document before it is logged
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for k, v := range data {
		if _, sensitive := sensitiveFields[k]; sensitive {
			masked[k] = "********"
			continue
		}
		masked[k] = v
	}
	return masked
}

var sensitiveFields = map[string]struct{}{
	"cpf":      {},
	"rg":       {},
	"telefone": {},
	"conta":    {},
	"agencia":  {},
	"pix":      {},
	"cnh":      {},
	"password": {},
}
