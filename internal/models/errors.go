package models

import (
	"errors"

	"github.com/grupolocar/locar-api/internal/utils"
)

// Lookup and identity errors
var (
	ErrInvalidID            = errors.New("ID inválido")
	ErrEmployeeNotFound     = errors.New("funcionário não encontrado")
	ErrClientNotFound       = errors.New("cliente não encontrado")
	ErrSupplierNotFound     = errors.New("fornecedor não encontrado")
	ErrSupplierTypeNotFound = errors.New("tipo de fornecedor não encontrado")
	ErrBranchNotFound       = errors.New("filial não encontrada")
	ErrPSLNotFound          = errors.New("ocorrência PSL não encontrada")
	ErrUserNotFound         = errors.New("usuário não encontrado")
)

// Uniqueness errors
var (
	ErrDuplicateCPF          = errors.New("CPF já cadastrado")
	ErrDuplicateCNPJ         = errors.New("CNPJ já cadastrado")
	ErrDuplicateUsername     = errors.New("nome de usuário já existe")
	ErrDuplicateBranch       = errors.New("filial já cadastrada")
	ErrDuplicateSupplierType = errors.New("tipo de fornecedor já cadastrado")
	ErrDuplicateSupplierCode = errors.New("código de fornecedor já cadastrado")
)

// Authentication errors
var (
	ErrMissingCredentials   = errors.New("Username e senha são obrigatórios")
	ErrInvalidCredentials   = errors.New("Usuário ou senha inválidos")
	ErrTooManyLoginAttempts = errors.New("muitas tentativas de login, tente novamente mais tarde")
	ErrInvalidToken         = errors.New("token inválido ou expirado")
	ErrWeakPassword         = errors.New("a senha deve ter pelo menos 2 caracteres")
)

// Synchronizer configuration errors, raised before any network call
var (
	ErrMissingRemoteURI = errors.New("remote connection string (ATLAS_URI) is not configured")
	ErrMissingLocalURI  = errors.New("local connection string (LOCAL_URI) is not configured")
)

// Other errors
var (
	ErrValidation          = errors.New("dados inválidos")
	ErrUnknownAttachment   = errors.New("campo de anexo desconhecido")
	ErrSMTPNotConfigured   = errors.New("SMTP is not configured")
)

// ValidationFailure carries field-level messages and matches ErrValidation with errors.Is
type ValidationFailure struct {
	Fields []utils.ValidationError
}

func (v *ValidationFailure) Error() string {
	result := utils.ValidationResult{Errors: v.Fields}
	return ErrValidation.Error() + ": " + result.Summary()
}

func (v *ValidationFailure) Unwrap() error {
	return ErrValidation
}

// ValidationErr converts a failed validation result into an error, or nil when it passed
func ValidationErr(result *utils.ValidationResult) error {
	if result == nil || result.IsValid {
		return nil
	}
	return &ValidationFailure{Fields: result.Errors}
}
