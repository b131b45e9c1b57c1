package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee situations accepted by the HR screens
const (
	SituacaoAtivo       = "Ativo"
	SituacaoInativo     = "Inativo"
	SituacaoBloqueado   = "Bloqueado"
	SituacaoAprovar     = "Aprovar"
	SituacaoEntrevistar = "Entrevistar"
)

// Employee contract kinds
const (
	ContratoComum = "Comum"
	ContratoMei   = "Mei"
)

var (
	EmployeeSituacoes = []string{SituacaoAtivo, SituacaoInativo, SituacaoBloqueado, SituacaoAprovar, SituacaoEntrevistar}
	EmployeeContratos = []string{ContratoComum, ContratoMei}

	// EmployeeDateFields are parsed into dates when written through the API
	EmployeeDateFields = []string{"data_nascimento", "data_admissao", "emissao_cnh", "validade_cnh"}

	// AttachmentFields are the multipart fields accepted by the com-anexos routes
	AttachmentFields = []string{"cnh_arquivo", "comprovante_residencia", "nada_consta", "comprovante_mei", "curriculo"}

	// IdealProfileSituacoes limits the ideal profile to people still in the hiring pipeline or active
	IdealProfileSituacoes = []string{SituacaoAtivo, SituacaoAprovar, SituacaoEntrevistar}
)

// EmployeeSearchFields are matched by GET /api/funcionarios/filtro
var EmployeeSearchFields = []string{"nome", "cpf", "telefone", "email", "municipio", "situacao"}

// Employee is the typed view of an employee document used by reports.
// Writes go through PrepareEmployeeDocument so unknown fields survive.
type Employee struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Nome           string             `bson:"nome" json:"nome"`
	CPF            string             `bson:"cpf" json:"cpf"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Telefone       string             `bson:"telefone,omitempty" json:"telefone,omitempty"`
	Situacao       string             `bson:"situacao,omitempty" json:"situacao,omitempty"`
	Contrato       string             `bson:"contrato,omitempty" json:"contrato,omitempty"`
	EstadoCivil    string             `bson:"estado_civil,omitempty" json:"estado_civil,omitempty"`
	Sexo           string             `bson:"sexo,omitempty" json:"sexo,omitempty"`
	Filhos         FlexibleInt        `bson:"filhos,omitempty" json:"filhos"`
	Categoria      string             `bson:"categoria,omitempty" json:"categoria,omitempty"`
	DataNascimento FlexibleTime       `bson:"data_nascimento,omitempty" json:"data_nascimento"`
	EmissaoCNH     FlexibleTime       `bson:"emissao_cnh,omitempty" json:"emissao_cnh"`
	ValidadeCNH    FlexibleTime       `bson:"validade_cnh,omitempty" json:"validade_cnh"`
}

// AgeAt returns full years lived at the given instant, or -1 without a birth date
func (e *Employee) AgeAt(now time.Time) int {
	if !e.DataNascimento.Valid() {
		return -1
	}
	return FullYearsBetween(e.DataNascimento.Time, now)
}

// LicenseYearsAt returns full years since the driving licence was issued, or -1 without an issue date
func (e *Employee) LicenseYearsAt(now time.Time) int {
	if !e.EmissaoCNH.Valid() {
		return -1
	}
	years := FullYearsBetween(e.EmissaoCNH.Time, now)
	if years < 0 {
		return 0
	}
	return years
}

// FullYearsBetween counts anniversaries of from reached by to, compared in Brazil time
func FullYearsBetween(from, to time.Time) int {
	from = from.In(utils.BrazilLocation)
	to = to.In(utils.BrazilLocation)
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// SituacaoCount is one bucket of the situation statistics
type SituacaoCount struct {
	Situacao string `bson:"_id" json:"situacao"`
	Count    int64  `bson:"count" json:"count"`
}

// IsAttachmentField reports whether name is one of the upload fields
func IsAttachmentField(name string) bool {
	for _, field := range AttachmentFields {
		if field == name {
			return true
		}
	}
	return false
}

// PrepareEmployeeDocument validates and normalizes an employee payload.
// Fields the API does not know about are kept untouched. With partial set,
// only the fields present are validated (updates).
func PrepareEmployeeDocument(input map[string]interface{}, partial bool) (bson.M, *utils.ValidationResult) {
	result := utils.NewValidationResult()
	doc := bson.M{}
	for key, value := range input {
		switch key {
		case "_id", "createdAt", "updatedAt":
			continue
		}
		doc[key] = value
	}

	nome, hasNome := stringField(doc, "nome")
	if hasNome || !partial {
		nome = strings.Join(strings.Fields(nome), " ")
		if nome == "" {
			result.AddError("nome", "nome é obrigatório")
		} else {
			doc["nome"] = nome
		}
	}

	if cpf, ok := stringField(doc, "cpf"); ok && strings.TrimSpace(cpf) != "" {
		if !utils.ValidateCPF(cpf) {
			result.AddError("cpf", "CPF inválido")
		} else {
			doc["cpf"] = utils.FormatCPF(cpf)
		}
	}

	if email, ok := stringField(doc, "email"); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" && !utils.IsValidEmail(email) {
			result.AddError("email", "e-mail inválido")
		}
		doc["email"] = email
	}

	for _, field := range []string{"telefone", "contato_familiar"} {
		phone, ok := stringField(doc, field)
		if !ok || strings.TrimSpace(phone) == "" {
			continue
		}
		national, err := utils.NormalizeBrazilianPhone(phone)
		if err != nil {
			result.AddError(field, "telefone inválido")
			continue
		}
		doc[field] = utils.FormatBrazilianPhone(national)
	}

	if situacao, ok := stringField(doc, "situacao"); ok && strings.TrimSpace(situacao) != "" {
		situacao = utils.CapitalizeFirst(situacao)
		if !containsString(EmployeeSituacoes, situacao) {
			result.AddError("situacao", fmt.Sprintf("situação deve ser uma de: %s", strings.Join(EmployeeSituacoes, ", ")))
		}
		doc["situacao"] = situacao
	}

	if contrato, ok := stringField(doc, "contrato"); ok && strings.TrimSpace(contrato) != "" {
		contrato = utils.CapitalizeFirst(contrato)
		if !containsString(EmployeeContratos, contrato) {
			result.AddError("contrato", fmt.Sprintf("contrato deve ser um de: %s", strings.Join(EmployeeContratos, ", ")))
		}
		doc["contrato"] = contrato
	}

	if categoria, ok := stringField(doc, "categoria"); ok {
		doc["categoria"] = strings.ToUpper(strings.TrimSpace(categoria))
	}

	if cep, ok := stringField(doc, "cep"); ok && strings.TrimSpace(cep) != "" {
		cep = utils.FormatCEP(cep)
		if !utils.IsValidCEP(cep) {
			result.AddError("cep", "CEP inválido")
		}
		doc["cep"] = cep
	}

	for _, field := range EmployeeDateFields {
		value, present := doc[field]
		if !present {
			continue
		}
		if s, isString := value.(string); value == nil || (isString && strings.TrimSpace(s) == "") {
			doc[field] = nil
			continue
		}
		parsed, ok := utils.ParseFlexibleTime(value)
		if !ok {
			result.AddError(field, "data inválida")
			continue
		}
		doc[field] = parsed
	}

	return doc, result
}

func stringField(doc bson.M, key string) (string, bool) {
	value, ok := doc[key]
	if !ok || value == nil {
		return "", ok
	}
	switch v := value.(type) {
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
