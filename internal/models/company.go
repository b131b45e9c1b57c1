package models

import (
	"strings"

	"github.com/grupolocar/locar-api/internal/utils"
)

// CompanyProfile holds the registration fields shared by clients, branches and suppliers
type CompanyProfile struct {
	RazaoSocial  string `bson:"razao_social" json:"razao_social"`
	CNPJ         string `bson:"cnpj" json:"cnpj"`
	InscEstadual string `bson:"insc_estadual,omitempty" json:"insc_estadual"`
	Responsavel  string `bson:"responsavel,omitempty" json:"responsavel"`
	Cargo        string `bson:"cargo,omitempty" json:"cargo"`
	Telefone     string `bson:"telefone,omitempty" json:"telefone"`
	Email        string `bson:"email,omitempty" json:"email"`
	Endereco     string `bson:"endereco,omitempty" json:"endereco"`
	Complemento  string `bson:"complemento,omitempty" json:"complemento"`
	Cidade       string `bson:"cidade,omitempty" json:"cidade"`
	Bairro       string `bson:"bairro,omitempty" json:"bairro"`
	Estado       string `bson:"estado,omitempty" json:"estado"`
	CEP          string `bson:"cep,omitempty" json:"cep"`
	Observacao   string `bson:"observacao,omitempty" json:"observacao"`
}

// Normalize applies the storage conventions: names title-cased without accents,
// documents and phones masked, e-mail lower-cased
func (p *CompanyProfile) Normalize() {
	p.RazaoSocial = utils.NormalizeTitle(p.RazaoSocial)
	p.Responsavel = utils.NormalizeTitle(p.Responsavel)
	p.Cargo = utils.NormalizeTitle(p.Cargo)
	p.Endereco = utils.NormalizeTitle(p.Endereco)
	p.Complemento = utils.NormalizeTitle(p.Complemento)
	p.Cidade = utils.NormalizeTitle(p.Cidade)
	p.Bairro = utils.NormalizeTitle(p.Bairro)
	p.Observacao = utils.NormalizeFreeText(p.Observacao)

	p.CNPJ = utils.FormatCNPJ(p.CNPJ)
	p.InscEstadual = utils.OnlyDigits(p.InscEstadual)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Estado = strings.ToUpper(strings.TrimSpace(p.Estado))
	p.CEP = utils.FormatCEP(p.CEP)

	if national, err := utils.NormalizeBrazilianPhone(p.Telefone); err == nil {
		p.Telefone = utils.FormatBrazilianPhone(national)
	} else {
		p.Telefone = strings.TrimSpace(p.Telefone)
	}
}

// Validate records problems in result. Call Normalize first.
func (p *CompanyProfile) Validate(result *utils.ValidationResult) {
	if p.RazaoSocial == "" {
		result.AddError("razao_social", "razão social é obrigatória")
	}
	if p.CNPJ == "" {
		result.AddError("cnpj", "CNPJ é obrigatório")
	} else if !utils.ValidateCNPJ(p.CNPJ) {
		result.AddError("cnpj", "CNPJ inválido")
	}
	if p.Email != "" && !utils.IsValidEmail(p.Email) {
		result.AddError("email", "e-mail inválido")
	}
	if p.Estado != "" && !utils.IsValidUF(p.Estado) {
		result.AddError("estado", "estado deve ser uma UF válida")
	}
	if p.CEP != "" && !utils.IsValidCEP(p.CEP) {
		result.AddError("cep", "CEP inválido")
	}
}
