package models

import (
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier is a vendor with its bank details
type Supplier struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CodigoFornecedor string             `bson:"codigo_fornecedor,omitempty" json:"codigo_fornecedor"`
	TipoFornecedor   string             `bson:"tipoFornecedor" json:"tipoFornecedor"`
	CompanyProfile   `bson:",inline"`
	Banco            string    `bson:"banco,omitempty" json:"banco"`
	Agencia          string    `bson:"agencia,omitempty" json:"agencia"`
	Conta            string    `bson:"conta,omitempty" json:"conta"`
	Pix              string    `bson:"pix,omitempty" json:"pix"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SupplierSearchFields are matched by ?filtro=
var SupplierSearchFields = []string{"codigo_fornecedor", "tipoFornecedor", "razao_social", "cnpj", "cidade"}

// Normalize applies the storage conventions
func (s *Supplier) Normalize() {
	s.CodigoFornecedor = strings.ToUpper(strings.TrimSpace(s.CodigoFornecedor))
	s.TipoFornecedor = utils.NormalizeTitle(s.TipoFornecedor)
	s.Banco = utils.NormalizeTitle(s.Banco)
	s.Agencia = strings.TrimSpace(s.Agencia)
	s.Conta = strings.TrimSpace(s.Conta)
	s.Pix = strings.TrimSpace(s.Pix)
	s.CompanyProfile.Normalize()
}

// Validate checks required fields and formats
func (s *Supplier) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if s.TipoFornecedor == "" {
		result.AddError("tipoFornecedor", "tipo de fornecedor é obrigatório")
	}
	if s.CodigoFornecedor != "" && !IsSequenceCode(SupplierCodePrefix, s.CodigoFornecedor) {
		result.AddError("codigo_fornecedor", "código deve seguir o formato FORN-0000000000")
	}
	s.CompanyProfile.Validate(result)
	return result
}

// SupplierType is an entry of the supplier category list
type SupplierType struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TipoFornecedor string             `bson:"tipoFornecedor" json:"tipoFornecedor"`
}

// Normalize title-cases the name without accents
func (t *SupplierType) Normalize() {
	t.TipoFornecedor = utils.NormalizeTitle(t.TipoFornecedor)
}

// Validate requires a name
func (t *SupplierType) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if t.TipoFornecedor == "" {
		result.AddError("tipoFornecedor", "tipo de fornecedor é obrigatório")
	}
	return result
}
