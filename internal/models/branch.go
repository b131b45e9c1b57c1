package models

import (
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Branch is a client's operating unit ("filial")
type Branch struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Cliente        string             `bson:"cliente" json:"cliente"`
	Filial         string             `bson:"filial" json:"filial"`
	Distrital      string             `bson:"distrital" json:"distrital"`
	CompanyProfile `bson:",inline"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BranchSearchFields are matched by ?filtro=
var BranchSearchFields = []string{"cliente", "filial", "distrital", "razao_social", "cnpj", "cidade"}

// Normalize applies the storage conventions; the branch code keeps letters only
func (b *Branch) Normalize() {
	b.Cliente = utils.NormalizeTitle(b.Cliente)
	b.Filial = utils.UpperLettersOnly(b.Filial)
	b.Distrital = utils.NormalizeTitle(b.Distrital)
	b.CompanyProfile.Normalize()
}

// Validate checks required fields and formats
func (b *Branch) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if b.Cliente == "" {
		result.AddError("cliente", "cliente é obrigatório")
	}
	if b.Filial == "" {
		result.AddError("filial", "filial é obrigatória")
	} else if len(b.Filial) > 10 {
		result.AddError("filial", "filial deve ter no máximo 10 letras")
	}
	if b.Distrital == "" {
		result.AddError("distrital", "distrital é obrigatório")
	}
	b.CompanyProfile.Validate(result)
	return result
}
