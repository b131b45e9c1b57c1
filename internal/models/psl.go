package models

import (
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PSLOccurrences are the occurrence kinds offered by the PSL form
var PSLOccurrences = []string{
	"Apos 19h",
	"Sem Loc",
	"Loc Dia Atendimento",
	"400 km",
	"Emergencia",
	"Pedido Domingo",
}

// PSL is one service request occurrence logged against a branch
type PSL struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Data          FlexibleTime       `bson:"data" json:"data"`
	Filial        string             `bson:"filial" json:"filial"`
	Distrital     string             `bson:"distrital" json:"distrital"`
	OcorrenciaPSL string             `bson:"ocorrencia_psl" json:"ocorrencia_psl"`
	Observacao    string             `bson:"observacao,omitempty" json:"observacao"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PSLFilter narrows GET /api/psl
type PSLFilter struct {
	Filial     string
	Ocorrencia string
	Inicio     time.Time
	Fim        time.Time
}

// Normalize removes accents and upper-cases only the first letter of the free text fields
func (p *PSL) Normalize() {
	p.Filial = utils.UpperLettersOnly(p.Filial)
	p.Distrital = utils.NormalizeTitle(p.Distrital)
	p.OcorrenciaPSL = utils.NormalizeFreeText(p.OcorrenciaPSL)
	p.Observacao = utils.NormalizeFreeText(p.Observacao)
}

// Validate checks required fields and the occurrence kind
func (p *PSL) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if !p.Data.Valid() {
		result.AddError("data", "data é obrigatória")
	}
	if p.Filial == "" {
		result.AddError("filial", "filial é obrigatória")
	}
	if p.Distrital == "" {
		result.AddError("distrital", "distrital é obrigatório")
	}
	if p.OcorrenciaPSL == "" {
		result.AddError("ocorrencia_psl", "ocorrência é obrigatória")
	} else if !IsPSLOccurrence(p.OcorrenciaPSL) {
		result.AddError("ocorrencia_psl", "ocorrência desconhecida")
	}
	return result
}

// IsPSLOccurrence matches the occurrence list ignoring case and accents
func IsPSLOccurrence(value string) bool {
	folded := utils.FoldForSearch(value)
	for _, occurrence := range PSLOccurrences {
		if utils.FoldForSearch(occurrence) == folded {
			return true
		}
	}
	return false
}
