package models

import (
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
)

// IdealProfileSettingsKey identifies the ideal profile in the settings collection
const IdealProfileSettingsKey = "perfil_ideal"

// IdealProfileConfig holds the hiring criteria. Zero values disable a criterion.
type IdealProfileConfig struct {
	IdadeMin            int    `bson:"idade_min" json:"idade_min"`
	IdadeMax            int    `bson:"idade_max" json:"idade_max"`
	TempoHabilitacaoMin int    `bson:"tempo_habilitacao_min" json:"tempo_habilitacao_min"`
	EstadoCivil         string `bson:"estado_civil" json:"estado_civil"`
	FilhosMin           int    `bson:"filhos_min" json:"filhos_min"`
}

// Validate rejects negative and inverted bounds
func (c *IdealProfileConfig) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if c.IdadeMin < 0 || c.IdadeMax < 0 || c.TempoHabilitacaoMin < 0 || c.FilhosMin < 0 {
		result.AddError("perfil", "valores não podem ser negativos")
	}
	if c.IdadeMax > 0 && c.IdadeMin > c.IdadeMax {
		result.AddError("idade_max", "idade máxima deve ser maior ou igual à mínima")
	}
	return result
}

// IdealProfileMatch is one employee fitting the profile
type IdealProfileMatch struct {
	ID               string       `json:"_id"`
	Nome             string       `json:"nome"`
	Idade            int          `json:"idade"`
	EstadoCivil      string       `json:"estado_civil"`
	Filhos           int          `json:"filhos"`
	TempoHabilitacao int          `json:"tempoHabilitacao"`
	Categoria        string       `json:"categoria"`
	Situacao         string       `json:"situacao"`
	EmissaoCNH       FlexibleTime `json:"emissao_cnh"`
}

// Match reports whether the employee meets every enabled criterion at now
func (c *IdealProfileConfig) Match(e *Employee, now time.Time) (IdealProfileMatch, bool) {
	if !containsString(IdealProfileSituacoes, strings.TrimSpace(e.Situacao)) {
		return IdealProfileMatch{}, false
	}

	age := e.AgeAt(now)
	if (c.IdadeMin > 0 || c.IdadeMax > 0) && age < 0 {
		return IdealProfileMatch{}, false
	}
	if c.IdadeMin > 0 && age < c.IdadeMin {
		return IdealProfileMatch{}, false
	}
	if c.IdadeMax > 0 && age > c.IdadeMax {
		return IdealProfileMatch{}, false
	}

	licenseYears := e.LicenseYearsAt(now)
	if c.TempoHabilitacaoMin > 0 && licenseYears < c.TempoHabilitacaoMin {
		return IdealProfileMatch{}, false
	}

	if c.EstadoCivil != "" && !strings.EqualFold(utils.FoldForSearch(c.EstadoCivil), utils.FoldForSearch(e.EstadoCivil)) {
		return IdealProfileMatch{}, false
	}

	if c.FilhosMin > 0 && int(e.Filhos) < c.FilhosMin {
		return IdealProfileMatch{}, false
	}

	if licenseYears < 0 {
		licenseYears = 0
	}
	return IdealProfileMatch{
		ID:               e.ID.Hex(),
		Nome:             e.Nome,
		Idade:            age,
		EstadoCivil:      e.EstadoCivil,
		Filhos:           int(e.Filhos),
		TempoHabilitacao: licenseYears,
		Categoria:        e.Categoria,
		Situacao:         e.Situacao,
		EmissaoCNH:       e.EmissaoCNH,
	}, true
}
