package models

import (
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func candidate(situacao string, birthYear, licenseYear int, estadoCivil string, filhos int) *Employee {
	return &Employee{
		ID:             primitive.NewObjectID(),
		Nome:           "Candidato",
		Situacao:       situacao,
		EstadoCivil:    estadoCivil,
		Filhos:         FlexibleInt(filhos),
		Categoria:      "D",
		DataNascimento: NewFlexibleTime(time.Date(birthYear, 1, 1, 0, 0, 0, 0, utils.BrazilLocation)),
		EmissaoCNH:     NewFlexibleTime(time.Date(licenseYear, 1, 1, 0, 0, 0, 0, utils.BrazilLocation)),
	}
}

func TestIdealProfileConfig_Match(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, utils.BrazilLocation)
	cfg := IdealProfileConfig{IdadeMin: 25, IdadeMax: 45, TempoHabilitacaoMin: 5, EstadoCivil: "Casado(A)", FilhosMin: 1}

	tests := []struct {
		name     string
		employee *Employee
		want     bool
	}{
		{name: "fits every criterion", employee: candidate(SituacaoAtivo, 1990, 2010, "Casado(A)", 2), want: true},
		{name: "entrevistar is eligible", employee: candidate(SituacaoEntrevistar, 1990, 2010, "casado(a)", 1), want: true},
		{name: "inactive is excluded", employee: candidate(SituacaoInativo, 1990, 2010, "Casado(A)", 2), want: false},
		{name: "too young", employee: candidate(SituacaoAtivo, 2005, 2023, "Casado(A)", 2), want: false},
		{name: "too old", employee: candidate(SituacaoAtivo, 1970, 1990, "Casado(A)", 2), want: false},
		{name: "recent licence", employee: candidate(SituacaoAtivo, 1990, 2022, "Casado(A)", 2), want: false},
		{name: "other marital status", employee: candidate(SituacaoAtivo, 1990, 2010, "Solteiro(A)", 2), want: false},
		{name: "no children", employee: candidate(SituacaoAtivo, 1990, 2010, "Casado(A)", 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := cfg.Match(tt.employee, now)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIdealProfileConfig_MatchFillsComputedFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, utils.BrazilLocation)
	e := candidate(SituacaoAprovar, 1990, 2010, "Solteiro(A)", 0)

	match, ok := (&IdealProfileConfig{}).Match(e, now)
	require.True(t, ok, "an empty profile accepts every eligible situation")
	assert.Equal(t, 35, match.Idade)
	assert.Equal(t, 15, match.TempoHabilitacao)
	assert.Equal(t, "D", match.Categoria)
	assert.Equal(t, e.ID.Hex(), match.ID)

	noDates := &Employee{Situacao: SituacaoAtivo}
	_, ok = (&IdealProfileConfig{IdadeMin: 18}).Match(noDates, now)
	assert.False(t, ok, "age criteria need a birth date")
}

func TestIdealProfileConfig_Validate(t *testing.T) {
	assert.True(t, (&IdealProfileConfig{IdadeMin: 20, IdadeMax: 40}).Validate().IsValid)
	assert.True(t, (&IdealProfileConfig{IdadeMin: 20}).Validate().IsValid)
	assert.False(t, (&IdealProfileConfig{IdadeMin: 50, IdadeMax: 40}).Validate().IsValid)
	assert.False(t, (&IdealProfileConfig{FilhosMin: -1}).Validate().IsValid)
}
