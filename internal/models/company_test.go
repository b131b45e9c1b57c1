package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() CompanyProfile {
	return CompanyProfile{
		RazaoSocial: "locadora exemplo ltda",
		CNPJ:        "11222333000181",
		Responsavel: "JOÃO   pereira",
		Telefone:    "2133334444",
		Email:       " Contato@Exemplo.com.br",
		Endereco:    "rua são josé, 10",
		Cidade:      "niterói",
		Estado:      "rj",
		CEP:         "24.020-000",
	}
}

func TestCompanyProfile_Normalize(t *testing.T) {
	p := validProfile()
	p.Normalize()

	assert.Equal(t, "Locadora Exemplo Ltda", p.RazaoSocial)
	assert.Equal(t, "11.222.333/0001-81", p.CNPJ)
	assert.Equal(t, "Joao Pereira", p.Responsavel)
	assert.Equal(t, "(21) 3333-4444", p.Telefone)
	assert.Equal(t, "contato@exemplo.com.br", p.Email)
	assert.Equal(t, "Niteroi", p.Cidade)
	assert.Equal(t, "RJ", p.Estado)
	assert.Equal(t, "24020-000", p.CEP)
}

func TestClient_Validate(t *testing.T) {
	c := Client{Cliente: "grupo exemplo", CodigoCliente: "CLI-0000000007", CompanyProfile: validProfile()}
	c.Normalize()
	result := c.Validate()
	require.True(t, result.IsValid, result.Summary())
	assert.Equal(t, "Grupo Exemplo", c.Cliente)

	bad := Client{CodigoCliente: "C-1", CompanyProfile: CompanyProfile{CNPJ: "11.222.333/0001-82", Estado: "XX", Email: "x"}}
	bad.Normalize()
	result = bad.Validate()
	require.False(t, result.IsValid)

	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, field := range []string{"cliente", "codigo_cliente", "razao_social", "cnpj", "estado", "email"} {
		assert.True(t, fields[field], "expected an error for %s", field)
	}
}

func TestSequenceCodes(t *testing.T) {
	assert.Equal(t, "FORN-0000000001", FormatSequenceCode(SupplierCodePrefix, 1))
	assert.Equal(t, "CLI-0000000123", FormatSequenceCode(ClientCodePrefix, 123))

	assert.True(t, IsSequenceCode(SupplierCodePrefix, "FORN-0000000042"))
	assert.False(t, IsSequenceCode(SupplierCodePrefix, "FORN-42"))
	assert.False(t, IsSequenceCode(SupplierCodePrefix, "CLI-0000000042"))
	assert.False(t, IsSequenceCode(ClientCodePrefix, "CLI-00000000AB"))
}

func TestSupplier_NormalizeAndValidate(t *testing.T) {
	s := Supplier{TipoFornecedor: "manutenção", CodigoFornecedor: "forn-0000000002", CompanyProfile: validProfile(), Banco: "itaú"}
	s.Normalize()
	result := s.Validate()
	require.True(t, result.IsValid, result.Summary())
	assert.Equal(t, "Manutencao", s.TipoFornecedor)
	assert.Equal(t, "FORN-0000000002", s.CodigoFornecedor)
	assert.Equal(t, "Itau", s.Banco)

	missingType := Supplier{CompanyProfile: validProfile()}
	missingType.Normalize()
	assert.False(t, missingType.Validate().IsValid)
}

func TestSupplierType_Validate(t *testing.T) {
	st := SupplierType{TipoFornecedor: "  peças  "}
	st.Normalize()
	assert.Equal(t, "Pecas", st.TipoFornecedor)
	assert.True(t, st.Validate().IsValid)

	empty := SupplierType{}
	assert.False(t, empty.Validate().IsValid)
}

func TestBranch_NormalizeAndValidate(t *testing.T) {
	b := Branch{Cliente: "grupo exemplo", Filial: "rio-sul 2", Distrital: "zona oeste", CompanyProfile: validProfile()}
	b.Normalize()
	result := b.Validate()
	require.True(t, result.IsValid, result.Summary())
	assert.Equal(t, "RIOSUL", b.Filial)
	assert.Equal(t, "Zona Oeste", b.Distrital)

	long := Branch{Cliente: "x", Filial: "abcdefghijk", Distrital: "y", CompanyProfile: validProfile()}
	long.Normalize()
	assert.False(t, long.Validate().IsValid)
}
