package models

import (
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Code prefixes handed out by the sequence counters
const (
	ClientCodePrefix   = "CLI"
	SupplierCodePrefix = "FORN"
)

// Client is a rental customer
type Client struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CodigoCliente  string             `bson:"codigo_cliente" json:"codigo_cliente"`
	Cliente        string             `bson:"cliente" json:"cliente"`
	CompanyProfile `bson:",inline"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClientSearchFields are matched by ?filtro=
var ClientSearchFields = []string{"codigo_cliente", "cliente", "razao_social", "cnpj", "cidade", "responsavel"}

// Normalize applies the storage conventions
func (c *Client) Normalize() {
	c.Cliente = utils.NormalizeTitle(c.Cliente)
	c.CompanyProfile.Normalize()
}

// Validate checks required fields and formats
func (c *Client) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if c.Cliente == "" {
		result.AddError("cliente", "cliente é obrigatório")
	}
	if c.CodigoCliente != "" && !IsSequenceCode(ClientCodePrefix, c.CodigoCliente) {
		result.AddError("codigo_cliente", "código deve seguir o formato CLI-0000000000")
	}
	c.CompanyProfile.Validate(result)
	return result
}

// FormatSequenceCode renders a counter value as PREFIX-0000000001
func FormatSequenceCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%010d", prefix, seq)
}

// IsSequenceCode reports whether code has the PREFIX-0000000000 shape
func IsSequenceCode(prefix, code string) bool {
	if len(code) != len(prefix)+11 || code[:len(prefix)+1] != prefix+"-" {
		return false
	}
	return len(utils.OnlyDigits(code[len(prefix)+1:])) == 10
}
