package models

import (
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLogLimit is the number of entries returned by GET /api/logs
const ActivityLogLimit = 200

// ActivityLog records who did what. Older web clients send usuario and dataHora,
// newer ones send userId and username; both shapes are accepted.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Username  string             `bson:"username,omitempty" json:"username,omitempty"`
	Usuario   string             `bson:"usuario,omitempty" json:"usuario,omitempty"`
	Acao      string             `bson:"acao" json:"acao"`
	Recurso   string             `bson:"recurso,omitempty" json:"recurso,omitempty"`
	RecursoID string             `bson:"recursoId,omitempty" json:"recursoId,omitempty"`
	Metodo    string             `bson:"metodo,omitempty" json:"metodo,omitempty"`
	Rota      string             `bson:"rota,omitempty" json:"rota,omitempty"`
	Status    int                `bson:"status,omitempty" json:"status,omitempty"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	DataHora  FlexibleTime       `bson:"dataHora" json:"dataHora"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Normalize fills the display name from whichever field the client sent
func (l *ActivityLog) Normalize(now time.Time) {
	l.Acao = strings.TrimSpace(l.Acao)
	l.Username = strings.TrimSpace(l.Username)
	l.Usuario = strings.TrimSpace(l.Usuario)
	if l.Usuario == "" {
		l.Usuario = l.Username
	}
	if l.Username == "" {
		l.Username = l.Usuario
	}
	if !l.DataHora.Valid() {
		l.DataHora = NewFlexibleTime(now)
	}
	l.CreatedAt = now
}

// Validate requires an action
func (l *ActivityLog) Validate() *utils.ValidationResult {
	result := utils.NewValidationResult()
	if l.Acao == "" {
		result.AddError("acao", "ação é obrigatória")
	}
	return result
}
