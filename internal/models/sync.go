package models

import "time"

// Synchronization modes
const (
	SyncModeCPF       = "cpf"
	SyncModeWatermark = "watermark"
)

// SyncStateKeyEmployees identifies the employee watermark in the sync_state collection
const SyncStateKeyEmployees = "funcionarios_form"

// SyncReport describes one synchronization run
type SyncReport struct {
	Mode                string    `json:"mode"`
	RemoteCount         int       `json:"remoteCount"`
	LocalCount          int       `json:"localCount"`
	Pending             int       `json:"pending"`
	Written             int       `json:"written"`
	Inserted            int       `json:"inserted"`
	Updated             int       `json:"updated"`
	AlreadySynchronized bool      `json:"alreadySynchronized"`
	Watermark           time.Time `json:"watermark,omitempty"`
	ExportFile          string    `json:"exportFile,omitempty"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
}

// Duration of the run, zero while it is still going
func (r *SyncReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SyncState is the persisted watermark of a synchronization stream
type SyncState struct {
	Key       string    `bson:"key" json:"key"`
	Watermark time.Time `bson:"watermark" json:"watermark"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SyncSuccessResponse is returned by POST /api/sync/sincronizar-funcionarios
type SyncSuccessResponse struct {
	Message string      `json:"message"`
	Report  *SyncReport `json:"report"`
}

// SyncErrorResponse is returned when a run fails
type SyncErrorResponse struct {
	Error   string `json:"error"`
	Detalhe string `json:"detalhe"`
}
