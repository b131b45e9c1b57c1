package services

import (
	"context"
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestWatermarkSync(remoteDocs []bson.M, local *fakeLocalStore, batchSize int) (*WatermarkSyncService, *fakeConnector) {
	connector := &fakeConnector{remote: &fakeRemoteStore{docs: remoteDocs}, local: local}
	settings := testSyncSettings()
	settings.Mode = models.SyncModeWatermark
	settings.BatchSize = batchSize
	service := NewWatermarkSyncService(settings, connector, logging.NewSafeLogger(zap.NewNop()))
	return service, connector
}

func TestTransformIntakeEmployee(t *testing.T) {
	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":             id,
		"nome":            "Carla",
		"data_admissao":   "2024-01-05",
		"validade_cnh":    "01/02/2027",
		"estado_civil":    "casado(a)",
		"situacao":        "ATIVO",
		"contrato":        "mei",
		"banco":           "itau",
		"categoria":       "b",
		"dados_bancarios": bson.M{"tipo_conta": "corrente"},
		"updatedAt":       t1,
	}

	out := TransformIntakeEmployee(doc)

	assert.Equal(t, id, out["_id"])
	assert.Equal(t, "Carla", out["nome"])
	assert.NotContains(t, out, "data_admissao")
	assert.NotContains(t, out, "validadeCnh")
	assert.NotContains(t, out, "estado_civil")

	admissao, ok := out["dataAdmissao"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, admissao.Year())

	validade, ok := out["dataValidadeCNH"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.February, validade.Month())

	assert.Nil(t, out["dataNascimento"], "absent dates become null")
	assert.Nil(t, out["createdAt"])
	assert.Equal(t, t1, out["updatedAt"])

	assert.Equal(t, "Casado(a)", out["estadoCivil"])
	assert.Equal(t, "Ativo", out["situacao"])
	assert.Equal(t, "Mei", out["contrato"])
	assert.Equal(t, "Itau", out["banco"])
	assert.Equal(t, "B", out["categoria"])
	assert.Equal(t, bson.M{"tipoConta": "corrente"}, out["dadosBancarios"])
}

func TestWatermarkSync_StreamsOnlyNewerDocumentsInBatches(t *testing.T) {
	remote := []bson.M{
		{"_id": primitive.NewObjectID(), "nome": "Antigo", "updatedAt": t0},
		{"_id": primitive.NewObjectID(), "nome": "Novo 1", "updatedAt": t1},
		{"_id": primitive.NewObjectID(), "nome": "Novo 2", "updatedAt": t2},
		{"_id": primitive.NewObjectID(), "nome": "Novo 3", "updatedAt": t2.Add(time.Minute)},
	}
	local := &fakeLocalStore{watermark: t0}
	service, _ := newTestWatermarkSync(remote, local, 2)
	runAt := t2.Add(time.Hour)
	service.now = func() time.Time { return runAt }

	report, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.RemoteCount)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 3, report.Written)
	assert.Equal(t, []int{2, 1}, local.batchSizes)
	assert.Equal(t, runAt, local.watermark)
	assert.Equal(t, runAt, report.Watermark)
	assert.Len(t, local.docs, 3)
}

func TestWatermarkSync_UpdatesExistingByID(t *testing.T) {
	id := primitive.NewObjectID()
	remote := []bson.M{{"_id": id, "nome": "Atualizado", "updatedAt": t2}}
	local := &fakeLocalStore{watermark: t1, docs: []bson.M{{"_id": id, "nome": "Original", "extra": true}}}
	service, _ := newTestWatermarkSync(remote, local, 10)

	report, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, "Atualizado", local.docs[0]["nome"])
	assert.Equal(t, true, local.docs[0]["extra"])
}

func TestWatermarkSync_FailedBatchKeepsWatermark(t *testing.T) {
	remote := []bson.M{{"_id": primitive.NewObjectID(), "nome": "Falha", "updatedAt": t2}}
	local := &fakeLocalStore{watermark: t1, failBulk: true}
	service, _ := newTestWatermarkSync(remote, local, 10)

	report, err := service.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errFakeWrite)
	assert.Equal(t, 0, local.watermarkSets)
	assert.Equal(t, t1, local.watermark)
	assert.Equal(t, t1, report.Watermark)
}

func TestWatermarkSync_NothingNewStillAdvancesWatermark(t *testing.T) {
	remote := []bson.M{{"_id": primitive.NewObjectID(), "updatedAt": t0}}
	local := &fakeLocalStore{watermark: t1}
	service, _ := newTestWatermarkSync(remote, local, 10)

	report, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.AlreadySynchronized)
	assert.Empty(t, local.batchSizes)
	assert.Equal(t, 1, local.watermarkSets)
}

func TestWatermarkSync_MissingConfiguration(t *testing.T) {
	connector := &fakeConnector{}
	service := NewWatermarkSyncService(SyncSettings{RemoteURI: "mongodb://atlas"}, connector, logging.NewSafeLogger(zap.NewNop()))

	_, err := service.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrMissingLocalURI)
	assert.Empty(t, connector.opened)
	assert.Equal(t, DefaultSyncBatchSize, service.settings.BatchSize)
}
