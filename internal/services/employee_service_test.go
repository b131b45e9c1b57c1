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
)

func setupEmployeeServiceTest(t *testing.T) (*EmployeeService, func()) {
	database, cleanup := requireMongo(t)
	service := NewEmployeeService(database, NewCacheService(nil, logging.Logger), newTestAttachmentStore(t), logging.Logger)
	service.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return service, cleanup
}

func TestEmployeeService_CreateNormalizesAndRejectsDuplicateCPF(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	created, err := service.Create(ctx, map[string]interface{}{
		"nome":            "  Maria   da Silva ",
		"cpf":             "52998224725",
		"situacao":        "ativo",
		"contrato":        "MEI",
		"data_nascimento": "1990-04-10",
		"campo_livre":     "preservado",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Maria da Silva", created["nome"])
	assert.Equal(t, "529.982.247-25", created["cpf"])
	assert.Equal(t, "Ativo", created["situacao"])
	assert.Equal(t, "Mei", created["contrato"])
	assert.IsType(t, primitive.ObjectID{}, created["_id"])

	stored, err := service.Get(ctx, created["_id"].(primitive.ObjectID).Hex())
	require.NoError(t, err)
	assert.Equal(t, "preservado", stored["campo_livre"])

	_, err = service.Create(ctx, map[string]interface{}{"nome": "Outra", "cpf": "529.982.247-25"}, nil)
	assert.ErrorIs(t, err, models.ErrDuplicateCPF)
}

func TestEmployeeService_CreateValidation(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()

	_, err := service.Create(context.Background(), map[string]interface{}{"cpf": "123"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)

	var failure *models.ValidationFailure
	require.ErrorAs(t, err, &failure)
	assert.Len(t, failure.Fields, 2)
}

func TestEmployeeService_UpdateKeepsUnknownFieldsAndOwnCPF(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	res, err := service.collection().InsertOne(ctx, bson.M{
		"nome": "João Souza", "cpf": "111.444.777-35", "origem": "formulario", "situacao": "Entrevistar",
	})
	require.NoError(t, err)
	id := res.InsertedID.(primitive.ObjectID).Hex()

	updated, err := service.Update(ctx, id, map[string]interface{}{"cpf": "11144477735", "situacao": "aprovar"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Aprovar", updated["situacao"])
	assert.Equal(t, "formulario", updated["origem"])
	assert.Equal(t, "João Souza", updated["nome"])

	_, err = service.Update(ctx, primitive.NewObjectID().Hex(), map[string]interface{}{"nome": "X"}, nil)
	assert.ErrorIs(t, err, models.ErrEmployeeNotFound)

	_, err = service.Update(ctx, "invalido", map[string]interface{}{"nome": "X"}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidID)
}

func TestEmployeeService_UpdateWithAttachmentsReplacesFile(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	created, err := service.Create(ctx, map[string]interface{}{"nome": "Ana"}, &AttachmentUpload{
		Files: formFiles(t, map[string][2]string{"curriculo": {"cv.pdf", "v1"}}),
	})
	require.NoError(t, err)
	first := created["arquivos"].(map[string][]string)["curriculo"]
	require.Len(t, first, 1)

	updated, err := service.Update(ctx, created["_id"].(primitive.ObjectID).Hex(), map[string]interface{}{}, &AttachmentUpload{
		Kept:  map[string][]string{"curriculo": first},
		Files: formFiles(t, map[string][2]string{"curriculo": {"cv2.pdf", "v2"}}),
	})
	require.NoError(t, err)

	arquivos := attachmentsOf(updated)
	require.Len(t, arquivos["curriculo"], 1)
	assert.NotEqual(t, first[0], arquivos["curriculo"][0])
}

func TestEmployeeService_SearchAndStats(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.collection().InsertMany(ctx, []interface{}{
		bson.M{"nome": "Bruno Lima", "cpf": "529.982.247-25", "situacao": "Ativo", "municipio": "Niterói"},
		bson.M{"nome": "Alice Costa", "cpf": "111.444.777-35", "situacao": "Ativo"},
		bson.M{"nome": "Carla Dias", "situacao": "Inativo"},
	})
	require.NoError(t, err)

	all, err := service.Search(ctx, "  ")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alice Costa", all[0]["nome"])

	byCity, err := service.Search(ctx, "niter")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Bruno Lima", byCity[0]["nome"])

	byDigits, err := service.Search(ctx, "11144477735")
	require.NoError(t, err)
	require.Len(t, byDigits, 1)
	assert.Equal(t, "Alice Costa", byDigits[0]["nome"])

	stats, err := service.SituacaoStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.SituacaoCount{{Situacao: "Ativo", Count: 2}, {Situacao: "Inativo", Count: 1}}, stats)
}

func TestEmployeeService_IdealProfile(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	cfg, err := service.GetIdealProfileConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.IdealProfileConfig{}, *cfg)

	_, err = service.collection().InsertMany(ctx, []interface{}{
		bson.M{"nome": "Dentro", "situacao": "Ativo", "data_nascimento": "1990-01-01", "emissao_cnh": "2010-01-01", "estado_civil": "Casado", "filhos": "2"},
		bson.M{"nome": "Jovem", "situacao": "Ativo", "data_nascimento": "2005-01-01", "emissao_cnh": "2023-01-01"},
		bson.M{"nome": "Inativo", "situacao": "Inativo", "data_nascimento": "1990-01-01", "emissao_cnh": "2010-01-01"},
	})
	require.NoError(t, err)

	require.NoError(t, service.SaveIdealProfileConfig(ctx, &models.IdealProfileConfig{IdadeMin: 25, IdadeMax: 50, TempoHabilitacaoMin: 5}))
	assert.ErrorIs(t, service.SaveIdealProfileConfig(ctx, &models.IdealProfileConfig{IdadeMin: -1}), models.ErrValidation)

	matches, err := service.IdealProfile(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Dentro", matches[0].Nome)
	assert.Equal(t, 35, matches[0].Idade)
	assert.Equal(t, 15, matches[0].TempoHabilitacao)
	assert.Equal(t, 2, matches[0].Filhos)
}

func TestEmployeeService_Birthdays(t *testing.T) {
	service, cleanup := setupEmployeeServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.collection().InsertMany(ctx, []interface{}{
		bson.M{"nome": "Aniversariante", "data_nascimento": time.Date(1985, 6, 15, 3, 0, 0, 0, time.UTC)},
		bson.M{"nome": "Outro Dia", "data_nascimento": time.Date(1985, 6, 16, 3, 0, 0, 0, time.UTC)},
		bson.M{"nome": "Sem Data"},
	})
	require.NoError(t, err)

	found, err := service.Birthdays(ctx, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Aniversariante", found[0].Nome)
}
