package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// formFiles builds real multipart file headers for field -> filename/content pairs
func formFiles(t *testing.T, files map[string][2]string) map[string][]*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File
}

func newTestAttachmentStore(t *testing.T) *AttachmentStore {
	t.Helper()
	store, err := NewAttachmentStore(filepath.Join(t.TempDir(), "uploads"), logging.Logger)
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1736500000000) }
	return store
}

func TestAttachmentStore_SaveNamesFileByField(t *testing.T) {
	store := newTestAttachmentStore(t)
	files := formFiles(t, map[string][2]string{"curriculo": {"Currículo João.PDF", "conteudo"}})

	name, err := store.Save("curriculo", files["curriculo"][0])
	require.NoError(t, err)

	assert.Regexp(t, `^curriculo-1736500000000-[0-9a-f]{8}\.pdf$`, name)
	content, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "conteudo", string(content))
}

func TestAttachmentStore_SaveRejectsUnknownField(t *testing.T) {
	store := newTestAttachmentStore(t)
	files := formFiles(t, map[string][2]string{"foto": {"foto.png", "x"}})

	_, err := store.Save("foto", files["foto"][0])
	assert.ErrorIs(t, err, models.ErrUnknownAttachment)
}

func TestAttachmentStore_ApplyReplacesAndKeeps(t *testing.T) {
	store := newTestAttachmentStore(t)
	for _, old := range []string{"cnh_arquivo-1.jpg", "nada_consta-1.pdf", "curriculo-1.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), old), []byte("old"), 0o644))
	}

	previous := map[string][]string{
		"cnh_arquivo": {"cnh_arquivo-1.jpg"},
		"nada_consta": {"nada_consta-1.pdf"},
		"curriculo":   {"curriculo-1.pdf"},
	}
	upload := AttachmentUpload{
		Kept: map[string][]string{
			"cnh_arquivo": {"cnh_arquivo-1.jpg"},
			"nada_consta": {"nada_consta-1.pdf"},
		},
		Files: formFiles(t, map[string][2]string{"cnh_arquivo": {"nova.jpg", "new"}}),
	}

	change, err := store.Apply(upload, previous)
	require.NoError(t, err)

	require.Len(t, change.added, 1)
	assert.Equal(t, []string{change.added[0]}, change.arquivos["cnh_arquivo"])
	assert.Equal(t, []string{"nada_consta-1.pdf"}, change.arquivos["nada_consta"])
	assert.Empty(t, change.arquivos["curriculo"])
	assert.Empty(t, change.arquivos["comprovante_mei"])
	assert.ElementsMatch(t, []string{"cnh_arquivo-1.jpg", "curriculo-1.pdf"}, change.removed)

	store.Remove(change.removed...)
	_, err = os.Stat(filepath.Join(store.Dir(), "cnh_arquivo-1.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.Dir(), "nada_consta-1.pdf"))
	assert.NoError(t, err)
}

func TestAttachmentStore_ApplyIgnoresForeignKeptNames(t *testing.T) {
	store := newTestAttachmentStore(t)
	foreign := "cnh_arquivo-1-deadbeef.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), foreign), []byte("outro funcionario"), 0o644))

	upload := AttachmentUpload{
		Kept: map[string][]string{
			"cnh_arquivo": {foreign},
			"curriculo":   {foreign},
		},
		Files: formFiles(t, map[string][2]string{"cnh_arquivo": {"nova.pdf", "new"}}),
	}

	change, err := store.Apply(upload, map[string][]string{})
	require.NoError(t, err)

	assert.Empty(t, change.removed)
	assert.Empty(t, change.arquivos["curriculo"])
	assert.Equal(t, change.added, change.arquivos["cnh_arquivo"])

	store.Remove(change.removed...)
	_, err = os.Stat(filepath.Join(store.Dir(), foreign))
	assert.NoError(t, err, "file referenced only by the request must stay on disk")
}

func TestAttachmentStore_RemoveSkipsRemoteAndMissing(t *testing.T) {
	store := newTestAttachmentStore(t)
	store.Remove("", "https://dropbox.example/arquivo.pdf", "nao-existe.pdf")
}

func TestAttachmentsOf(t *testing.T) {
	doc := bson.M{"arquivos": bson.M{
		"cnh_arquivo": bson.A{"a.jpg", 7},
		"curriculo":   "b.pdf",
	}}
	got := attachmentsOf(doc)
	assert.Equal(t, []string{"a.jpg"}, got["cnh_arquivo"])
	assert.Equal(t, []string{"b.pdf"}, got["curriculo"])

	assert.Empty(t, attachmentsOf(bson.M{"nome": "x"}))
}
