package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AttachmentUpload carries the attachment part of a com-anexos request
type AttachmentUpload struct {
	// Kept lists the previously stored names the client still references, per field
	Kept map[string][]string
	// Files holds the new uploads per field; only the first one of a field is stored
	Files map[string][]*multipart.FileHeader
}

// AttachmentStore keeps employee documents on local disk, served under /uploads
type AttachmentStore struct {
	dir    string
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewAttachmentStore creates the store, creating dir when missing
func NewAttachmentStore(dir string, logger *logging.SafeLogger) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &AttachmentStore{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the directory files are written to
func (s *AttachmentStore) Dir() string {
	return s.dir
}

// fileName builds <campo>-<unix millis>-<short uuid><ext>
func (s *AttachmentStore) fileName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), uuid.NewString()[:8], ext)
}

// Save writes one upload and returns the stored name
func (s *AttachmentStore) Save(field string, header *multipart.FileHeader) (string, error) {
	if !models.IsAttachmentField(field) {
		return "", fmt.Errorf("%w: %s", models.ErrUnknownAttachment, field)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", field, err)
	}
	defer src.Close()

	name := s.fileName(field, header.Filename)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment %s: %w", name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close attachment %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes stored files by name. Remote references and missing files are skipped.
func (s *AttachmentStore) Remove(names ...string) {
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "http") {
			continue
		}
		path := filepath.Join(s.dir, filepath.Base(name))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove attachment", zap.String("file", name), zap.Error(err))
		}
	}
}

// attachmentChange is the outcome of merging an upload with the stored attachments
type attachmentChange struct {
	arquivos map[string][]string
	added    []string
	removed  []string
}

// Apply stores the new files and computes the attachment map. A new file replaces
// the field; otherwise the kept names that the document already referenced become the
// field value. Only names from previous that are no longer referenced are reported in
// removed, and the caller deletes them once the document write succeeded.
func (s *AttachmentStore) Apply(upload AttachmentUpload, previous map[string][]string) (*attachmentChange, error) {
	change := &attachmentChange{arquivos: make(map[string][]string, len(models.AttachmentFields))}

	for _, field := range models.AttachmentFields {
		var final []string
		if files := upload.Files[field]; len(files) > 0 {
			name, err := s.Save(field, files[0])
			if err != nil {
				s.Remove(change.added...)
				return nil, err
			}
			change.added = append(change.added, name)
			final = []string{name}
		} else {
			final = keptNames(upload.Kept[field], previous[field])
		}
		change.arquivos[field] = final

		for _, old := range cleanNames(previous[field]) {
			if !containsName(final, old) && !containsName(change.removed, old) {
				change.removed = append(change.removed, old)
			}
		}
	}
	return change, nil
}

// keptNames filters the client's kept list down to names the document already had
func keptNames(kept, previous []string) []string {
	out := make([]string, 0, len(kept))
	for _, name := range cleanNames(kept) {
		if containsName(previous, name) {
			out = append(out, name)
		}
	}
	return out
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" && !containsName(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}

// attachmentsOf reads the arquivos map of a stored employee document
func attachmentsOf(doc bson.M) map[string][]string {
	out := map[string][]string{}

	var fields map[string]interface{}
	switch v := doc["arquivos"].(type) {
	case bson.M:
		fields = v
	case map[string]interface{}:
		fields = v
	case bson.D:
		fields = v.Map()
	default:
		return out
	}

	for field, value := range fields {
		switch list := value.(type) {
		case bson.A:
			out[field] = stringItems(list)
		case []interface{}:
			out[field] = stringItems(list)
		case []string:
			out[field] = list
		case string:
			out[field] = []string{list}
		}
	}
	return out
}

func stringItems(items []interface{}) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok {
			names = append(names, name)
		}
	}
	return names
}
