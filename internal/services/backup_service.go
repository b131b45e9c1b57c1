package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BackupReport lists what one backup run produced
type BackupReport struct {
	Dir         string           `json:"dir"`
	Collections map[string]int64 `json:"collections"`
	CopiedFiles int              `json:"copiedFiles"`
}

// BackupService exports the local database and mirrors the uploads directory
type BackupService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(database *mongo.Database, logger *logging.SafeLogger) *BackupService {
	return &BackupService{database: database, logger: logger.Named("backup"), now: time.Now}
}

// ExportCollections writes every collection as a relaxed Extended JSON array to
// <dir>/backup_<timestamp>/<collection>.json
func (s *BackupService) ExportCollections(ctx context.Context, dir string) (*BackupReport, error) {
	target := filepath.Join(dir, "backup_"+s.now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	names, err := s.database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	sort.Strings(names)

	report := &BackupReport{Dir: target, Collections: make(map[string]int64, len(names))}
	for _, name := range names {
		count, err := s.exportCollection(ctx, name, filepath.Join(target, name+".json"))
		if err != nil {
			return report, err
		}
		report.Collections[name] = count
		s.logger.Info("collection exported", zap.String("collection", name), zap.Int64("documents", count))
	}
	return report, nil
}

func (s *BackupService) exportCollection(ctx context.Context, name, path string) (count int64, err error) {
	ctx, _, finish := utils.TraceDatabaseOperation(ctx, "export", name)
	defer func() { finish(err) }()

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	cursor, err := s.database.Collection(name).Find(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	w := bufio.NewWriter(file)
	if _, err := w.WriteString("["); err != nil {
		return 0, err
	}
	for cursor.Next(ctx) {
		data, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			return count, fmt.Errorf("failed to encode document of %s: %w", name, err)
		}
		sep := ",\n  "
		if count == 0 {
			sep = "\n  "
		}
		if _, err := w.WriteString(sep); err != nil {
			return count, err
		}
		if _, err := w.Write(data); err != nil {
			return count, err
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("failed to iterate collection %s: %w", name, err)
	}
	if _, err := w.WriteString("\n]\n"); err != nil {
		return count, err
	}
	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return count, nil
}

// CopyNewFiles mirrors src into dst, copying only files missing in dst or differing
// in size or modification time. Subdirectories are preserved. A missing src copies nothing.
func (s *BackupService) CopyNewFiles(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		s.logger.Warn("backup source does not exist", zap.String("src", src))
		return 0, nil
	}

	copied := 0
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		if sameFile(info, out) {
			return nil
		}
		if err := copyFile(path, out, info); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to mirror %s: %w", src, err)
	}
	return copied, nil
}

func sameFile(info os.FileInfo, dst string) bool {
	other, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return other.Size() == info.Size() && other.ModTime().Unix() == info.ModTime().Unix()
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
