package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// ErrUnsupportedDocument возвращается, если содержимое файла не PDF/DOC/DOCX
// или не совпадает с расширением.
var ErrUnsupportedDocument = errors.New("storage: неподдерживаемый тип документа")

// ErrDocumentTooLarge возвращается при превышении лимита размера.
var ErrDocumentTooLarge = errors.New("storage: размер файла превышает лимит")

// Разрешённые типы резюме: MIME по расширению.
var allowedDocuments = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DocumentStorage хранит загруженные резюме на диске.
type DocumentStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewDocumentStorage создаёт файловое хранилище.
func NewDocumentStorage(rootPath string, maxUploadMB int64) (*DocumentStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &DocumentStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// DetectDocument определяет MIME по магическим байтам и сверяет его с расширением имени файла.
func DetectDocument(header []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := allowedDocuments[ext]
	if !ok {
		return "", fmt.Errorf("%w: расширение %q", ErrUnsupportedDocument, ext)
	}

	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("%w: не удалось определить тип", ErrUnsupportedDocument)
	}
	if kind.MIME.Value != expected {
		return "", fmt.Errorf("%w: содержимое %s не соответствует %s", ErrUnsupportedDocument, kind.MIME.Value, ext)
	}
	return expected, nil
}

// Save сохраняет документ соискателя и возвращает относительный путь и размер.
func (s *DocumentStorage) Save(ctx context.Context, applicantID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	ext := strings.ToLower(filepath.Ext(sanitizeFilename(originalName)))
	fileName := fmt.Sprintf("cv_%d%s", time.Now().UnixNano(), ext)

	dir := filepath.Join(s.rootPath, applicantID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог соискателя: %w", err)
	}

	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, &io.LimitedReader{R: r, N: s.maxUploadBytes + 1})
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("%w: %d байт", ErrDocumentTooLarge, s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return filepath.ToSlash(filepath.Join(applicantID.String(), fileName)), written, nil
}

// Delete удаляет файл из хранилища; отсутствие файла не ошибка.
func (s *DocumentStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." {
		name = "document"
	}
	return name
}
