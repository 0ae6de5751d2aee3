package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload stores a file and returns its metadata
func (s *LocalStorage) Upload(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()

	// Sanitize filename and add UUID prefix for uniqueness
	safeFilename := sanitizeFilename(filename)
	storedFilename := fmt.Sprintf("%s_%s", fileID.String()[:8], safeFilename)
	filePath := filepath.Join(s.basePath, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:          fileID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        filePath,
		CreatedAt:   time.Now(),
	}

	if err := s.writeMetadata(info); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return info, nil
}

// List returns all archived files, newest first by creation time
func (s *LocalStorage) List(ctx context.Context) ([]*FileInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	infos := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metadataSuffix) {
			continue
		}
		info, err := s.readMetadata(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetReader returns a reader for a stored file
func (s *LocalStorage) GetReader(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, error) {
	info, err := s.findByID(fileID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return f, nil
}

// Delete removes a file and its metadata by ID
func (s *LocalStorage) Delete(ctx context.Context, fileID uuid.UUID) error {
	info, err := s.findByID(fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	if err := os.Remove(info.Path + metadataSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file metadata: %w", err)
	}
	return nil
}

const metadataSuffix = ".meta.json"

func (s *LocalStorage) writeMetadata(info *FileInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode file metadata: %w", err)
	}
	if err := os.WriteFile(info.Path+metadataSuffix, data, 0644); err != nil {
		return fmt.Errorf("failed to write file metadata: %w", err)
	}
	return nil
}

func (s *LocalStorage) readMetadata(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *LocalStorage) findByID(fileID uuid.UUID) (*FileInfo, error) {
	infos, err := s.List(context.Background())
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.ID == fileID {
			return info, nil
		}
	}
	return nil, fmt.Errorf("file %s not found", fileID)
}

// sanitizeFilename strips path separators and other unsafe characters
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(filename)
}
