package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	treeRepo "treeview/internal/domain/repositories/tree"
)

// PayloadSource reads the payload from a JSON or YAML file.
// The file is re-read on every Load so edits show up without a restart.
type PayloadSource struct {
	path string
}

var _ treeRepo.PayloadSource = (*PayloadSource)(nil)

// NewPayloadSource creates a file-backed payload source
func NewPayloadSource(path string) *PayloadSource {
	return &PayloadSource{path: path}
}

// Path returns the file being served
func (s *PayloadSource) Path() string {
	return s.path
}

// Load reads and decodes the file; ".yaml" and ".yml" files are YAML, anything else JSON
func (s *PayloadSource) Load(ctx context.Context) (*models.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("payload file %s: %w", s.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read payload file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return models.ParseYAML(data)
	default:
		return models.ParseJSON(data)
	}
}
