package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"certbot/internal/domain"
)

// DirStore reads templates from a directory; the template name is the file name.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New("template directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory: %s is not a directory", dir)
	}
	return &DirStore{fsys: os.DirFS(dir)}, nil
}

func (s *DirStore) Fetch(_ context.Context, name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("open template %s: %w", name, err)
	}
	defer f.Close()
	return readTemplate(f, name)
}

func readTemplate(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTemplateSize+1))
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	if len(data) > MaxTemplateSize {
		return nil, fmt.Errorf("%w: template %s exceeds %d bytes", domain.ErrRenderFailure, name, MaxTemplateSize)
	}
	return data, nil
}
