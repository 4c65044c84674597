package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

const ext = ".glycan.json"

// FileLibrary stores each entry as <dir>/<name>.glycan.json.
type FileLibrary struct {
	mu  sync.RWMutex
	dir string
}

// NewFileLibrary creates dir if needed.
func NewFileLibrary(dir string) (*FileLibrary, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &FileLibrary{dir: dir}, nil
}

func (l *FileLibrary) path(name string) (string, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, name+ext), nil
}

func (l *FileLibrary) Save(_ context.Context, name string, doc graph.Glycan) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	doc.Name = name
	data, err := json.MarshalIndent(Entry{Name: name, Document: doc, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

func (l *FileLibrary) Load(_ context.Context, name string) (*Entry, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	data, err := os.ReadFile(path)
	l.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New(errs.ErrCodeDocumentNotFound, "no structure named %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", filepath.Base(path))
	}
	return &e, nil
}

func (l *FileLibrary) List(ctx context.Context) ([]Summary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read library dir: %w", err)
	}
	var out []Summary
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.dir, de.Name()))
		if err != nil {
			continue
		}
		var e Entry
		if json.Unmarshal(data, &e) != nil {
			continue
		}
		out = append(out, e.summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (l *FileLibrary) Delete(_ context.Context, name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove entry: %w", err)
	}
	return nil
}

func (l *FileLibrary) Close() error { return nil }

// Dir returns the library directory.
func (l *FileLibrary) Dir() string { return l.dir }

var _ Library = (*FileLibrary)(nil)
