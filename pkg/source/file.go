package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileSource reads a snapshot document from disk on every fetch, so edits
// to the file are visible without a restart
type FileSource struct {
	path string
}

// NewFileSource creates a source for path; ".sz" files are snappy-framed
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Kind implements Source
func (s *FileSource) Kind() string { return "file" }

// Snapshot implements Source
func (s *FileSource) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	doc, err := DecodeDocument(f, IsCompressed(s.path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	nodes, edges := doc.Records()
	return newSnapshot(s.Kind(), nodes, Filter(edges, q)), nil
}

// Ping checks that the file exists and is readable
func (s *FileSource) Ping(ctx context.Context) error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// Close implements Source
func (s *FileSource) Close() error { return nil }

// WriteFile stores doc at path, compressing when the name ends in ".sz"
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := EncodeDocument(f, doc, IsCompressed(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
