package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// Source identifies where a raw table comes from: a local file or an uploaded payload.
// Its ID is stable for the same input and is what caches key on.
type Source struct {
	Name string
	Path string
	Data []byte
	id   string
}

// FromPath returns a file-backed source identified by its absolute path.
func FromPath(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve path: %w", err)
	}
	return Source{Name: filepath.Base(path), Path: abs, id: "path:" + abs}, nil
}

// FromBytes returns an in-memory source identified by a content fingerprint,
// so re-uploading the same bytes under a different name still hits the cache.
func FromBytes(name string, data []byte) Source {
	return Source{Name: name, Data: data, id: fmt.Sprintf("xxh3:%016x", xxh3.Hash(data))}
}

// ID returns the cache identity of the source.
func (s Source) ID() string { return s.id }

// Open returns a reader over the source contents.
func (s Source) Open() (io.ReadCloser, error) {
	if s.Path != "" {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}
		return f, nil
	}
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}
