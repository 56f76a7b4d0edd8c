package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

// NewMemory returns an empty store whose URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}

	return &Memory{objects: make(map[string]memoryObject), baseURL: baseURL}
}

// progressWriter counts bytes written through it.
type progressWriter struct {
	p *Progress
}

func (w progressWriter) Write(b []byte) (int, error) {
	w.p.Add(int64(len(b)))

	return len(b), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck
	}

	var (
		buf bytes.Buffer
		p   = NewProgress(size, progress)
	)

	n, err := io.Copy(io.MultiWriter(&buf, progressWriter{p: p}), r)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}

	if size >= 0 && n != size {
		return 0, fmt.Errorf("%w: announced %d, got %d", ErrSizeMismatch, size, n)
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{data: buf.Bytes(), contentType: contentType}
	m.mu.Unlock()

	p.Finish()

	return n, nil
}

// URL implements Store.
func (m *Memory) URL(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}

	return m.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()

	return nil
}

// Get returns the stored bytes and content type of key.
func (m *Memory) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}

	return obj.data, obj.contentType, nil
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
