// Package blob stores document files.
//
// Two stores exist: Minio talks to any S3 compatible server and Memory keeps
// objects in process for development and tests. Both treat deleting a missing
// object as success so document deletion can be retried safely.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when reading an object that does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrSizeMismatch is returned when fewer or more bytes than announced were stored.
	ErrSizeMismatch = errors.New("stored size differs from announced size")
)

// ProgressFunc receives upload progress in percent, 0 to 100, never decreasing.
type ProgressFunc func(percent int)

// Store is what documents need from object storage.
type Store interface {
	// Put streams r to key and returns the number of bytes stored.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (int64, error)
	// URL returns a download URL for key.
	URL(ctx context.Context, key string) (string, error)
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// DocumentKey is the object key of a document file.
func DocumentKey(groupID, documentID, fileName string) string {
	return path.Join("groups", groupID, "documents", documentID, cleanFileName(fileName))
}

// cleanFileName keeps the file name usable as the last key segment.
func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	if name == "." || name == "/" || name == ".." || name == "" {
		return "file"
	}

	return name
}

// Progress turns byte counts into percent callbacks.
// It implements io.Reader so it can be handed to minio's PutObjectOptions.Progress,
// which feeds it every chunk it uploads.
type Progress struct {
	mu    sync.Mutex
	total int64
	done  int64
	last  int
	fn    ProgressFunc
}

// NewProgress reports 0 percent right away when fn is set.
func NewProgress(total int64, fn ProgressFunc) *Progress {
	p := &Progress{total: total, last: -1, fn: fn}
	p.report(0)

	return p
}

// Read counts len(b) uploaded bytes.
func (p *Progress) Read(b []byte) (int, error) {
	p.Add(int64(len(b)))

	return len(b), nil
}

// Add counts n uploaded bytes.
func (p *Progress) Add(n int64) {
	p.mu.Lock()
	p.done += n
	done, total := p.done, p.total
	p.mu.Unlock()

	if total <= 0 {
		return
	}

	p.report(int(min(done*100/total, 100))) //nolint:mnd
}

// Finish reports 100 percent.
func (p *Progress) Finish() {
	p.report(100) //nolint:mnd
}

func (p *Progress) report(percent int) {
	if p.fn == nil {
		return
	}

	p.mu.Lock()
	if percent <= p.last {
		p.mu.Unlock()
		return
	}

	p.last = percent
	p.mu.Unlock()

	p.fn(percent)
}
