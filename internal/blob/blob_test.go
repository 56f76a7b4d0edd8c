package blob

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{name: "plain", fileName: "brief.pdf", want: "groups/g1/documents/d1/brief.pdf"},
		{name: "spaces kept", fileName: "Q4 plan.xlsx", want: "groups/g1/documents/d1/Q4 plan.xlsx"},
		{name: "directories stripped", fileName: "../../etc/passwd", want: "groups/g1/documents/d1/passwd"},
		{name: "windows path", fileName: `C:\Users\me\notes.txt`, want: "groups/g1/documents/d1/notes.txt"},
		{name: "empty", fileName: "", want: "groups/g1/documents/d1/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentKey("g1", "d1", tt.fileName))
		})
	}
}

func TestProgressMonotonic(t *testing.T) {
	var seen []int

	p := NewProgress(10, func(pct int) { seen = append(seen, pct) })
	p.Add(3)
	p.Add(0)
	p.Add(2)
	p.Add(5)
	p.Add(5) // overshoot is capped
	p.Finish()

	assert.Equal(t, []int{0, 30, 50, 100}, seen)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")

	var progress []int

	n, err := m.Put(ctx, "groups/g/documents/d/a b.txt", strings.NewReader("hello"), 5, "text/plain",
		func(pct int) { progress = append(progress, pct) })
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])

	data, ct, err := m.Get("groups/g/documents/d/a b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", ct)

	u, err := m.URL(ctx, "groups/g/documents/d/a b.txt")
	require.NoError(t, err)
	assert.Equal(t, "memory://blobs/groups/g/documents/d/a%20b.txt", u)

	require.NoError(t, m.Delete(ctx, "groups/g/documents/d/a b.txt"))
	require.NoError(t, m.Delete(ctx, "groups/g/documents/d/a b.txt"), "second delete of a missing key")
	assert.Equal(t, 0, m.Len())

	_, err = m.URL(ctx, "groups/g/documents/d/a b.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSizeMismatch(t *testing.T) {
	m := NewMemory("")

	_, err := m.Put(context.Background(), "k", bytes.NewReader([]byte("abc")), 10, "", nil)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory("").Put(ctx, "k", strings.NewReader("x"), 1, "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinioURL(t *testing.T) {
	ctx := context.Background()

	public, err := NewMinio(MinioConfig{
		Endpoint:  "localhost:9000",
		Bucket:    "documents",
		PublicURL: "https://files.example.com/",
	})
	require.NoError(t, err)

	u, err := public.URL(ctx, "groups/g/documents/d/a b.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/documents/groups/g/documents/d/a%20b.txt", u)

	presigned, err := NewMinio(MinioConfig{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "documents",
		Region:          "us-east-1",
		URLExpiry:       time.Hour,
	})
	require.NoError(t, err)

	u, err = presigned.URL(ctx, "groups/g/documents/d/file.pdf")
	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:9000/documents/groups/g/documents/d/file.pdf?")
	assert.Contains(t, u, "X-Amz-Expires=3600")
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Minio)(nil)
)
