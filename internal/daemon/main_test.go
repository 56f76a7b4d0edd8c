package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salarkhan2003/OLTECH-AI/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DB: config.DB{GormEngine: config.EngineSQLite},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			ShutDownTime: 1,
			Session:      config.Session{ExpiryTime: time.Hour},
		},
		Storage:   config.Storage{Driver: config.StorageMemory},
		Auth:      config.Auth{Local: config.LocalAuth{Enabled: true}},
		Workspace: config.Workspace{JoinCodeAttempts: 5, PurgeInterval: time.Minute, MaxUploadSize: 1 << 20},
	}
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)

	d, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, d.webService)

	n, err := d.workspace.PurgePendingDocuments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	// nothing pending, purge must not fail
	d.purge(context.Background())
}

func TestSessionStorageSQLiteUsesMemory(t *testing.T) {
	assert.Nil(t, sessionStorage(testConfig()))
}

func TestSweepStopsWithContext(t *testing.T) {
	d, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	d.cfg.Workspace.PurgeInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		d.sweep(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweepNonPositiveInterval(t *testing.T) {
	d, err := New(context.Background(), testConfig())
	require.NoError(t, err)

	d.cfg.Workspace.PurgeInterval = -time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// must fall back to the default instead of panicking in NewTicker
	assert.NotPanics(t, func() { d.sweep(ctx) })
}
