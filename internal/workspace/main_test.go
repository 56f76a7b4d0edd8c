package workspace_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/blob"
	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	"github.com/salarkhan2003/OLTECH-AI/internal/db"
	"github.com/salarkhan2003/OLTECH-AI/internal/joincode"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

type fixture struct {
	svc   *workspace.Service
	db    *gorm.DB
	blobs *blob.Memory
	ctx   context.Context
}

// stepClock advances one second per reading so records sort by creation.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(time.Second)

	return c.t
}

func newFixture(t *testing.T, opts ...workspace.Option) *fixture {
	t.Helper()

	return newFixtureWithStore(t, nil, opts...)
}

func newFixtureWithStore(t *testing.T, store blob.Store, opts ...workspace.Option) *fixture {
	t.Helper()

	gdb, err := db.Open(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite}})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	mem := blob.NewMemory("")
	if store == nil {
		store = mem
	}

	clock := &stepClock{t: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
	opts = append([]workspace.Option{workspace.WithClock(clock.Now)}, opts...)

	return &fixture{
		svc:   workspace.New(gdb, store, nil, opts...),
		db:    gdb,
		blobs: mem,
		ctx:   context.Background(),
	}
}

// user creates the profile of a signed in user.
func (f *fixture) user(t *testing.T, uid, name string) {
	t.Helper()

	_, err := f.svc.EnsureProfile(f.ctx, auth.Identity{
		UID:         uid,
		Email:       strings.ToLower(name) + "@example.com",
		DisplayName: name,
	})
	require.NoError(t, err)
}

// codes feeds the generator so it yields the given join codes in order.
func codes(list ...string) workspace.Option {
	var buf bytes.Buffer

	for _, code := range list {
		block := make([]byte, 16)
		for i := range code {
			block[i] = byte(strings.IndexByte(joincode.Alphabet, code[i]))
		}

		buf.Write(block)
	}

	return workspace.WithJoinCodes(joincode.NewGenerator(&buf))
}

func authIdentity(uid, email, name string) auth.Identity {
	return auth.Identity{UID: uid, Email: email, DisplayName: name}
}
