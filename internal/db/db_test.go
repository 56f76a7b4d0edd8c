package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.EngineSQLite}}

	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	assert.True(t, gdb.Migrator().HasIndex(&models.GroupMember{}, "idx_group_members_uid"))
}

func TestDialectorUnknownEngine(t *testing.T) {
	_, err := Dialector(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	assert.ErrorIs(t, err, config.ErrUnknownDBEngine)
}
