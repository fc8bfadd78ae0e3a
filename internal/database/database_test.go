package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sitewalk-tasks/internal/config"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{"sqlite", "sqlite"},
		{"mysql", "mysql"},
		{"postgres", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBDriver: tt.driver, DBName: "sitewalk"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestDialector_Disabled(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "none"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnectAndMigrate_SQLiteMemory(t *testing.T) {
	err := Connect(&config.Config{DBDriver: "sqlite", DBDSN: "file::memory:?cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate())

	assert.True(t, GetDB().Migrator().HasTable("digest_runs"))
	assert.True(t, GetDB().Migrator().HasTable("digest_deliveries"))
}
