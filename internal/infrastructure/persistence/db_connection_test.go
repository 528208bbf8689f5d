//go:build unit
// +build unit

package persistence

import (
	"testing"

	"github.com/d1s-utils/hole/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMysqlDSN(t *testing.T) {
	dsn, err := NormalizeMysqlDSN("hole:secret@tcp(localhost:3306)/hole")
	require.NoError(t, err)

	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "tcp(localhost:3306)/hole")
}

func TestNormalizeMysqlDSN_Invalid(t *testing.T) {
	_, err := NormalizeMysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestNewDBConnection_UnsupportedType(t *testing.T) {
	_, err := NewDBConnection(config.DatabaseSettings{Type: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestNewDBConnection_Sqlite(t *testing.T) {
	db, err := NewDBConnection(config.DatabaseSettings{Type: config.SqliteDbType, DSN: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = CloseDB(db) }()

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
