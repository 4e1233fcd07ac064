package repository

import (
	"testing"

	"github.com/djjoel12/talksellr/internal/infra/db"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// インメモリSQLiteで毎回新しいDBを作る
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig(zap.NewNop(), "error"))
	require.NoError(t, err)

	// :memory: は接続ごとに別DBになるので1本に固定
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}
