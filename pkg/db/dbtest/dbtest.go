// Package dbtest opens throwaway sqlite databases carrying the clinic schema
// so repositories and services can be tested without Postgres.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/petcareclinic/petcare-backend/pkg/migrate"
)

// Open returns an isolated in-memory database with every clinic table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=off", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, migrate.ApplySQLiteSchema(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
