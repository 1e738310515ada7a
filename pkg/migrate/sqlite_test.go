package migrate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestApplySQLiteSchemaIsIdempotent(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_schema?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, ApplySQLiteSchema(conn))
	require.NoError(t, ApplySQLiteSchema(conn))

	for _, table := range []string{"users", "products", "veterinarians", "appointments", "carts", "cart_items", "orders", "order_items", "testimonials", "outbox_events", "outbox_dlq"} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestApplySQLiteSchemaRequiresConnection(t *testing.T) {
	require.Error(t, ApplySQLiteSchema(nil))
}
