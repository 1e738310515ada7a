package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcareclinic/petcare-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(""))
}

func TestAppointmentsMigrationGuardsSlots(t *testing.T) {
	content := readMigration(t, "*_create_appointments_table.sql")
	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS appointments_vet_slot_active_uq")
	assert.Contains(t, content, "WHERE status <> 'CANCELLED'")
}

func TestCartsMigrationEnforcesSingleActiveCart(t *testing.T) {
	content := readMigration(t, "*_create_carts_tables.sql")
	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS carts_user_active_uq ON carts (user_id) WHERE status = 'ACTIVE'")
	assert.Contains(t, content, "CONSTRAINT cart_items_cart_product_uq UNIQUE (cart_id, product_id)")
}

func TestEnumMigrationMatchesDomainTypes(t *testing.T) {
	content := readMigration(t, "*_create_domain_enum_types.sql")
	for _, typ := range []string{
		"user_role",
		"product_category",
		"appointment_status",
		"cart_status",
		"order_status",
		"payment_method",
		"payment_status",
	} {
		assert.Contains(t, content, "CREATE TYPE "+typ+" AS ENUM")
		assert.Contains(t, content, "DROP TYPE IF EXISTS "+typ+";")
	}
	assert.Contains(t, content, "'TO_BE_SENT'")
	assert.Contains(t, content, "'CASH_ON_DELIVERY'")
}

func TestProductsMigrationKeepsStockNonNegative(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")
	assert.True(t, strings.Contains(content, "stock_quantity integer NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)"))
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Pet Weight!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_pet_weight.sql"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "-- +goose Down")
	require.NoError(t, migrate.ValidateDir(dir))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))

	empty := t.TempDir()
	require.Error(t, migrate.ValidateDir(empty))
}

func TestCreateSQLMigrationRejectsReusedName(t *testing.T) {
	dir := t.TempDir()
	_, err := migrate.CreateSQLMigration(dir, "add_pet_weight")
	require.NoError(t, err)

	_, err = migrate.CreateSQLMigration(dir, "Add pet weight")
	require.Error(t, err)
}

func TestValidateDirRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_add_index.sql"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250102000000_add_index.sql"), body, 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration matching %s", pattern)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}
