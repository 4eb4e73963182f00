package mysql

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"migrations/1_create_users_products.up.sql",
		"migrations/1_create_users_products.down.sql",
		"migrations/2_create_orders.up.sql",
		"migrations/2_create_orders.down.sql",
	}, files)
}

func TestMigrateUnreachableDatabase(t *testing.T) {
	err := Migrate(DSN{User: "root", Host: "127.0.0.1:1", Database: "orderservice"})
	assert.Error(t, err)
}
