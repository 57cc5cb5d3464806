package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsFromFS_OrdenaPorVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_more.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"migrations/002_more.down.sql": {Data: []byte("DROP TABLE b;")},
		"migrations/001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"migrations/001_init.down.sql": {Data: []byte("DROP TABLE a;")},
	}

	migrations, err := loadMigrationsFromFS(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, "DROP TABLE a;", migrations[0].DownSQL)
	assert.Equal(t, int64(2), migrations[1].Version)
}

func TestLoadMigrationsFromFS_SinDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/001_init.up.sql": {Data: []byte("CREATE TABLE a (id INT);")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "up y down")
}

func TestLoadMigrationsFromFS_NombreInvalido(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/sin_version.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
}

func TestLoadMigrationsFromFS_ArchivoVacio(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/001_init.up.sql":   {Data: []byte("   ")},
		"migrations/001_init.down.sql": {Data: []byte("DROP TABLE a;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacía")
}

func TestLoadMigrationsFromFS_NombresDistintos(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"migrations/001_otro.down.sql": {Data: []byte("DROP TABLE a;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
}

func TestLoadMigrationsFromFS_Embebidas(t *testing.T) {
	migrations, err := loadMigrationsFromFS(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Contains(t, migrations[0].UpSQL, "CREATE TABLE IF NOT EXISTS sales")
}
