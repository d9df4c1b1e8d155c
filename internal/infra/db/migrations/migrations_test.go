package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesArePaired(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres"} {
		files, err := Files(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_unidades.down.sql",
			"000001_create_unidades.up.sql",
			"000002_create_falhas.down.sql",
			"000002_create_falhas.up.sql",
		}, files, driver)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Files("sqlite3")
	assert.Error(t, err)
	assert.ErrorContains(t, Up(nil, "sqlite3"), "unsupported driver")
}
