package clients

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"admon_backend/internals/databases/dbtest"
	clientModel "admon_backend/internals/features/clients/clients/model"
)

func TestSeedClientsFromJSON_Idempotent(t *testing.T) {
	db := dbtest.Open(t)

	n, err := SeedClientsFromJSON(db, "data_clients.json")
	require.NoError(t, err)
	require.Equal(t, 6, n)

	n, err = SeedClientsFromJSON(db, "data_clients.json")
	require.NoError(t, err)
	require.Zero(t, n)

	var c clientModel.ClientModel
	require.NoError(t, db.First(&c, "nombre = ?", "Café Montaña").Error)
	require.Nil(t, c.ClientEmail)
}

func TestSeedClientsFromJSON_BadFile(t *testing.T) {
	db := dbtest.Open(t)

	_, err := SeedClientsFromJSON(db, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = SeedClientsFromJSON(db, bad)
	require.Error(t, err)
}
