package state_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/portal/modules/state"
)

func TestLevelDBState_SetGetDelete(t *testing.T) {
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "consentd_state"))
	req.NoError(err)
	defer stg.Close()

	key := state.MakeCompositeKey("applications", "app-1")

	value, err := stg.Get(key)
	req.NoError(err)
	req.Nil(value)

	err = stg.Set(key, []byte(`{"id":"app-1"}`))
	req.NoError(err)

	value, err = stg.Get(key)
	req.NoError(err)
	req.Equal([]byte(`{"id":"app-1"}`), value)

	err = stg.Delete(key)
	req.NoError(err)

	value, err = stg.Get(key)
	req.NoError(err)
	req.Nil(value)

	// Deleting an absent key is not an error.
	req.NoError(stg.Delete(key))
}
