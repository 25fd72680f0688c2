package application_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/portal/modules/state"
	"github.com/agridesk/consentd/portal/repositories/application"
	"github.com/agridesk/consentd/portal/types"
)

func newRepo(t *testing.T) *application.BaseApplicationRepo {
	t.Helper()

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "applications"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stg.Close() })

	return application.NewApplicationRepo(stg)
}

func TestApplicationRepo_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := newRepo(t)

	app, err := repo.Create("Jane Doe")
	req.NoError(err)
	req.NotEmpty(app.ID)
	req.Equal(types.ApplicationStatusDraft, app.Status)
	req.False(app.ConsentFormCompleted)

	got, err := repo.Get(app.ID)
	req.NoError(err)
	req.Equal(app.ID, got.ID)
	req.Equal("Jane Doe", got.Applicant)
}

func TestApplicationRepo_GetMissing(t *testing.T) {
	req := require.New(t)
	repo := newRepo(t)

	_, err := repo.Get("no-such-id")
	req.ErrorIs(err, application.ErrNotFound)
}

func TestApplicationRepo_SaveUpdates(t *testing.T) {
	req := require.New(t)
	repo := newRepo(t)

	app, err := repo.Create("Jane Doe")
	req.NoError(err)

	app.ConsentFormCompleted = true
	app.ConsentName = "Jane Doe"
	req.NoError(repo.Save(app))

	got, err := repo.Get(app.ID)
	req.NoError(err)
	req.True(got.ConsentFormCompleted)
	req.Equal("Jane Doe", got.ConsentName)
}
