package handles_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/portal/modules/handles"
)

func TestRegistry_HandlesAreIndependent(t *testing.T) {
	req := require.New(t)

	reg := handles.NewRegistry()
	first := reg.Acquire([]byte("first document"), "application/pdf")
	second := reg.Acquire([]byte("second document"), "application/pdf")

	req.NotEqual(first.ID(), second.ID())

	first.Release()

	_, err := first.Bytes()
	req.ErrorIs(err, handles.ErrReleased)

	data, err := second.Bytes()
	req.NoError(err)
	req.Equal([]byte("second document"), data)
}

func TestHandle_ReleaseIsIdempotent(t *testing.T) {
	req := require.New(t)

	reg := handles.NewRegistry()
	h := reg.Acquire([]byte("blob"), "application/pdf")

	h.Release()
	h.Release()

	req.True(h.Released())
	req.Equal(0, reg.Len())
}

func TestRegistry_GetUnregistersOnRelease(t *testing.T) {
	req := require.New(t)

	reg := handles.NewRegistry()
	h := reg.Acquire([]byte("blob"), "application/octet-stream")

	got, ok := reg.Get(h.ID())
	req.True(ok)
	req.Equal(h, got)

	h.Release()

	_, ok = reg.Get(h.ID())
	req.False(ok)
}
