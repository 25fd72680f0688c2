package consent_fsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/fsm/state_machines/consent_fsm"
)

func TestConsentFSM_HappyPath(t *testing.T) {
	req := require.New(t)

	machine := consent_fsm.New()
	req.Equal(consent_fsm.StateEditing, machine.State())

	resp, err := machine.Do(consent_fsm.EventPreviewGenerated)
	req.NoError(err)
	req.Equal(consent_fsm.StatePreviewed, resp.State)

	resp, err = machine.Do(consent_fsm.EventCompleted)
	req.NoError(err)
	req.Equal(consent_fsm.StateCompleted, resp.State)
	req.True(machine.IsFinState(machine.State()))
}

func TestConsentFSM_CompleteRequiresPreview(t *testing.T) {
	req := require.New(t)

	machine := consent_fsm.New()
	_, err := machine.Do(consent_fsm.EventCompleted)
	req.Error(err)
	req.Equal(consent_fsm.StateEditing, machine.State())
}

func TestConsentFSM_InputChangeReentersEditing(t *testing.T) {
	req := require.New(t)

	machine := consent_fsm.New()
	_, err := machine.Do(consent_fsm.EventPreviewGenerated)
	req.NoError(err)

	resp, err := machine.Do(consent_fsm.EventInputChanged)
	req.NoError(err)
	req.Equal(consent_fsm.StateEditing, resp.State)

	// A stale preview is not a licence to complete.
	_, err = machine.Do(consent_fsm.EventCompleted)
	req.Error(err)
}

func TestConsentFSM_PreviewMayBeRegenerated(t *testing.T) {
	req := require.New(t)

	machine := consent_fsm.New()
	for i := 0; i < 3; i++ {
		resp, err := machine.Do(consent_fsm.EventPreviewGenerated)
		req.NoError(err)
		req.Equal(consent_fsm.StatePreviewed, resp.State)
	}
}
