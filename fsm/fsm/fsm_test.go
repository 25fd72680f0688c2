package fsm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agridesk/consentd/fsm/fsm"
)

const (
	stateDraft  = fsm.State("state_draft")
	stateReview = fsm.State("state_review")
	stateDone   = fsm.State("state_done")

	eventSend    = fsm.Event("event_send")
	eventRework  = fsm.Event("event_rework")
	eventApprove = fsm.Event("event_approve")
	eventSeal    = fsm.Event("event_seal")
)

func newTestFSM(callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.MustNewFSM(
		"review_fsm",
		stateDraft,
		[]fsm.EventDesc{
			{Name: eventSend, SrcState: []fsm.State{stateDraft}, DstState: stateReview},
			{Name: eventRework, SrcState: []fsm.State{stateReview}, DstState: stateDraft},
			{Name: eventApprove, SrcState: []fsm.State{stateReview}, DstState: stateDone},
			{Name: eventSeal, SrcState: []fsm.State{stateReview}, DstState: stateDone, IsInternal: true},
		},
		callbacks,
	)
}

func TestFSM_Transitions(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	req.Equal(stateDraft, machine.State())
	req.True(machine.CanDo(eventSend))
	req.False(machine.CanDo(eventApprove))

	resp, err := machine.Do(eventSend)
	req.NoError(err)
	req.Equal(stateReview, resp.State)

	resp, err = machine.Do(eventApprove)
	req.NoError(err)
	req.Equal(stateDone, resp.State)
	req.True(machine.IsFinState(machine.State()))
}

func TestFSM_IllegalEventKeepsState(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	_, err := machine.Do(eventApprove)
	req.Error(err)
	req.Equal(stateDraft, machine.State())
}

func TestFSM_InternalEventRejectedExternally(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(nil)
	_, err := machine.Do(eventSend)
	req.NoError(err)

	_, err = machine.Do(eventSeal)
	req.Error(err)
	req.Equal(stateReview, machine.State())

	resp, err := machine.DoInternal(eventSeal)
	req.NoError(err)
	req.Equal(stateDone, resp.State)
}

func TestFSM_CallbackErrorBlocksTransition(t *testing.T) {
	req := require.New(t)

	blocked := errors.New("not ready")
	machine := newTestFSM(fsm.Callbacks{
		eventSend: func(event fsm.Event, args ...interface{}) (fsm.Event, interface{}, error) {
			return "", nil, blocked
		},
	})

	_, err := machine.Do(eventSend)
	req.ErrorIs(err, blocked)
	req.Equal(stateDraft, machine.State())
}

func TestFSM_CallbackMayRedirect(t *testing.T) {
	req := require.New(t)

	machine := newTestFSM(fsm.Callbacks{
		eventApprove: func(event fsm.Event, args ...interface{}) (fsm.Event, interface{}, error) {
			return eventRework, nil, nil
		},
	})

	_, err := machine.Do(eventSend)
	req.NoError(err)

	resp, err := machine.Do(eventApprove)
	req.NoError(err)
	req.Equal(stateDraft, resp.State)
}
