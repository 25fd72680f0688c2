// Package consent_fsm declares the state machine of one consent-form
// workflow instance. Preview is exploratory and may be regenerated from
// either editable state; completion is the binding action and is only
// reachable from a previewed form. Any field or signature mutation while
// previewed drops the machine back to editing.
package consent_fsm

import (
	"github.com/agridesk/consentd/fsm/fsm"
)

const (
	fsmName = "consent_fsm"

	StateEditing   = fsm.State("state_consent_editing")
	StatePreviewed = fsm.State("state_consent_previewed")
	StateCompleted = fsm.State("state_consent_completed")

	EventPreviewGenerated = fsm.Event("event_consent_preview_generated")
	EventInputChanged     = fsm.Event("event_consent_input_changed")
	EventCompleted        = fsm.Event("event_consent_completed")
)

type ConsentFSM struct {
	*fsm.FSM
}

func New() *ConsentFSM {
	machine := &ConsentFSM{}

	machine.FSM = fsm.MustNewFSM(
		fsmName,
		StateEditing,
		[]fsm.EventDesc{
			// Preview may be regenerated without limit.
			{Name: EventPreviewGenerated, SrcState: []fsm.State{StateEditing, StatePreviewed}, DstState: StatePreviewed},

			// Implicit re-entry into editing on any input mutation.
			{Name: EventInputChanged, SrcState: []fsm.State{StateEditing, StatePreviewed}, DstState: StateEditing},

			// Exit point: the workflow is closed after completion.
			{Name: EventCompleted, SrcState: []fsm.State{StatePreviewed}, DstState: StateCompleted},
		},
		nil,
	)

	return machine
}
