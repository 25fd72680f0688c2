package fsm

import (
	"fmt"
	"strings"
	"sync"
)

//
//  machine := fsm.MustNewFSM(name, initialState, events, callbacks)
//
//  resp, err := machine.Do(event, args)
//

type State string

func (s State) String() string {
	return string(s)
}

type Event string

func (e Event) String() string {
	return string(e)
}

func (e Event) IsEmpty() bool {
	return e.String() == ""
}

// Response is the result of processing an event.
type Response struct {
	// State the machine ended up in.
	State State
	// Data must be cast according to the event's response type.
	Data interface{}
}

// Callback runs while an event is processed, before the state changes.
// Returning an error leaves the machine in its current state.
type Callback func(event Event, args ...interface{}) (Event, interface{}, error)

type Callbacks map[Event]Callback

// EventDesc declares one transition: event name, allowed source states and
// the destination state.
type EventDesc struct {
	Name Event

	SrcState []State

	// Dst state is set after the callback succeeds.
	DstState State

	// Internal events cannot be emitted from an external call.
	IsInternal bool
}

// Transition key: source + event.
type trKey struct {
	source State
	event  Event
}

type trEvent struct {
	event      Event
	dstState   State
	isInternal bool
}

type FSM struct {
	name         string
	initialState State
	currentState State

	transitions map[trKey]*trEvent

	callbacks Callbacks

	// Final states cannot be linked as a source state in this machine.
	finStates map[State]bool

	// stateMu guards access to currentState.
	stateMu sync.RWMutex
	// eventMu serializes Do calls.
	eventMu sync.Mutex
}

// MustNewFSM builds a machine from the event descriptions and panics on any
// inconsistency in the declaration. Final states are derived: every state
// that never appears as a source is final.
func MustNewFSM(machineName string, initialState State, events []EventDesc, callbacks Callbacks) *FSM {
	machineName = strings.TrimSpace(machineName)
	initialState = State(strings.TrimSpace(initialState.String()))

	if machineName == "" {
		panic("machine name cannot be empty")
	}

	if initialState == "" {
		panic("initial state cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init fsm with empty events")
	}

	f := &FSM{
		name:         machineName,
		currentState: initialState,
		initialState: initialState,
		transitions:  make(map[trKey]*trEvent),
		finStates:    make(map[State]bool),
		callbacks:    make(map[Event]Callback),
	}

	allEvents := make(map[Event]bool)
	allSources := make(map[State]bool)
	allStates := make(map[State]bool)

	for _, event := range events {
		event.Name = Event(strings.TrimSpace(event.Name.String()))
		event.DstState = State(strings.TrimSpace(event.DstState.String()))

		if event.Name == "" {
			panic("cannot init empty event")
		}

		if event.DstState == "" {
			panic("event dst state cannot be empty")
		}

		if _, ok := allEvents[event.Name]; ok {
			panic(fmt.Sprintf("duplicate event \"%s\"", event.Name))
		}

		allEvents[event.Name] = true
		allStates[event.DstState] = true

		trimmedSourcesCounter := 0

		for _, sourceState := range event.SrcState {
			sourceState := State(strings.TrimSpace(sourceState.String()))

			if sourceState == "" {
				continue
			}

			tKey := trKey{
				sourceState,
				event.Name,
			}

			if _, ok := f.transitions[tKey]; ok {
				panic("duplicate dst for pair `source + event`")
			}

			f.transitions[tKey] = &trEvent{
				tKey.event,
				event.DstState,
				event.IsInternal,
			}

			allSources[sourceState] = true
			allStates[sourceState] = true
			trimmedSourcesCounter++
		}

		if trimmedSourcesCounter == 0 {
			panic("event must have minimum one source available state")
		}
	}

	if len(allStates) < 2 {
		panic("machine must contain at least two states")
	}

	for event, callback := range callbacks {
		if event == "" {
			panic("callback event cannot be empty")
		}

		if _, ok := allEvents[event]; !ok {
			panic(fmt.Sprintf("callback for unknown event \"%s\"", event))
		}

		f.callbacks[event] = callback
	}

	for state := range allStates {
		if _, exists := allSources[state]; !exists {
			f.finStates[state] = true
		}
	}

	if len(f.finStates) == 0 {
		panic("cannot initialize machine without final states")
	}

	return f
}

// Do processes an external event against the current state.
func (f *FSM) Do(event Event, args ...interface{}) (*Response, error) {
	f.eventMu.Lock()
	defer f.eventMu.Unlock()

	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, f.State())
	}
	if trEvent.isInternal {
		return nil, fmt.Errorf("event \"%s\" is internal", event)
	}

	return f.do(trEvent, args...)
}

// DoInternal processes an event regardless of its internal flag. Only the
// machine's own code may call it.
func (f *FSM) DoInternal(event Event, args ...interface{}) (*Response, error) {
	f.eventMu.Lock()
	defer f.eventMu.Unlock()

	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, f.State())
	}

	return f.do(trEvent, args...)
}

func (f *FSM) do(trEvent *trEvent, args ...interface{}) (*Response, error) {
	resp := &Response{
		State: f.State(),
	}

	if callback, ok := f.callbacks[trEvent.event]; ok {
		outEvent, data, err := callback(trEvent.event, args...)
		resp.Data = data
		// Do not change state on a callback error.
		if err != nil {
			return resp, err
		}
		if !outEvent.IsEmpty() && outEvent != trEvent.event {
			if err := f.setState(outEvent); err != nil {
				return resp, err
			}
			resp.State = f.State()
			return resp, nil
		}
	}

	f.stateMu.Lock()
	f.currentState = trEvent.dstState
	f.stateMu.Unlock()

	resp.State = f.State()
	return resp, nil
}

func (f *FSM) setState(event Event) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()

	trEvent, ok := f.transitions[trKey{f.currentState, event}]
	if !ok {
		return fmt.Errorf("cannot change state by event \"%s\"", event)
	}

	f.currentState = trEvent.dstState

	return nil
}

// State returns the current state of the machine.
func (f *FSM) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.currentState
}

// CanDo reports whether event is a legal external transition from the
// current state.
func (f *FSM) CanDo(event Event) bool {
	trEvent, ok := f.transitions[trKey{f.State(), event}]
	return ok && !trEvent.isInternal
}

func (f *FSM) Name() string {
	return f.name
}

func (f *FSM) InitialState() State {
	return f.initialState
}

// IsFinState reports whether the given state is a final state.
func (f *FSM) IsFinState(state State) bool {
	return f.finStates[state]
}
