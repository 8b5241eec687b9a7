package core

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine/containers"
)

type EventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = iota + 1
	// Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED
	// Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED
	// Data: *MouseEvent (Button)
	EVENT_CODE_BUTTON_PRESSED
	// Data: *MouseEvent (Button)
	EVENT_CODE_BUTTON_RELEASED
	// Data: *MouseEvent (PosX, PosY)
	EVENT_CODE_MOUSE_MOVED
	// Data: *MouseEvent (Scroll)
	EVENT_CODE_MOUSE_WHEEL
	// Data: *SystemEvent (WindowWidth, WindowHeight)
	EVENT_CODE_RESIZED
	// Data: *AssetEvent
	EVENT_CODE_ASSET_CHANGED

	MAX_EVENT_CODE
)

// Number of events that can wait for the next EventProcess call.
const EVENT_QUEUE_CAPACITY = 1024

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path string
}

// Should return true if handled.
type FnOnEvent func(ctx EventContext) bool

type eventSystemState struct {
	registered [MAX_EVENT_CODE][]FnOnEvent
	queue      *containers.RingQueue[EventContext]
}

var eventState *eventSystemState

func EventInitialize() error {
	if eventState != nil {
		return nil
	}
	eventState = &eventSystemState{
		queue: containers.NewRingQueue[EventContext](EVENT_QUEUE_CAPACITY),
	}
	return nil
}

// EventShutdown drops every listener and every pending event.
func EventShutdown() error {
	eventState = nil
	return nil
}

/**
 * @brief Register to listen for when events are sent with the provided code.
 * Listeners are invoked in registration order.
 * @param code The event code to listen for.
 * @param onEvent The callback to be invoked when the event is processed.
 */
func EventRegister(code EventCode, onEvent FnOnEvent) error {
	if eventState == nil {
		return fmt.Errorf("event system is not initialized")
	}
	if code <= 0 || code >= MAX_EVENT_CODE {
		return fmt.Errorf("invalid event code %d", code)
	}
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	return nil
}

/**
 * @brief Queues an event. It is delivered on the next EventProcess call.
 * Safe only on the main thread; other goroutines hand work to the main loop instead.
 */
func EventFire(ctx EventContext) error {
	if eventState == nil {
		return nil
	}
	if err := eventState.queue.Enqueue(ctx); err != nil {
		LogWarn("dropping event %d: %s", ctx.Type, err)
		return err
	}
	return nil
}

/**
 * @brief Delivers every queued event to its listeners. If a listener returns
 * true the event is considered handled and is not passed on.
 */
func EventProcess() {
	if eventState == nil {
		return
	}
	for !eventState.queue.IsEmpty() {
		ctx, err := eventState.queue.Dequeue()
		if err != nil {
			return
		}
		if ctx.Type <= 0 || ctx.Type >= MAX_EVENT_CODE {
			continue
		}
		for _, fn := range eventState.registered[ctx.Type] {
			if fn(ctx) {
				break
			}
		}
	}
}
