package core

import (
	"sync"

	"github.com/google/uuid"
)

type EventContext struct {
	SceneID uuid.UUID
	Name    string
	Path    string
	Err     error
	Data    struct {
		U32 [4]uint32
		F32 [4]float32
	}
}

// Lifecycle event codes. Hosts should use codes beyond MAX_EVENT_CODE.
type SystemEventCode int

const (
	// A scene finished loading.
	/* Context usage:
	 * SceneID, Name
	 * u32 bones = data.U32[0]; u32 state machines = data.U32[1];
	 */
	EVENT_CODE_SCENE_LOADED SystemEventCode = 0x01

	// A scene produced a new frame.
	/* Context usage:
	 * SceneID
	 * u32 vertices = data.U32[0]; u32 indices = data.U32[1]; u32 objects = data.U32[2];
	 * f32 dt = data.F32[0];
	 */
	EVENT_CODE_SCENE_UPDATED SystemEventCode = 0x02

	// An update failed and the scene kept its previous frame.
	/* Context usage:
	 * SceneID, Err
	 */
	EVENT_CODE_SCENE_UPDATE_FAILED SystemEventCode = 0x03

	// A scene handle was destroyed.
	EVENT_CODE_SCENE_DESTROYED SystemEventCode = 0x04

	// A watched asset changed on disk.
	/* Context usage:
	 * Path
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x05

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

const MAX_MESSAGE_CODES = 16384

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches lifecycle events to registered listeners. Each engine
// owns its own bus so independent engines never observe each other.
type EventBus struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * @brief Register to listen for when events are sent with the provided code. A listener
 * may only be registered once per code.
 * @param code The event code to listen for.
 * @param listener The listener instance. Can be nil.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (b *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range b.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	b.registered[code] = append(b.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * @brief Unregister from listening for when events are sent with the provided code.
 * @returns true if a matching registration was removed; otherwise false.
 */
func (b *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			b.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * @brief Fires an event to listeners of the given code. If a handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (b *EventBus) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	b.mu.RLock()
	events := make([]*registeredEvent, len(b.registered[code]))
	copy(events, b.registered[code])
	b.mu.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (b *EventBus) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = make(map[SystemEventCode][]*registeredEvent)
	return nil
}
