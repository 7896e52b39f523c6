package core

import "testing"

func TestEventBusFireStopsWhenHandled(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	first := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, "first")
		return data.Name == "stop"
	}
	second := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, "second")
		return false
	}

	if !bus.Register(EVENT_CODE_SCENE_LOADED, "a", first) {
		t.Fatal("Register(a) = false")
	}
	if !bus.Register(EVENT_CODE_SCENE_LOADED, "b", second) {
		t.Fatal("Register(b) = false")
	}
	if bus.Register(EVENT_CODE_SCENE_LOADED, "a", second) {
		t.Error("duplicate Register(a) = true")
	}

	if bus.Fire(EVENT_CODE_SCENE_LOADED, nil, EventContext{Name: "go"}) {
		t.Error("Fire reported handled")
	}
	if bus.Fire(EVENT_CODE_SCENE_LOADED, nil, EventContext{Name: "stop"}) != true {
		t.Error("Fire did not report handled")
	}
	want := []string{"first", "second", "first"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestEventBusUnregister(t *testing.T) {
	bus := NewEventBus()
	fired := 0
	cb := func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		fired++
		return false
	}
	bus.Register(EVENT_CODE_SCENE_DESTROYED, "x", cb)
	if !bus.Unregister(EVENT_CODE_SCENE_DESTROYED, "x") {
		t.Fatal("Unregister(x) = false")
	}
	if bus.Unregister(EVENT_CODE_SCENE_DESTROYED, "x") {
		t.Error("second Unregister(x) = true")
	}
	bus.Fire(EVENT_CODE_SCENE_DESTROYED, nil, EventContext{})
	if fired != 0 {
		t.Errorf("fired = %d after unregister", fired)
	}
}
