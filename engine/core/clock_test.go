package core

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	c := NewClock()
	if c.Running() || c.Update() != 0 {
		t.Fatal("new clock should be stopped at zero")
	}

	c.Start()
	time.Sleep(2 * time.Millisecond)
	running := c.Update()
	if running < 2*time.Millisecond || !c.Running() {
		t.Fatalf("Update = %s on a running clock", running)
	}

	stopped := c.Stop()
	if stopped < running || c.Running() {
		t.Fatalf("Stop = %s, want at least %s", stopped, running)
	}
	time.Sleep(time.Millisecond)
	if c.Update() != stopped || c.Elapsed() != stopped {
		t.Errorf("stopped clock moved: %s -> %s", stopped, c.Elapsed())
	}

	c.Start()
	if c.Elapsed() != 0 {
		t.Errorf("Start did not reset: %s", c.Elapsed())
	}
}
