package systems

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestNewJobSystemRejectsBadSizes(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Errorf("expected ErrNoWorkers, got %v", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Errorf("expected ErrNegativeChannelSize, got %v", err)
	}
}

func TestJobCallbacks(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatal(err)
	}

	var completed, failed, finished atomic.Int32
	boom := errors.New("boom")
	for i := 0; i < 10; i++ {
		fail := i%2 == 0
		err := js.Submit(context.Background(), JobTask{
			OnStart: func() error {
				if fail {
					return boom
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure: func(err error) {
				if errors.Is(err, boom) {
					failed.Add(1)
				}
			},
			OnCompletionCallback: func() { finished.Add(1) },
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}

	if completed.Load() != 5 || failed.Load() != 5 || finished.Load() != 10 {
		t.Errorf("completed=%d failed=%d finished=%d", completed.Load(), failed.Load(), finished.Load())
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, _ := NewJobSystem(1, 0)
	js.Shutdown()
	js.Shutdown()

	err := js.Submit(context.Background(), JobTask{OnStart: func() error { return nil }})
	if !errors.Is(err, ErrJobSystemClosed) {
		t.Fatalf("expected ErrJobSystemClosed, got %v", err)
	}
}

func TestSubmitCancelled(t *testing.T) {
	js, _ := NewJobSystem(1, 0)
	defer js.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	js.Submit(context.Background(), JobTask{OnStart: func() error {
		close(started)
		<-block
		return nil
	}})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := js.Submit(ctx, JobTask{OnStart: func() error { return nil }})
	close(block)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunAll(t *testing.T) {
	js, _ := NewJobSystem(3, 2)
	defer js.Shutdown()

	var sum atomic.Int32
	boom := errors.New("boom")
	tasks := make([]func() error, 8)
	for i := range tasks {
		tasks[i] = func() error {
			sum.Add(int32(i))
			if i == 5 {
				return boom
			}
			return nil
		}
	}

	errs := js.RunAll(context.Background(), tasks)
	if sum.Load() != 28 {
		t.Errorf("sum = %d, want 28", sum.Load())
	}
	for i, err := range errs {
		if (i == 5) != errors.Is(err, boom) {
			t.Errorf("errs[%d] = %v", i, err)
		}
	}
}
