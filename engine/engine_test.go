package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/scenebridge/engine/config"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
	"github.com/spaghettifunk/scenebridge/engine/scene"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Assets.Dir = t.TempDir()
	cfg.Jobs.Workers = 2
	return cfg
}

func newEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e := New(cfg)
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { e.Shutdown() })
	return e
}

func sampleContainer(t *testing.T, w *evaluator.ContainerWriter) []byte {
	t.Helper()
	if w == nil {
		w = evaluator.NewContainerWriter(64, 64)
		root := w.AddBone("root", -1, math.BoneTransform{ScaleX: 1, ScaleY: 1})
		w.AddBone("tail", root, math.BoneTransform{PosX: 4, ScaleX: 1, ScaleY: 1})
		w.AddStateMachine("main", evaluator.InputDesc{Name: "speed", Type: evaluator.InputNumber})
		w.AddAnimation("idle", 1, true)
		w.AddDraw(layout.Draw{World: math.NewMat4Identity(), FillType: uint32(evaluator.FillSolid)},
			[]layout.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
			[]uint32{0, 1, 2})
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestInitializeIsIdempotent(t *testing.T) {
	e := newEngine(t, testConfig(t))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if e.Stage() != EngineStageInitialized {
		t.Errorf("stage = %s", e.Stage())
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if e.Stage() != EngineStageUninitialized {
		t.Errorf("stage after shutdown = %s", e.Stage())
	}
}

func TestNotInitialized(t *testing.T) {
	e := New(testConfig(t))
	if _, err := e.Load("x", nil); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("Load: %v", err)
	}
	if err := e.UpdateAll(0.1); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("UpdateAll: %v", err)
	}
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Jobs.Workers = 0
	e := New(cfg)
	if err := e.Initialize(); err == nil {
		t.Fatal("expected an error")
	}
	if e.Stage() != EngineStageUninitialized {
		t.Errorf("stage = %s", e.Stage())
	}
}

func TestLoadUpdateDestroy(t *testing.T) {
	e := newEngine(t, testConfig(t))

	var loaded, updated, destroyed atomic.Int32
	e.Events().Register(core.EVENT_CODE_SCENE_LOADED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		if ctx.Data.U32[0] == 2 && ctx.Data.U32[1] == 1 {
			loaded.Add(1)
		}
		return false
	})
	e.Events().Register(core.EVENT_CODE_SCENE_UPDATED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		updated.Add(1)
		return false
	})
	e.Events().Register(core.EVENT_CODE_SCENE_DESTROYED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		destroyed.Add(1)
		return false
	})

	s, err := e.Load("fox", sampleContainer(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.RenderObjects()) != 0 {
		t.Errorf("render objects before first update: %d", len(s.RenderObjects()))
	}

	for i := 0; i < 3; i++ {
		if err := e.UpdateAll(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if len(s.RenderObjects()) != 1 || len(s.Indices()) != 3 {
		t.Errorf("objects=%d indices=%d", len(s.RenderObjects()), len(s.Indices()))
	}
	if ok, failed := e.Metrics().Counts(); ok != 3 || failed != 0 {
		t.Errorf("metrics ok=%d failed=%d", ok, failed)
	}
	if e.Metrics().Last().RenderObjects != 1 {
		t.Errorf("last stats = %+v", e.Metrics().Last())
	}

	if err := e.Destroy(s); err != nil {
		t.Fatal(err)
	}
	if s.State() != scene.StateDestroyed || len(e.Scenes()) != 0 {
		t.Errorf("state=%s scenes=%d", s.State(), len(e.Scenes()))
	}
	if err := e.Destroy(s); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second destroy: %v", err)
	}
	if loaded.Load() != 1 || updated.Load() != 3 || destroyed.Load() != 1 {
		t.Errorf("events loaded=%d updated=%d destroyed=%d", loaded.Load(), updated.Load(), destroyed.Load())
	}
}

func TestUpdateAllManyScenes(t *testing.T) {
	e := newEngine(t, testConfig(t))
	data := sampleContainer(t, nil)
	for i := 0; i < 10; i++ {
		if _, err := e.Load("fox", data); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.UpdateAll(0.5); err != nil {
		t.Fatal(err)
	}
	for _, s := range e.Scenes() {
		if s.Frame() != 1 {
			t.Errorf("scene %s frame = %d", s.ID(), s.Frame())
		}
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if len(e.Scenes()) != 0 {
		t.Error("scenes survived shutdown")
	}
}

func TestLoadErrors(t *testing.T) {
	e := newEngine(t, testConfig(t))

	mismatch := evaluator.NewContainerWriter(1, 1).DeclareSize(layout.RecordRenderObject, 300)

	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"garbage", []byte("not a scene"), core.ErrMalformedAsset},
		{"empty", nil, core.ErrMalformedAsset},
		{"mismatch", sampleContainer(t, mismatch), core.ErrLayoutMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Load(tt.name, tt.data)
			var le *core.LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *core.LoadError, got %v", err)
			}
			if le.Kind != tt.kind || !errors.Is(err, tt.kind) {
				t.Errorf("kind = %v, want %v", le.Kind, tt.kind)
			}
		})
	}
	if len(e.Scenes()) != 0 {
		t.Errorf("failed loads left %d scenes", len(e.Scenes()))
	}
}

func TestLoadFile(t *testing.T) {
	cfg := testConfig(t)
	e := newEngine(t, cfg)

	if err := os.WriteFile(filepath.Join(cfg.Assets.Dir, "fox.scn"), sampleContainer(t, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := e.LoadFile("fox.scn")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "fox" {
		t.Errorf("name = %q", s.Name())
	}

	_, err = e.LoadFile("missing.scn")
	var le *core.LoadError
	if !errors.As(err, &le) || le.Kind != core.ErrNotFound || le.Path != "missing.scn" {
		t.Errorf("missing file: %v", err)
	}
}

func TestLoadFileDirectoryIsNotFound(t *testing.T) {
	cfg := testConfig(t)
	e := newEngine(t, cfg)

	dir := filepath.Join(cfg.Assets.Dir, "scene.scn")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := e.LoadFile(dir)
	var le *core.LoadError
	if !errors.As(err, &le) || le.Kind != core.ErrNotFound {
		t.Fatalf("expected a NotFound load error, got %v", err)
	}
}

func TestListenersMayCallEngine(t *testing.T) {
	e := newEngine(t, testConfig(t))

	var seen atomic.Int32
	e.Events().Register(core.EVENT_CODE_SCENE_UPDATED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		seen.Add(int32(len(e.Scenes())))
		return false
	})
	e.Events().Register(core.EVENT_CODE_SCENE_LOADED, t, func(_ core.SystemEventCode, _, _ interface{}, ctx core.EventContext) bool {
		for _, s := range e.Scenes() {
			if s.ID() == ctx.SceneID && ctx.Name == "doomed" {
				if err := e.Destroy(s); err != nil {
					t.Errorf("Destroy from listener: %v", err)
				}
			}
		}
		return false
	})

	data := sampleContainer(t, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := e.Load("fox", data); err != nil {
			t.Error(err)
		}
		if _, err := e.Load("doomed", data); err != nil {
			t.Error(err)
		}
		if err := e.UpdateAll(0.1); err != nil {
			t.Error(err)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine deadlocked on a listener calling back into it")
	}
	if len(e.Scenes()) != 1 {
		t.Errorf("scenes = %d, want 1", len(e.Scenes()))
	}
	if seen.Load() != 1 {
		t.Errorf("updated listener saw %d scenes, want 1", seen.Load())
	}
}

func TestReloadsOnChange(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assets.Watch = true
	e := newEngine(t, cfg)

	path := filepath.Join(cfg.Assets.Dir, "fox.scn")
	if err := os.WriteFile(path, sampleContainer(t, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-e.Reloads():
		if got != path {
			t.Errorf("reload %s, want %s", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification")
	}
}

func TestUpdateAllNegativeDtPanics(t *testing.T) {
	e := newEngine(t, testConfig(t))
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	e.UpdateAll(-1)
}
