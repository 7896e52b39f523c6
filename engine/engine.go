package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/assets"
	"github.com/spaghettifunk/scenebridge/engine/config"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/evaluator"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/scene"
	"github.com/spaghettifunk/scenebridge/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return "uninitialized"
	}
}

// reloadBacklog bounds the number of undelivered change notifications.
const reloadBacklog = 32

/**
 * @brief Owns the evaluator backend, the worker pool and every live scene.
 * All methods are safe for concurrent use.
 */
type Engine struct {
	config       *config.Config
	currentStage Stage

	backend evaluator.Backend
	jobs    *systems.JobSystem
	library *assets.Library
	events  *core.EventBus
	metrics *core.Metrics
	reloads chan string

	mutex  sync.Mutex
	scenes []*scene.Scene

	pendingMutex sync.Mutex
	pending      []pendingEvent
}

type pendingEvent struct {
	code core.SystemEventCode
	ctx  core.EventContext
}

/**
 * @brief Creates an engine. Nothing is started until Initialize.
 * @param cfg The configuration. nil selects config.Default().
 */
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		config:       cfg,
		currentStage: EngineStageUninitialized,
		events:       core.NewEventBus(),
		metrics:      core.NewMetrics(),
		reloads:      make(chan string, reloadBacklog),
	}
}

/**
 * @brief Validates the configuration, checks the record layout, selects the
 * evaluator backend and starts the worker pool and asset library. Calling it
 * on an initialized engine does nothing.
 */
func (e *Engine) Initialize() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.currentStage == EngineStageInitialized {
		return nil
	}
	e.currentStage = EngineStageInitializing

	if err := e.initialize(); err != nil {
		e.teardown()
		e.currentStage = EngineStageUninitialized
		core.LogError("engine initialization failed: %v", err)
		return err
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with the %s evaluator", e.backend.Name())
	return nil
}

func (e *Engine) initialize() error {
	if err := e.config.Validate(); err != nil {
		return err
	}
	if err := core.LogSetLevel(e.config.Log.Level); err != nil {
		return err
	}
	if err := layout.SelfCheck(); err != nil {
		return err
	}

	switch e.config.Evaluator.Backend {
	case config.BackendNative:
		b, err := evaluator.NewNativeBackend(e.config.Evaluator.LibraryPath)
		if err != nil {
			return err
		}
		e.backend = b
	default:
		e.backend = evaluator.NewContainerBackend()
	}

	jobs, err := systems.NewJobSystem(e.config.Jobs.Workers, e.config.Jobs.Queue)
	if err != nil {
		return err
	}
	e.jobs = jobs

	library, err := assets.NewLibrary(e.config.Assets, e.onAssetChanged)
	if err != nil {
		return err
	}
	e.library = library
	return nil
}

func (e *Engine) onAssetChanged(path string) {
	e.events.Fire(core.EVENT_CODE_ASSET_CHANGED, e, core.EventContext{Path: path})
	select {
	case e.reloads <- path:
	default:
		core.LogWarn("reload backlog full, dropping %s", path)
	}
}

// queue records an event to be fired once the engine mutex is released.
func (e *Engine) queue(code core.SystemEventCode, ctx core.EventContext) {
	e.pendingMutex.Lock()
	e.pending = append(e.pending, pendingEvent{code: code, ctx: ctx})
	e.pendingMutex.Unlock()
}

// unlock releases the engine mutex and then fires the queued events, so
// listeners are free to call back into the engine.
func (e *Engine) unlock() {
	e.pendingMutex.Lock()
	events := e.pending
	e.pending = nil
	e.pendingMutex.Unlock()
	e.mutex.Unlock()

	for _, ev := range events {
		e.events.Fire(ev.code, e, ev.ctx)
	}
}

func (e *Engine) requireInitialized() error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrNotInitialized
	}
	return nil
}

/**
 * @brief Opens a scene from container bytes.
 * @param name Identifies the scene in logs and errors.
 * @param data The compiled container.
 * @returns The loaded scene or a *core.LoadError.
 */
func (e *Engine) Load(name string, data []byte) (*scene.Scene, error) {
	e.mutex.Lock()
	defer e.unlock()

	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.load(name, name, data)
}

/**
 * @brief Reads and opens a scene file. Relative paths fall back to the
 * configured asset directory.
 * @returns The loaded scene or a *core.LoadError of kind core.ErrNotFound
 * when the file does not exist.
 */
func (e *Engine) LoadFile(path string) (*scene.Scene, error) {
	e.mutex.Lock()
	defer e.unlock()

	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	res, err := e.library.Load(path)
	if err != nil {
		return nil, e.loadFailed(path, err)
	}
	defer e.library.Unload(res)
	return e.load(res.Name, path, res.Data)
}

func (e *Engine) load(name, path string, data []byte) (*scene.Scene, error) {
	ev, err := e.backend.Open(name, data)
	if err != nil {
		return nil, e.loadFailed(path, err)
	}
	s, err := scene.Load(ev, name)
	if err != nil {
		return nil, e.loadFailed(path, err)
	}
	e.scenes = append(e.scenes, s)

	ctx := core.EventContext{SceneID: s.ID(), Name: name, Path: path}
	ctx.Data.U32[0] = uint32(s.Skeleton().Len())
	ctx.Data.U32[1] = uint32(len(s.StateMachines()))
	e.queue(core.EVENT_CODE_SCENE_LOADED, ctx)
	return s, nil
}

func (e *Engine) loadFailed(path string, err error) error {
	kind := core.LoadErrorKind(err)
	core.LogError("failed to load scene %s (%v): %v", path, kind, err)
	return core.NewLoadError(kind, path, err)
}

/**
 * @brief Advances every live scene by dt seconds. Scenes are updated in
 * parallel on the worker pool, each by exactly one worker.
 * @returns The failures joined together, each wrapping core.ErrUpdateFailed.
 * Scenes that failed keep their previous frame.
 */
func (e *Engine) UpdateAll(dt float32) error {
	if dt < 0 {
		panic(fmt.Sprintf("engine: negative dt %v", dt))
	}
	e.mutex.Lock()
	defer e.unlock()

	if err := e.requireInitialized(); err != nil {
		return err
	}

	tasks := make([]func() error, len(e.scenes))
	for i, s := range e.scenes {
		tasks[i] = func() error {
			return e.update(s, dt)
		}
	}
	return stderrors.Join(e.jobs.RunAll(context.Background(), tasks)...)
}

func (e *Engine) update(s *scene.Scene, dt float32) error {
	clock := core.NewClock()
	clock.Start()
	ctx := core.EventContext{SceneID: s.ID(), Name: s.Name()}
	ctx.Data.F32[0] = dt

	if err := s.Update(dt); err != nil {
		e.metrics.RecordFailure()
		ctx.Err = err
		e.queue(core.EVENT_CODE_SCENE_UPDATE_FAILED, ctx)
		return err
	}

	stats := core.FrameStats{
		Duration:      clock.Stop(),
		VertexCount:   len(s.Vertices()) / layout.VertexStride,
		IndexCount:    len(s.Indices()),
		RenderObjects: len(s.RenderObjects()),
	}
	e.metrics.Record(stats)

	ctx.Data.U32[0] = uint32(stats.VertexCount)
	ctx.Data.U32[1] = uint32(stats.IndexCount)
	ctx.Data.U32[2] = uint32(stats.RenderObjects)
	e.queue(core.EVENT_CODE_SCENE_UPDATED, ctx)
	return nil
}

/**
 * @brief Destroys a scene loaded by this engine.
 */
func (e *Engine) Destroy(s *scene.Scene) error {
	e.mutex.Lock()
	defer e.unlock()

	if err := e.requireInitialized(); err != nil {
		return err
	}
	for i, live := range e.scenes {
		if live == s {
			e.scenes = append(e.scenes[:i:i], e.scenes[i+1:]...)
			return e.destroy(s)
		}
	}
	return errors.Wrapf(core.ErrNotFound, "scene %s is not owned by this engine", s.ID())
}

func (e *Engine) destroy(s *scene.Scene) error {
	ctx := core.EventContext{SceneID: s.ID(), Name: s.Name()}
	err := s.Destroy()
	ctx.Err = err
	e.queue(core.EVENT_CODE_SCENE_DESTROYED, ctx)
	return err
}

// Scenes returns the live scenes in load order.
func (e *Engine) Scenes() []*scene.Scene {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return append([]*scene.Scene(nil), e.scenes...)
}

func (e *Engine) Stage() Stage {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.currentStage
}

func (e *Engine) Config() *config.Config { return e.config }

// Events returns the engine's bus. Lifecycle events fire after the engine
// has released its lock, so listeners may call any engine method.
func (e *Engine) Events() *core.EventBus { return e.events }

func (e *Engine) Metrics() *core.Metrics { return e.metrics }

// Reloads delivers the paths of scene files changed on disk while
// assets.watch is enabled. Undelivered paths beyond a small backlog are dropped.
func (e *Engine) Reloads() <-chan string { return e.reloads }

/**
 * @brief Destroys every live scene and stops the subsystems. Calling it on
 * an engine that is not initialized does nothing.
 */
func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	defer e.unlock()

	if e.currentStage != EngineStageInitialized {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	for _, s := range e.scenes {
		if err := e.destroy(s); err != nil {
			errs = append(errs, err)
		}
	}
	e.scenes = nil
	errs = append(errs, e.teardown())

	e.currentStage = EngineStageUninitialized
	core.LogInfo("engine shut down")
	return stderrors.Join(errs...)
}

// teardown stops whichever subsystems were started.
func (e *Engine) teardown() error {
	var errs []error
	if e.library != nil {
		errs = append(errs, e.library.Shutdown())
		e.library = nil
	}
	if e.jobs != nil {
		errs = append(errs, e.jobs.Shutdown())
		e.jobs = nil
	}
	if e.backend != nil {
		errs = append(errs, e.backend.Close())
		e.backend = nil
	}
	return stderrors.Join(errs...)
}
