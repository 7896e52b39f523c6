//go:build darwin || linux

package evaluator

import (
	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/layout"
	"github.com/spaghettifunk/scenebridge/engine/math"
)

const NativeBackendName = "native"

/**
 * @brief Evaluates scenes through a shared library exporting:
 *
 *	void*    sb_open(const uint8_t* data, uint64_t size);  // NULL on failure
 *	void     sb_close(void* scene);
 *	int32_t  sb_advance(void* scene, float dt);            // 0 on success
 *	uint64_t sb_describe(void* scene, uint8_t* out, uint64_t cap);
 *	uint64_t sb_frame(void* scene, uint8_t* out, uint64_t cap);
 *
 * sb_describe writes a scene container without geometry and sb_frame writes
 * a frame in the EncodeFrame format. Both return the number of bytes
 * required and only write when cap is large enough; 0 signals failure.
 */
type NativeBackend struct {
	path string
	lib  uintptr

	open     func(data *byte, size uint64) uintptr
	close    func(scene uintptr)
	advance  func(scene uintptr, dt float32) int32
	describe func(scene uintptr, out *byte, cap uint64) uint64
	frame    func(scene uintptr, out *byte, cap uint64) uint64
}

/**
 * @brief Loads the evaluator library at path and binds its entry points.
 * @returns The backend, or an error wrapping core.ErrBackendUnavailable.
 */
func NewNativeBackend(path string) (*NativeBackend, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Wrapf(core.ErrBackendUnavailable, "dlopen %s: %v", path, err)
	}
	b := &NativeBackend{path: path, lib: lib}
	binds := []struct {
		name string
		fptr interface{}
	}{
		{"sb_open", &b.open},
		{"sb_close", &b.close},
		{"sb_advance", &b.advance},
		{"sb_describe", &b.describe},
		{"sb_frame", &b.frame},
	}
	for _, bind := range binds {
		sym, err := purego.Dlsym(lib, bind.name)
		if err != nil {
			_ = purego.Dlclose(lib)
			return nil, errors.Wrapf(core.ErrBackendUnavailable, "%s: missing symbol %s: %v", path, bind.name, err)
		}
		purego.RegisterFunc(bind.fptr, sym)
	}
	core.LogInfo("native evaluator loaded from %s", path)
	return b, nil
}

func (b *NativeBackend) Name() string { return NativeBackendName }

func (b *NativeBackend) Open(name string, data []byte) (Evaluator, error) {
	if len(data) == 0 {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "%s is empty", name)
	}
	h := b.open(&data[0], uint64(len(data)))
	if h == 0 {
		return nil, errors.Wrapf(core.ErrMalformedAsset, "native evaluator rejected %s", name)
	}
	desc, err := readBlob(b.describe, h, nil)
	if err != nil {
		b.close(h)
		return nil, errors.Wrapf(core.ErrMalformedAsset, "describing %s: %v", name, err)
	}
	c, err := parseContainer(desc)
	if err != nil {
		b.close(h)
		return nil, errors.Wrapf(err, "describing %s", name)
	}
	return &nativeEvaluator{backend: b, handle: h, c: c}, nil
}

func (b *NativeBackend) Close() error {
	if b.lib == 0 {
		return nil
	}
	err := purego.Dlclose(b.lib)
	b.lib = 0
	return err
}

func readBlob(fn func(uintptr, *byte, uint64) uint64, h uintptr, buf []byte) ([]byte, error) {
	need := fn(h, nil, 0)
	if need == 0 {
		return nil, errors.New("evaluator reported no output")
	}
	if uint64(cap(buf)) < need {
		buf = make([]byte, need)
	}
	buf = buf[:need]
	if got := fn(h, &buf[0], need); got != need {
		return nil, errors.Errorf("evaluator wrote %d bytes, announced %d", got, need)
	}
	return buf, nil
}

type nativeEvaluator struct {
	backend *NativeBackend
	handle  uintptr
	c       *container
	buf     []byte
}

func (e *nativeEvaluator) Sizes() layout.Sizes               { return e.c.sizes }
func (e *nativeEvaluator) Bounds() math.AABB                 { return e.c.bounds }
func (e *nativeEvaluator) Bones() []BoneDesc                 { return e.c.bones }
func (e *nativeEvaluator) StateMachines() []StateMachineDesc { return e.c.machines }

func (e *nativeEvaluator) Animations() []string {
	names := make([]string, len(e.c.animations))
	for i, a := range e.c.animations {
		names[i] = a.name
	}
	return names
}

func (e *nativeEvaluator) Advance(dt float32) error {
	if e.handle == 0 {
		return errors.New("advance on a closed evaluator")
	}
	if rc := e.backend.advance(e.handle, dt); rc != 0 {
		return errors.Errorf("sb_advance returned %d", rc)
	}
	return nil
}

func (e *nativeEvaluator) Draw() (*Frame, error) {
	if e.handle == 0 {
		return nil, errors.New("draw on a closed evaluator")
	}
	blob, err := readBlob(e.backend.frame, e.handle, e.buf)
	if err != nil {
		return nil, err
	}
	e.buf = blob
	return DecodeFrame(blob)
}

func (e *nativeEvaluator) Close() error {
	if e.handle != 0 {
		e.backend.close(e.handle)
		e.handle = 0
	}
	return nil
}
