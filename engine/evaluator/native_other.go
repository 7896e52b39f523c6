//go:build !(darwin || linux)

package evaluator

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/core"
)

const NativeBackendName = "native"

// NativeBackend is only available on darwin and linux.
type NativeBackend struct{}

func NewNativeBackend(path string) (*NativeBackend, error) {
	return nil, errors.Wrapf(core.ErrBackendUnavailable, "native evaluator %s: unsupported platform", path)
}

func (b *NativeBackend) Name() string { return NativeBackendName }

func (b *NativeBackend) Open(name string, data []byte) (Evaluator, error) {
	return nil, core.ErrBackendUnavailable
}

func (b *NativeBackend) Close() error { return nil }
