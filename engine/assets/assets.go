package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/scenebridge/engine/assets/loaders"
	"github.com/spaghettifunk/scenebridge/engine/config"
	"github.com/spaghettifunk/scenebridge/engine/core"
	"github.com/spaghettifunk/scenebridge/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// FnOnChange is called from the watcher goroutine with the path of a
// scene that was created or rewritten.
type FnOnChange func(path string)

/**
 * @brief Indexes the scene files under a directory and, optionally, watches
 * it for changes.
 */
type Library struct {
	dir      string
	ext      string
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader
	onChange FnOnChange

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

/**
 * @brief Creates the library and indexes cfg.Dir if it exists.
 * @param cfg The assets configuration.
 * @param onChange Invoked for every changed scene when cfg.Watch is set. Can be nil.
 */
func NewLibrary(cfg config.AssetsConfig, onChange FnOnChange) (*Library, error) {
	l := &Library{
		dir:      cfg.Dir,
		ext:      strings.ToLower(cfg.Ext),
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	l.registerLoader(metadata.ResourceTypeScene, &loaders.BinaryLoader{})

	if cfg.Watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, errors.Wrap(err, "creating asset watcher")
		}
		l.fsnotify = w
		if err := l.watchRecursive(l.dir, false); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "watching %s", l.dir)
		}
		l.wg.Add(1)
		go l.start()
		core.LogInfo("watching %s for scene changes", l.dir)
		return l, nil
	}

	if l.dir != "" {
		if _, err := os.Stat(l.dir); err == nil {
			if err := l.watchRecursive(l.dir, false); err != nil {
				return nil, errors.Wrapf(err, "indexing %s", l.dir)
			}
		}
	}
	return l, nil
}

// Register loaders for each asset type
func (l *Library) registerLoader(assetType metadata.ResourceType, loader Loader) {
	l.loaders[assetType] = loader
}

/**
 * @brief Loads a scene file. Relative paths that do not exist as given are
 * resolved against the library directory.
 * @returns The resource, or an error wrapping core.ErrNotFound.
 */
func (l *Library) Load(path string) (*metadata.Resource, error) {
	resolved := path
	if !filepath.IsAbs(path) && l.dir != "" {
		if _, err := os.Stat(path); err != nil {
			resolved = filepath.Join(l.dir, path)
		}
	}
	loader := l.loaders[metadata.ResourceTypeScene]
	res, err := loader.Load(resolved, metadata.ResourceTypeScene)
	if err != nil {
		return nil, err
	}

	l.mutex.Lock()
	l.assets[filepath.Clean(resolved)] = AssetInfo{
		Path:       resolved,
		Type:       metadata.ResourceTypeScene,
		LastLoaded: time.Now(),
	}
	l.mutex.Unlock()
	return res, nil
}

func (l *Library) Unload(res *metadata.Resource) error {
	loader, ok := l.loaders[res.Type]
	if !ok {
		return errors.Errorf("no loader registered for asset type %s", res.Type)
	}
	return loader.Unload(res)
}

// Paths lists the indexed scene files in lexical order.
func (l *Library) Paths() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	paths := make([]string, 0, len(l.assets))
	for p := range l.assets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (l *Library) Info(path string) (AssetInfo, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	info, ok := l.assets[filepath.Clean(path)]
	return info, ok
}

// Shutdown stops the watcher, if any. Safe to call more than once.
func (l *Library) Shutdown() error {
	l.mutex.Lock()
	if l.isClosed {
		l.mutex.Unlock()
		return nil
	}
	l.isClosed = true
	l.mutex.Unlock()

	close(l.done)
	l.wg.Wait()
	return nil
}

func (l *Library) start() {
	defer l.wg.Done()
	for {
		select {
		case e, ok := <-l.fsnotify.Events:
			if !ok {
				return
			}
			l.handleEvent(e)

		case err, ok := <-l.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %v", err)

		case <-l.done:
			l.fsnotify.Close()
			return
		}
	}
}

func (l *Library) handleEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := l.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("watching %s: %v", e.Name, err)
			}
		}
		return
	}
	// A removed path can no longer be stat'ed, so it is dropped from the
	// index and the watch list regardless of what it was.
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		l.removeAsset(e.Name)
		_ = l.fsnotify.Remove(e.Name)
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		if l.handleFileEvent(e.Name) && l.onChange != nil {
			l.onChange(e.Name)
		}
	}
}

// watchRecursive indexes every scene file under path and, when a watcher
// is running, adds or removes every directory.
func (l *Library) watchRecursive(path string, unWatch bool) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			l.handleFileEvent(walkPath)
			return nil
		}
		if l.fsnotify == nil {
			return nil
		}
		if unWatch {
			return l.fsnotify.Remove(walkPath)
		}
		return l.fsnotify.Add(walkPath)
	})
}

// handleFileEvent indexes path if it is a scene and reports whether it was.
func (l *Library) handleFileEvent(path string) bool {
	assetType := l.determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.assets[filepath.Clean(path)] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	return true
}

func (l *Library) removeAsset(path string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.assets, filepath.Clean(path))
}

func (l *Library) determineAssetType(path string) metadata.ResourceType {
	if l.ext != "" && strings.ToLower(filepath.Ext(path)) == l.ext {
		return metadata.ResourceTypeScene
	}
	return metadata.ResourceTypeNone
}
