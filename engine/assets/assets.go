package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/modelview/engine/assets/loaders"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager loads files through per-type loaders and, when watching,
// records which known files changed on disk. The watcher goroutine only
// records paths; callers drain them with DrainChanges on their own thread.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader
	changed map[string]struct{}

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	watching bool
	isClosed bool
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		changed: make(map[string]struct{}),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	am.RegisterLoader(metadata.ResourceTypeText, &loaders.TextLoader{})
	am.RegisterLoader(metadata.ResourceTypeShader, &loaders.TextLoader{})
	am.RegisterLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(metadata.ResourceTypeMaterial, &loaders.MaterialLoader{})
	am.RegisterLoader(metadata.ResourceTypeModel, loaders.NewModelLoader())
	return am
}

// RegisterLoader sets the loader for a resource type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Watch starts watching dir and all of its sub-directories for changes.
func (am *AssetManager) Watch(dir string) error {
	if am.isClosed {
		return errors.New("asset manager already shut down")
	}
	if am.fsnotify == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = w
	}
	if err := am.watchRecursive(dir, false); err != nil {
		return err
	}
	if !am.watching {
		am.watching = true
		go am.start()
	}
	core.LogInfo("watching %s for asset changes", dir)
	return nil
}

// Unwatch stops watching dir and its sub-directories.
func (am *AssetManager) Unwatch(dir string) error {
	if am.fsnotify == nil {
		return nil
	}
	return am.watchRecursive(dir, true)
}

// LoadAsset loads the file at path with the loader registered for resourceType.
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	am.mutex.RLock()
	loader, exists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: no loader registered for %s", core.ErrUnknownResource, resourceType)
	}

	res, err := loader.Load(path, resourceType, params)
	if res != nil {
		res.ResourceType = resourceType
		am.mutex.Lock()
		am.assets[Key(path)] = AssetInfo{Path: path, Type: resourceType, LastLoaded: time.Now()}
		am.mutex.Unlock()
	}
	return res, err
}

func (am *AssetManager) UnloadAsset(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	am.mutex.RLock()
	loader, exists := am.loaders[res.ResourceType]
	am.mutex.RUnlock()
	if !exists {
		return fmt.Errorf("%w: no loader registered for %s", core.ErrUnknownResource, res.ResourceType)
	}
	return loader.Unload(res)
}

// Asset returns what is known about a previously loaded file.
func (am *AssetManager) Asset(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[Key(path)]
	return info, ok
}

// DrainChanges returns the absolute paths of loaded files that changed since
// the last call, sorted.
func (am *AssetManager) DrainChanges() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if len(am.changed) == 0 {
		return nil
	}
	paths := make([]string, 0, len(am.changed))
	for p := range am.changed {
		paths = append(paths, p)
	}
	am.changed = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	if am.watching {
		<-am.stopped
		return nil
	}
	if am.fsnotify != nil {
		return am.fsnotify.Close()
	}
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Has(fsnotify.Create) {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("cannot watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Editors often save by writing a new file and renaming it over
			// the old one, which shows up as Create.
			if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
				am.handleFileEvent(e.Name)
			}
			if e.Has(fsnotify.Remove) {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogWarn("closing asset watcher: %s", err)
			}
			return
		}
	}
}

// watchRecursive adds (or removes) every directory under path to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		if unWatch {
			return am.fsnotify.Remove(walkPath)
		}
		return am.fsnotify.Add(walkPath)
	})
}

// handleFileEvent marks a loaded file as changed. Files that were never
// loaded are ignored.
func (am *AssetManager) handleFileEvent(path string) {
	k := Key(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, known := am.assets[k]; !known {
		return
	}
	am.changed[k] = struct{}{}
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, Key(path))
}

// Key normalises a path so the same file loaded through different relative
// paths is tracked once. DrainChanges reports paths in this form.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// ResourceTypeFor guesses the resource type from a file extension.
func ResourceTypeFor(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".frag", ".vs", ".fs", ".glsl":
		return metadata.ResourceTypeShader
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".mtl":
		return metadata.ResourceTypeMaterial
	case ".obj", ".gltf", ".glb":
		return metadata.ResourceTypeModel
	case ".txt", ".toml":
		return metadata.ResourceTypeText
	default:
		return metadata.ResourceTypeBinary
	}
}
