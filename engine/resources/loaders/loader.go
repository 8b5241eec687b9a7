package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/resources"
)

/** @brief A scene importer for one or more file formats. */
type Importer interface {
	// Extensions lists the lower case file extensions handled, with the dot.
	Extensions() []string
	Import(path string) (*resources.Scene, error)
}

/**
 * @brief Picks the importer for a file by its extension and applies
 * the requested post-processing.
 */
type Registry struct {
	importers map[string]Importer
}

func NewRegistry(importers ...Importer) *Registry {
	r := &Registry{importers: map[string]Importer{}}
	for _, imp := range importers {
		r.Register(imp)
	}
	return r
}

// DefaultRegistry knows glTF 2.0 and Wavefront OBJ.
func DefaultRegistry() *Registry {
	return NewRegistry(NewGLTFImporter(), NewOBJImporter())
}

// Register adds an importer, replacing any previous one for the same extensions.
func (r *Registry) Register(imp Importer) {
	for _, ext := range imp.Extensions() {
		r.importers[strings.ToLower(ext)] = imp
	}
}

func (r *Registry) Supports(path string) bool {
	_, ok := r.importers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadFile imports path and post-processes the scene. A scene that imported
// but cannot be rendered is returned with SceneFlagsIncomplete set.
func (r *Registry) ReadFile(path string, steps resources.PostProcess) (*resources.Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))
	imp, ok := r.importers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrNoImporter, ext)
	}
	scene, err := imp.Import(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrSceneImport, err)
	}
	if scene == nil {
		return nil, fmt.Errorf("%w: importer returned no scene", core.ErrSceneImport)
	}
	resources.ApplyPostProcess(scene, steps)
	core.LogDebug("imported %s: %d meshes, %d materials, %d embedded textures",
		path, len(scene.Meshes), len(scene.Materials), len(scene.Textures))
	return scene, nil
}
