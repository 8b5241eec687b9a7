package loaders

import (
	"path/filepath"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	"github.com/spaghettifunk/modelview/engine/resources"
	sceneloaders "github.com/spaghettifunk/modelview/engine/resources/loaders"
)

/** @brief Parameters used when loading a model. */
type ModelResourceParams struct {
	/** @brief Post-processing applied after import. Zero means resources.DefaultPostProcess. */
	PostProcess resources.PostProcess
}

// ModelLoader imports a scene through the importer registry. The resource
// data is a *resources.Scene.
type ModelLoader struct {
	registry *sceneloaders.Registry
}

func NewModelLoader() *ModelLoader {
	return &ModelLoader{registry: sceneloaders.DefaultRegistry()}
}

// Registry exposes the importers so callers can add formats.
func (ml *ModelLoader) Registry() *sceneloaders.Registry {
	return ml.registry
}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	steps := resources.DefaultPostProcess
	if p, ok := params.(*ModelResourceParams); ok && p != nil && p.PostProcess != 0 {
		steps = p.PostProcess
	}
	scene, err := ml.registry.ReadFile(path, steps)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		ResourceType: assetType,
		Name:         filepath.Base(path),
		FullPath:     path,
		DataSize:     uint64(len(scene.Meshes)),
		Data:         scene,
	}, nil
}

func (ml *ModelLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}
