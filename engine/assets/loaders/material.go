package loaders

import (
	"bytes"
	"path/filepath"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
	sceneloaders "github.com/spaghettifunk/modelview/engine/resources/loaders"
)

// MaterialLoader reads a Wavefront MTL library. The resource data is a
// map[string]*resources.Material keyed by material name.
type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	materials := sceneloaders.ParseMaterialLibrary(bytes.NewReader(data))
	return &metadata.Resource{
		ResourceType: assetType,
		Name:         filepath.Base(path),
		FullPath:     path,
		DataSize:     uint64(len(materials)),
		Data:         materials,
	}, nil
}

func (ml *MaterialLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}
