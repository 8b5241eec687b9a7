package loaders

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// TextLoader reads a file as a string. Used for GLSL sources.
type TextLoader struct{}

// Load never returns a nil resource. On a read error the resource holds
// whatever was read (possibly nothing) and the error wraps core.ErrShaderRead
// for shaders.
func (tl *TextLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := readAll(path)
	res := &metadata.Resource{
		ResourceType: assetType,
		Name:         filepath.Base(path),
		FullPath:     path,
		DataSize:     uint64(len(data)),
		Data:         string(data),
	}
	if err != nil {
		if assetType == metadata.ResourceTypeShader {
			return res, fmt.Errorf("%w: %s: %s", core.ErrShaderRead, path, err)
		}
		return res, err
	}
	return res, nil
}

func (tl *TextLoader) Unload(res *metadata.Resource) error {
	res.Data = ""
	res.DataSize = 0
	return nil
}
