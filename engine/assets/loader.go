package assets

import "github.com/spaghettifunk/modelview/engine/renderer/metadata"

type Loader interface {
	// params is loader specific, e.g. *metadata.ImageResourceParams for images.
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
