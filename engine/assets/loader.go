package assets

import "github.com/spaghettifunk/scenebridge/engine/renderer/metadata"

type Loader interface {
	Load(path string, assetType metadata.ResourceType) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
