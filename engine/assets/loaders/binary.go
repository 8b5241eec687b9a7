package loaders

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// BinaryLoader reads a file as raw bytes.
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	buf, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		ResourceType: assetType,
		Name:         filepath.Base(path),
		FullPath:     path,
		DataSize:     uint64(len(buf)),
		Data:         buf,
	}, nil
}

func (bl *BinaryLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// readAll returns whatever could be read before an error, so callers that
// tolerate partial content can still use it.
func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
