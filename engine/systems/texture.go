package systems

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

type TextureSystem struct {
	Config *TextureSystemConfig
	// Live textures by GPU handle.
	RegisteredTextures map[uint32]*metadata.Texture
	// sub systems
	assetManager *assets.AssetManager
	backend      renderer.Backend
}

func NewTextureSystem(config *TextureSystemConfig, am *assets.AssetManager, backend renderer.Backend) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:             config,
		RegisteredTextures: make(map[uint32]*metadata.Texture),
		assetManager:       am,
		backend:            backend,
	}, nil
}

// Load allocates a texture and fills it from the image at path, or from
// source when the image is embedded in a model file. The texture is returned
// with a reference count of one even when decoding fails; in that case it
// stays allocated but unpopulated and the error says why.
func (ts *TextureSystem) Load(path string, source []byte, gammaCorrection bool) (*metadata.Texture, error) {
	if uint32(len(ts.RegisteredTextures)) >= ts.Config.MaxTextureCount {
		return nil, fmt.Errorf("texture limit of %d reached, cannot load %s", ts.Config.MaxTextureCount, path)
	}

	id := ts.backend.TextureCreate()
	texture := &metadata.Texture{
		ID:   id,
		Path: path,
		Reference: &metadata.TextureReference{
			ReferenceCount: 1,
			Handle:         id,
			AutoRelease:    true,
		},
	}
	ts.RegisteredTextures[id] = texture

	res, err := ts.assetManager.LoadAsset(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{
		FlipY:  false,
		Source: source,
	})
	if err != nil {
		core.LogError("texture failed to load at path: %s", path)
		return texture, err
	}
	defer func() {
		if err := ts.assetManager.UnloadAsset(res); err != nil {
			core.LogWarn("unloading image %s: %s", path, err)
		}
	}()

	data, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return texture, fmt.Errorf("%w: %s produced no pixel data", core.ErrImageDecode, path)
	}
	texture.Width = data.Width
	texture.Height = data.Height
	texture.ChannelCount = data.ChannelCount

	internal, format, ok := metadata.TextureFormatsForChannels(data.ChannelCount, gammaCorrection)
	if !ok {
		return texture, fmt.Errorf("%w: %d channels in %s", core.ErrUnsupportedChannels, data.ChannelCount, path)
	}
	ts.backend.TextureUpload(id, &metadata.TextureConfig{
		Width:          data.Width,
		Height:         data.Height,
		InternalFormat: internal,
		Format:         format,
		Pixels:         data.Pixels,
		Sampler:        metadata.DefaultTextureSampler(),
	})
	texture.Generation++
	return texture, nil
}

// Acquire adds a user to a shared texture.
func (ts *TextureSystem) Acquire(texture *metadata.Texture) {
	if texture == nil || texture.Reference == nil {
		return
	}
	texture.Reference.ReferenceCount++
}

// Release removes a user. Auto-release textures are destroyed when the last
// user goes away; the return value reports whether that happened.
func (ts *TextureSystem) Release(texture *metadata.Texture) bool {
	if texture == nil || texture.Reference == nil {
		return false
	}
	ref := texture.Reference
	if ref.ReferenceCount == 0 {
		core.LogWarn("texture %d (%s) released more often than acquired", ref.Handle, texture.Path)
		return false
	}
	ref.ReferenceCount--
	if ref.ReferenceCount > 0 || !ref.AutoRelease {
		return false
	}
	ts.destroy(ref.Handle)
	return true
}

// Bind makes texture current on the given unit.
func (ts *TextureSystem) Bind(unit uint32, texture *metadata.Texture) {
	ts.backend.TextureActivate(unit)
	ts.backend.TextureBind(texture.ID)
}

func (ts *TextureSystem) Count() int {
	return len(ts.RegisteredTextures)
}

func (ts *TextureSystem) destroy(handle uint32) {
	if _, ok := ts.RegisteredTextures[handle]; !ok {
		return
	}
	ts.backend.TextureDestroy(handle)
	delete(ts.RegisteredTextures, handle)
	core.LogDebug("texture %d destroyed", handle)
}

func (ts *TextureSystem) Shutdown() error {
	// Destroy all loaded textures.
	for handle, texture := range ts.RegisteredTextures {
		if texture.Reference != nil {
			texture.Reference.ReferenceCount = 0
		}
		ts.destroy(handle)
	}
	return nil
}
