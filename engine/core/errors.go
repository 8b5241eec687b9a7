package core

import (
	"errors"
)

var (
	ErrSceneImport         = errors.New("scene import failed")
	ErrSceneIncomplete     = errors.New("scene is incomplete")
	ErrNoImporter          = errors.New("no importer registered for file extension")
	ErrImageDecode         = errors.New("image decode failed")
	ErrUnsupportedChannels = errors.New("unsupported image channel count")
	ErrShaderRead          = errors.New("shader source not successfully read")
	ErrShaderCompile       = errors.New("shader compilation failed")
	ErrProgramLink         = errors.New("shader program linking failed")
	ErrUnknownResource     = errors.New("unknown resource type")
)
