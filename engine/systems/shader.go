package systems

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// Shader is a linked program built from a vertex and a fragment source file.
// Uniform names are resolved on every call; names the program does not use
// resolve to -1 and the call does nothing.
type Shader struct {
	/** @brief The program handle. */
	ID uint32
	/** @brief Unique identifier used in logs. */
	Identifier   string
	Name         string
	VertexPath   string
	FragmentPath string
	State        metadata.ShaderState

	backend renderer.Backend
}

// NewShader reads, compiles and links the two stages. It never fails outright:
// read, compile and link problems are logged and collected in the returned
// diagnostics, and the program handle is left in whatever state the graphics
// context reports.
func NewShader(backend renderer.Backend, am *assets.AssetManager, vertexPath, fragmentPath string) (*Shader, *core.Diagnostics) {
	diag := core.NewDiagnostics()
	s := &Shader{
		Identifier:   core.NewIdentifier("shader"),
		VertexPath:   vertexPath,
		FragmentPath: fragmentPath,
		State:        metadata.SHADER_STATE_NOT_CREATED,
		backend:      backend,
	}

	vertexCode := readShaderSource(am, vertexPath, diag)
	fragmentCode := readShaderSource(am, fragmentPath, diag)

	vertex := s.compile(metadata.ShaderStageVertex, vertexCode, diag)
	fragment := s.compile(metadata.ShaderStageFragment, fragmentCode, diag)

	s.ID = backend.ProgramCreate()
	backend.ProgramAttach(s.ID, vertex)
	backend.ProgramAttach(s.ID, fragment)
	linked, infoLog := backend.ProgramLink(s.ID)
	if !linked {
		diag.Fail("link", "PROGRAM", fmt.Errorf("%w: %s", core.ErrProgramLink, metadata.TruncateInfoLog(infoLog)))
	}

	// The stages are part of the program now.
	backend.ShaderDestroy(vertex)
	backend.ShaderDestroy(fragment)

	if linked {
		s.State = metadata.SHADER_STATE_INITIALIZED
		core.LogDebug("shader %s linked (%s, %s)", core.ShortIdentifier(s.Identifier), vertexPath, fragmentPath)
	} else {
		s.State = metadata.SHADER_STATE_FAILED
	}
	return s, diag
}

func readShaderSource(am *assets.AssetManager, path string, diag *core.Diagnostics) string {
	res, err := am.LoadAsset(path, metadata.ResourceTypeShader, nil)
	if err != nil {
		diag.Degrade("read", path, err)
	}
	if res == nil {
		return ""
	}
	source, _ := res.Data.(string)
	return source
}

func (s *Shader) compile(stage metadata.ShaderStage, source string, diag *core.Diagnostics) uint32 {
	id := s.backend.ShaderCreate(stage, source)
	ok, infoLog := s.backend.ShaderCompile(id)
	if !ok {
		diag.Fail("compile", stage.String(), fmt.Errorf("%w: %s", core.ErrShaderCompile, metadata.TruncateInfoLog(infoLog)))
	}
	return id
}

// Linked reports whether the program can be used for drawing.
func (s *Shader) Linked() bool {
	return s.State == metadata.SHADER_STATE_INITIALIZED
}

// Use makes the program current.
func (s *Shader) Use() {
	s.backend.ProgramUse(s.ID)
}

// Destroy deletes the program.
func (s *Shader) Destroy() {
	if s.State == metadata.SHADER_STATE_DESTROYED {
		return
	}
	s.backend.ProgramDestroy(s.ID)
	s.State = metadata.SHADER_STATE_DESTROYED
}

func (s *Shader) location(name string) int32 {
	return s.backend.UniformLocation(s.ID, name)
}

func (s *Shader) SetBool(name string, value bool) {
	v := int32(0)
	if value {
		v = 1
	}
	s.backend.Uniform1i(s.location(name), v)
}

func (s *Shader) SetInt(name string, value int32) {
	s.backend.Uniform1i(s.location(name), value)
}

func (s *Shader) SetFloat(name string, value float32) {
	s.backend.Uniform1f(s.location(name), value)
}

func (s *Shader) SetVec2(name string, value mgl32.Vec2) {
	s.backend.Uniform2f(s.location(name), value.X(), value.Y())
}

func (s *Shader) SetVec2f(name string, x, y float32) {
	s.backend.Uniform2f(s.location(name), x, y)
}

func (s *Shader) SetVec3(name string, value mgl32.Vec3) {
	s.backend.Uniform3f(s.location(name), value.X(), value.Y(), value.Z())
}

func (s *Shader) SetVec3f(name string, x, y, z float32) {
	s.backend.Uniform3f(s.location(name), x, y, z)
}

func (s *Shader) SetVec4(name string, value mgl32.Vec4) {
	s.backend.Uniform4f(s.location(name), value.X(), value.Y(), value.Z(), value.W())
}

func (s *Shader) SetVec4f(name string, x, y, z, w float32) {
	s.backend.Uniform4f(s.location(name), x, y, z, w)
}

func (s *Shader) SetMat2(name string, value mgl32.Mat2) {
	s.backend.UniformMatrix2f(s.location(name), value)
}

func (s *Shader) SetMat3(name string, value mgl32.Mat3) {
	s.backend.UniformMatrix3f(s.location(name), value)
}

func (s *Shader) SetMat4(name string, value mgl32.Mat4) {
	s.backend.UniformMatrix4f(s.location(name), value)
}

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

// ShaderSystem owns named shaders and rebuilds them when their sources change.
type ShaderSystem struct {
	Config *ShaderSystemConfig
	// A lookup table for shader name -> shader.
	Lookup map[string]*Shader
	// The program handle of the currently bound shader.
	CurrentShaderID uint32
	// sub systems
	assetManager *assets.AssetManager
	backend      renderer.Backend
}

func NewShaderSystem(config *ShaderSystemConfig, am *assets.AssetManager, backend renderer.Backend) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:       config,
		Lookup:       make(map[string]*Shader),
		assetManager: am,
		backend:      backend,
	}, nil
}

// Create builds a shader and registers it under config.Name, replacing and
// destroying any shader previously registered with that name.
func (ss *ShaderSystem) Create(config *metadata.ShaderConfig) (*Shader, *core.Diagnostics) {
	if _, exists := ss.Lookup[config.Name]; !exists && len(ss.Lookup) >= int(ss.Config.MaxShaderCount) {
		diag := core.NewDiagnostics()
		diag.Fail("create", config.Name, fmt.Errorf("shader limit of %d reached", ss.Config.MaxShaderCount))
		return nil, diag
	}
	s, diag := NewShader(ss.backend, ss.assetManager, config.VertexPath, config.FragmentPath)
	s.Name = config.Name
	if old, exists := ss.Lookup[config.Name]; exists {
		old.Destroy()
	}
	ss.Lookup[config.Name] = s
	return s, diag
}

func (ss *ShaderSystem) Get(name string) (*Shader, bool) {
	s, ok := ss.Lookup[name]
	return s, ok
}

// Use makes the named shader current.
func (ss *ShaderSystem) Use(name string) (*Shader, error) {
	s, ok := ss.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("shader %q is not registered", name)
	}
	s.Use()
	ss.CurrentShaderID = s.ID
	return s, nil
}

// Reload rebuilds the named shader from its sources. The running program is
// replaced only if the new one links; the *Shader held by callers stays valid
// either way.
func (ss *ShaderSystem) Reload(name string) (*core.Diagnostics, error) {
	s, ok := ss.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("shader %q is not registered", name)
	}
	fresh, diag := NewShader(ss.backend, ss.assetManager, s.VertexPath, s.FragmentPath)
	if !fresh.Linked() {
		core.LogWarn("shader %q failed to rebuild, keeping the previous program", name)
		fresh.Destroy()
		return diag, nil
	}
	wasCurrent := ss.CurrentShaderID == s.ID
	s.Destroy()
	fresh.Name = s.Name
	*s = *fresh
	if wasCurrent {
		s.Use()
		ss.CurrentShaderID = s.ID
	}
	core.LogInfo("shader %q reloaded", name)
	return diag, nil
}

// ReloadByPath reloads every shader using one of the changed files and
// returns the names of those that were rebuilt.
func (ss *ShaderSystem) ReloadByPath(changed []string) []string {
	set := make(map[string]struct{}, len(changed))
	for _, p := range changed {
		set[assets.Key(p)] = struct{}{}
	}
	var reloaded []string
	for name, s := range ss.Lookup {
		_, vs := set[assets.Key(s.VertexPath)]
		_, fs := set[assets.Key(s.FragmentPath)]
		if !vs && !fs {
			continue
		}
		diag, err := ss.Reload(name)
		if err != nil {
			core.LogError(err.Error())
			continue
		}
		if diag.Status() != core.StatusFailed {
			reloaded = append(reloaded, name)
		}
	}
	sort.Strings(reloaded)
	return reloaded
}

func (ss *ShaderSystem) Shutdown() error {
	for name, s := range ss.Lookup {
		s.Destroy()
		delete(ss.Lookup, name)
	}
	ss.CurrentShaderID = 0
	return nil
}
