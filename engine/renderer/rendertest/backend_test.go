package rendertest

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

const vertexSource = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 model;
uniform mat4 view;
void main() { gl_Position = view * model * vec4(aPos, 1.0); }
`

func TestLinkAssignsUniformLocations(t *testing.T) {
	b := New()
	vs := b.ShaderCreate(metadata.ShaderStageVertex, vertexSource)
	if ok, log := b.ShaderCompile(vs); !ok {
		t.Fatalf("compile failed: %s", log)
	}
	prog := b.ProgramCreate()
	b.ProgramAttach(prog, vs)
	if ok, log := b.ProgramLink(prog); !ok {
		t.Fatalf("link failed: %s", log)
	}

	if loc := b.UniformLocation(prog, "view"); loc != 1 {
		t.Errorf("view location = %d, want 1", loc)
	}
	if loc := b.UniformLocation(prog, "missing"); loc != -1 {
		t.Errorf("missing location = %d, want -1", loc)
	}

	b.ProgramUse(prog)
	b.UniformMatrix4f(b.UniformLocation(prog, "model"), mgl32.Ident4())
	b.Uniform1f(-1, 3)

	if v, ok := b.UniformValue(prog, "model"); !ok || v.(mgl32.Mat4) != mgl32.Ident4() {
		t.Errorf("model uniform = %v, %v", v, ok)
	}
	if b.IgnoredUniforms != 1 {
		t.Errorf("IgnoredUniforms = %d, want 1", b.IgnoredUniforms)
	}
}

func TestLinkFailsWhenAStageFailed(t *testing.T) {
	b := New()
	vs := b.ShaderCreate(metadata.ShaderStageVertex, "")
	if ok, _ := b.ShaderCompile(vs); ok {
		t.Fatal("empty source should not compile")
	}
	prog := b.ProgramCreate()
	b.ProgramAttach(prog, vs)
	if ok, log := b.ProgramLink(prog); ok || log == "" {
		t.Errorf("link should fail with a log, got ok=%v log=%q", ok, log)
	}
}
