package metadata

import "fmt"

/** @brief Size of the buffer used to fetch compile and link logs. */
const ShaderInfoLogSize = 1024

/**
 * @brief Represents the current state of a given shader.
 */
type ShaderState int

const (
	/** @brief The shader has not yet gone through the creation process, and is unusable.*/
	SHADER_STATE_NOT_CREATED ShaderState = iota
	/** @brief Compilation or linking failed. The program handle exists but is unusable.*/
	SHADER_STATE_FAILED
	/** @brief The program linked and is ready for use.*/
	SHADER_STATE_INITIALIZED
	/** @brief The program was deleted. */
	SHADER_STATE_DESTROYED
)

func (s ShaderState) String() string {
	switch s {
	case SHADER_STATE_NOT_CREATED:
		return "not_created"
	case SHADER_STATE_FAILED:
		return "failed"
	case SHADER_STATE_INITIALIZED:
		return "initialized"
	case SHADER_STATE_DESTROYED:
		return "destroyed"
	default:
		return fmt.Sprintf("shader_state(%d)", int(s))
	}
}

/** @brief Shader stages. */
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

// String returns the label used in compile diagnostics.
func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "VERTEX"
	case ShaderStageFragment:
		return "FRAGMENT"
	default:
		return fmt.Sprintf("STAGE(%d)", int(s))
	}
}

/**
 * @brief Configuration for a shader program built from two GLSL files.
 */
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string
	/** @brief Path of the vertex stage source. */
	VertexPath string
	/** @brief Path of the fragment stage source. */
	FragmentPath string
}

// TruncateInfoLog keeps at most ShaderInfoLogSize-1 bytes, the way a fixed
// size, NUL terminated log buffer would.
func TruncateInfoLog(log string) string {
	if len(log) >= ShaderInfoLogSize {
		return log[:ShaderInfoLogSize-1]
	}
	return log
}
