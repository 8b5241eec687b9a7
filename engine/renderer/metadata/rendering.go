package metadata

import "github.com/go-gl/mathgl/mgl32"

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

/**
 * @brief Everything the renderer needs to draw one frame.
 */
type RenderPacket struct {
	DeltaTime   float64
	ClearColour mgl32.Vec4
	CullMode    FaceCullMode
	/** @brief Issues the draw calls between begin and end frame. */
	Draw func() error
}
