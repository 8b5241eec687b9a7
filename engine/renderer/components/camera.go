package components

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/modelview/engine/math"
)

const (
	// 89 degrees, keeps the up vector usable.
	pitchLimit  float32 = 1.55334306
	minDistance float32 = 0.05
	maxDistance float32 = 10000
)

/**
 * @brief An orbit camera circling a target point. The view matrix
 * is rebuilt lazily whenever the orbit changes.
 */
type Camera struct {
	/** @brief The point the camera looks at. */
	Target mgl32.Vec3
	/** @brief Distance from the target. */
	Distance float32
	/** @brief Rotation around the world Y axis, in radians. */
	YawAngle float32
	/** @brief Elevation above the XZ plane, in radians. */
	PitchAngle float32
	/** @brief Vertical field of view, in radians. */
	FOV  float32
	Near float32
	Far  float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: Read it through GetView so it is recalculated when needed.
	 */
	ViewMatrix mgl32.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Target = mgl32.Vec3{0, 0, 0}
	c.Distance = 3
	c.YawAngle = 0
	c.PitchAngle = 0
	c.FOV = mgl32.DegToRad(45)
	c.Near = 0.1
	c.Far = 100
	c.ViewMatrix = mgl32.Ident4()
	c.IsDirty = true
}

// GetPosition returns the eye position derived from the orbit parameters.
func (c *Camera) GetPosition() mgl32.Vec3 {
	cosPitch := float32(gomath.Cos(float64(c.PitchAngle)))
	offset := mgl32.Vec3{
		c.Distance * cosPitch * float32(gomath.Sin(float64(c.YawAngle))),
		c.Distance * float32(gomath.Sin(float64(c.PitchAngle))),
		c.Distance * cosPitch * float32(gomath.Cos(float64(c.YawAngle))),
	}
	return c.Target.Add(offset)
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = mgl32.LookAtV(c.GetPosition(), c.Target, mgl32.Vec3{0, 1, 0})
		c.IsDirty = false
	}
	return c.ViewMatrix
}

func (c *Camera) GetProjection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.GetPosition()).Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *Camera) Yaw(amount float32) {
	c.YawAngle += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	// Clamp to avoid Gimbal lock.
	c.PitchAngle = math.Clamp(c.PitchAngle+amount, -pitchLimit, pitchLimit)
	c.IsDirty = true
}

// Zoom scales the orbit distance; positive amounts move closer.
func (c *Camera) Zoom(amount float32) {
	c.Distance = math.Clamp(c.Distance*(1-amount), minDistance, maxDistance)
	c.IsDirty = true
}

// Pan moves the target along the camera's right and up vectors.
func (c *Camera) Pan(dx, dy float32) {
	right := c.Right()
	up := right.Cross(c.Forward())
	c.Target = c.Target.Add(right.Mul(dx * c.Distance)).Add(up.Mul(dy * c.Distance))
	c.IsDirty = true
}

// Frame centres the camera on the extents and backs off far enough to see
// all of it.
func (c *Camera) Frame(extents math.Extents3D) {
	radius := extents.Radius()
	if radius <= math.K_FLOAT_EPSILON {
		radius = 1
	}
	c.Target = extents.Center()
	c.Distance = math.Clamp(radius/float32(gomath.Tan(float64(c.FOV/2))), minDistance, maxDistance)
	c.Near = math.Clamp(c.Distance/100, 0.001, 1)
	c.Far = c.Distance + radius*4
	c.IsDirty = true
}
