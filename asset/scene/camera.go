package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

// Stores the ray directions at the four corners of the camera frustrum. It is
// used as a shortcut for generating per pixel rays via interpolation of the
// corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Rotation angles (in radians) applied on top of the look direction.
	Pitch float32
	Yaw   float32

	// Vertical field of view in degrees.
	FOV float32

	// Frame aspect ratio (width / height).
	Aspect float32

	// Ray footprint radius at the camera origin.
	LensRadius float32

	Frustrum Frustrum

	// Adjust the frustrum so that Y is inverted
	InvertY bool
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		Aspect:   1,
	}
}

// Setup camera projection for the given frame aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.Aspect = aspect
	c.Update()
}

// Get the camera view direction after applying pitch and yaw.
func (c *Camera) Direction() types.Vec3 {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()
	return orientQuat.Rotate(dir).Normalize()
}

// Update camera frustrum.
func (c *Camera) Update() {
	forward := c.Direction()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfH := c.tanHalfFOV()
	halfW := halfH * c.Aspect

	var yUp float32 = 1.0
	if c.InvertY {
		yUp = -1.0
	}

	corner := func(x, y float32) types.Vec3 {
		return forward.Add(right.Mul(x * halfW)).Add(up.Mul(y * yUp * halfH))
	}

	c.Frustrum[0] = corner(-1, 1)
	c.Frustrum[1] = corner(1, 1)
	c.Frustrum[2] = corner(-1, -1)
	c.Frustrum[3] = corner(1, -1)
}

func (c *Camera) tanHalfFOV() float32 {
	return float32(math.Tan(float64(c.FOV) * math.Pi / 360.0))
}

// Generate a primary ray through the center of pixel (x, y). The ray spread
// is set so that the ray footprint roughly covers half a pixel at every
// distance.
func (c *Camera) Ray(x, y, frameW, frameH uint32) bezier.Ray {
	u := (float32(x) + 0.5) / float32(frameW)
	v := (float32(y) + 0.5) / float32(frameH)

	top := c.Frustrum[0].Add(c.Frustrum[1].Sub(c.Frustrum[0]).Mul(u))
	bottom := c.Frustrum[2].Add(c.Frustrum[3].Sub(c.Frustrum[2]).Mul(u))
	dir := top.Add(bottom.Sub(top).Mul(v))

	ray := bezier.NewRay(c.Position, dir)
	ray.OrgRadius = c.LensRadius
	ray.Spread = c.tanHalfFOV() / float32(frameH)
	return ray
}
