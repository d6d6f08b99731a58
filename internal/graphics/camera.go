package graphics

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying camera driven by mouse look and directional moves.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float64
	Pitch    float64

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	MoveSpeed   float32
	Sensitivity float64

	firstMouse bool
	lastMouseX float64
	lastMouseY float64
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 60, 0},
		Yaw:         -90.0,
		Pitch:       -20.0,
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    2000.0,
		MoveSpeed:   40.0,
		Sensitivity: 0.1,
		firstMouse:  true,
	}
}

func (c *Camera) HandleMouseMovement(w *glfw.Window, xpos, ypos float64) {
	if c.firstMouse {
		c.lastMouseX = xpos
		c.lastMouseY = ypos
		c.firstMouse = false
		return
	}

	xoffset := (xpos - c.lastMouseX) * c.Sensitivity
	yoffset := (c.lastMouseY - ypos) * c.Sensitivity
	c.lastMouseX = xpos
	c.lastMouseY = ypos

	c.Yaw += xoffset
	c.Pitch += yoffset

	// Constrain pitch
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

func (c *Camera) GetFrontVector() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	pt := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

func (c *Camera) GetRightVector() mgl32.Vec3 {
	return c.GetFrontVector().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	front := c.GetFrontVector()
	return mgl32.LookAtV(c.Position, c.Position.Add(front), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ProcessKeyboard moves the camera for one frame. Sprint doubles the speed.
func (c *Camera) ProcessKeyboard(w *glfw.Window, dt float32) {
	speed := c.MoveSpeed * dt
	if w.GetKey(glfw.KeyLeftShift) == glfw.Press {
		speed *= 4.0
	}

	front := c.GetFrontVector()
	right := c.GetRightVector()

	if w.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(front.Mul(speed))
	}
	if w.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(front.Mul(speed))
	}
	if w.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(right.Mul(speed))
	}
	if w.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(right.Mul(speed))
	}
	if w.GetKey(glfw.KeySpace) == glfw.Press {
		c.Position = c.Position.Add(mgl32.Vec3{0, speed, 0})
	}
	if w.GetKey(glfw.KeyLeftControl) == glfw.Press {
		c.Position = c.Position.Sub(mgl32.Vec3{0, speed, 0})
	}
}
