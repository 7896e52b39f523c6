package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
const K_FLOAT_EPSILON float32 = 1.192092896e-07

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec4Zero() Vec4 {
	return Vec4{}
}

func (v Vec4) Compare(other Vec4, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance &&
		kabs(v.W-other.W) <= tolerance
}

func NewMat4Identity() Mat4 {
	return mgl32.Ident4()
}

func NewMat2DIdentity() Mat2D {
	return Mat2D{1, 0, 0, 1, 0, 0}
}

/**
 * @brief Builds a 2D transform from translation, rotation (radians) and scale,
 * composed as T * R * S.
 */
func NewMat2DFromTRS(x, y, rotation, scaleX, scaleY float32) Mat2D {
	s := float32(m.Sin(float64(rotation)))
	c := float32(m.Cos(float64(rotation)))
	return Mat2D{c * scaleX, s * scaleX, -s * scaleY, c * scaleY, x, y}
}

// Mul returns a * b, where b is applied first.
func (a Mat2D) Mul(b Mat2D) Mat2D {
	return Mat2D{
		a[0]*b[0] + a[2]*b[1],
		a[1]*b[0] + a[3]*b[1],
		a[0]*b[2] + a[2]*b[3],
		a[1]*b[2] + a[3]*b[3],
		a[0]*b[4] + a[2]*b[5] + a[4],
		a[1]*b[4] + a[3]*b[5] + a[5],
	}
}

// Apply transforms the point p.
func (a Mat2D) Apply(p Vec2) Vec2 {
	return Vec2{
		X: a[0]*p.X + a[2]*p.Y + a[4],
		Y: a[1]*p.X + a[3]*p.Y + a[5],
	}
}

// ToMat4 expands the affine 2D transform into a column-major 4x4 matrix.
func (a Mat2D) ToMat4() Mat4 {
	r := mgl32.Ident4()
	r.Set(0, 0, a[0])
	r.Set(1, 0, a[1])
	r.Set(0, 1, a[2])
	r.Set(1, 1, a[3])
	r.Set(0, 3, a[4])
	r.Set(1, 3, a[5])
	return r
}

// LerpMat2D interpolates every element of the two transforms.
func LerpMat2D(a, b Mat2D, t float32) Mat2D {
	var r Mat2D
	for i := range r {
		r[i] = Lerp(a[i], b[i], t)
	}
	return r
}

// Local returns the bone's local transform matrix.
func (b BoneTransform) Local() Mat2D {
	return NewMat2DFromTRS(b.PosX, b.PosY, b.Rotation, b.ScaleX, b.ScaleY)
}

/**
 * @brief Returns an AABB with the same extents centered on the origin.
 */
func (b AABB) Centered() AABB {
	hw := b.Width() * 0.5
	hh := b.Height() * 0.5
	return AABB{Min: Vec2{X: -hw, Y: -hh}, Max: Vec2{X: hw, Y: hh}}
}

func (b AABB) Width() float32 {
	return b.Max.X - b.Min.X
}

func (b AABB) Height() float32 {
	return b.Max.Y - b.Min.Y
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}
