package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 4x4 column-major matrix, used for world and texture transforms handed to the host. */
type Mat4 = mgl32.Mat4

/**
 * @brief A 2D affine transform as produced by the evaluator.
 * Element order is xx, xy, yx, yy, tx, ty.
 */
type Mat2D [6]float32

/**
 * @brief Represents the extents of a 2d object.
 */
type AABB struct {
	/** @brief The minimum extents of the object. */
	Min Vec2
	/** @brief The maximum extents of the object. */
	Max Vec2
}

/**
 * @brief The local transform parameters of a bone.
 */
type BoneTransform struct {
	PosX     float32
	PosY     float32
	ScaleX   float32
	ScaleY   float32
	Rotation float32
	Length   float32
}
