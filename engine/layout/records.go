package layout

import "github.com/spaghettifunk/scenebridge/engine/math"

// Version is bumped whenever a record below changes size or field order.
const Version uint32 = 1

const (
	Vec4Size              = 16
	Mat4Size              = 64
	VertexSize            = 16
	BoneSize              = 48
	StateMachineSize      = 16
	StateMachineInputSize = 16
	ConstantSize          = 16
	DrawSize              = 448
	StencilSize           = 16
	RenderObjectSize      = 288

	// VertexStride is the number of floats per vertex in a vertex buffer.
	VertexStride = 4
	// MaxTextures is the number of texture handles a RenderObject carries.
	MaxTextures = 8
	// MaxColors and MaxStops bound the gradient data of a draw.
	MaxColors = 16
	MaxStops  = 4
)

// RenderObject flag bits.
const (
	FlagSetBlendFactors uint8 = 1 << iota
	FlagSetStencilTest
	FlagSetFaceWinding
)

// Vertex is one tessellated vertex. Size: 16 bytes.
type Vertex struct {
	X, Y float32 // offset 0
	U, V float32 // offset 8
}

// Bone size: 48 bytes.
type Bone struct {
	Index      int32   // offset 0
	Parent     int32   // offset 4, -1 for roots
	PosX       float32 // offset 8
	PosY       float32 // offset 12
	ScaleX     float32 // offset 16
	ScaleY     float32 // offset 20
	Rotation   float32 // offset 24
	Length     float32 // offset 28
	NameOffset uint32  // offset 32, into the string table
	NameLength uint32  // offset 36
	_          [8]byte // offset 40
}

// StateMachine size: 16 bytes. Inputs are the range
// [InputStart, InputStart+InputCount) of the input table.
type StateMachine struct {
	NameOffset uint32
	NameLength uint32
	InputStart uint32
	InputCount uint32
}

// StateMachineInput size: 16 bytes.
type StateMachineInput struct {
	NameOffset uint32
	NameLength uint32
	Type       uint32
	_          [4]byte
}

// Constant size: 16 bytes. Values are the range
// [ValueStart, ValueStart+ValueCount) of the Vec4 constant pool.
type Constant struct {
	NameHash   uint64
	ValueStart uint32
	ValueCount uint32
}

// Draw is one draw descriptor produced by an evaluator. Size: 448 bytes.
type Draw struct {
	World       math.Mat4            // offset 0
	Gradient    math.Vec4            // offset 64, start.xy end.xy
	FillType    uint32               // offset 80
	StopCount   uint32               // offset 84
	BlendMode   uint32               // offset 88
	DrawMode    uint32               // offset 92
	Colors      [MaxColors]math.Vec4 // offset 96
	Stops       [MaxStops]math.Vec4  // offset 352
	VertexStart uint32               // offset 416
	VertexCount uint32               // offset 420
	IndexStart  uint32               // offset 424
	IndexCount  uint32               // offset 428
	ClipIndex   uint8                // offset 432
	EvenOdd     uint8                // offset 433
	PathIndex   uint16               // offset 434
	_           [12]byte             // offset 436
}

type StencilFace struct {
	Func     uint8
	OpSFail  uint8
	OpDPFail uint8
	OpDPPass uint8
}

// Stencil size: 16 bytes.
type Stencil struct {
	Front              StencilFace // offset 0
	Back               StencilFace // offset 4
	Ref                uint8       // offset 8
	RefMask            uint8       // offset 9
	BufferMask         uint8       // offset 10
	ColorBufferMask    uint8       // offset 11
	ClearBuffer        uint8       // offset 12
	SeparateFaceStates uint8       // offset 13
	_                  [2]byte     // offset 14
}

// RenderObject is one draw call handed to the host renderer. Size: 288 bytes.
type RenderObject struct {
	WorldTransform         math.Mat4           // offset 0
	TextureTransform       math.Mat4           // offset 64
	VertexBuffer           uint64              // offset 128
	VertexDeclaration      uint64              // offset 136
	IndexBuffer            uint64              // offset 144
	Material               uint64              // offset 152
	Textures               [MaxTextures]uint64 // offset 160
	PrimitiveType          uint32              // offset 224
	IndexType              uint32              // offset 228
	SourceBlendFactor      uint32              // offset 232
	DestinationBlendFactor uint32              // offset 236
	FaceWinding            uint32              // offset 240
	Stencil                Stencil             // offset 244
	VertexStart            uint32              // offset 260
	VertexCount            uint32              // offset 264
	IndexStart             uint32              // offset 268
	IndexCount             uint32              // offset 272
	ConstantStart          uint32              // offset 276
	ConstantCount          uint32              // offset 280
	Flags                  uint8               // offset 284
	_                      [3]byte             // offset 285
}
