package metadata

/** @brief The primitive topology a draw call is issued with. */
type PrimitiveType uint32

const (
	PrimitiveLines         PrimitiveType = 0
	PrimitiveTriangles     PrimitiveType = 1
	PrimitiveTriangleStrip PrimitiveType = 2
)

/** @brief The element type of an index or vertex stream. */
type IndexType uint32

const (
	TypeByte          IndexType = 0
	TypeUnsignedByte  IndexType = 1
	TypeShort         IndexType = 2
	TypeUnsignedShort IndexType = 3
	TypeInt           IndexType = 4
	TypeUnsignedInt   IndexType = 5
	TypeFloat         IndexType = 6
)

/** @brief Blend factors, numbered the way the host graphics layer numbers them. */
type BlendFactor uint32

const (
	BlendFactorZero             BlendFactor = 0
	BlendFactorOne              BlendFactor = 1
	BlendFactorSrcColor         BlendFactor = 2
	BlendFactorOneMinusSrcColor BlendFactor = 3
	BlendFactorDstColor         BlendFactor = 4
	BlendFactorOneMinusDstColor BlendFactor = 5
	BlendFactorSrcAlpha         BlendFactor = 6
	BlendFactorOneMinusSrcAlpha BlendFactor = 7
	BlendFactorDstAlpha         BlendFactor = 8
	BlendFactorOneMinusDstAlpha BlendFactor = 9
	BlendFactorSrcAlphaSaturate BlendFactor = 10
)

/** @brief Determines which winding order is front facing. */
type FaceWinding uint32

const (
	/** @brief Counter clockwise. */
	FaceWindingCCW FaceWinding = 0
	/** @brief Clockwise. */
	FaceWindingCW FaceWinding = 1
)

/** @brief Stencil compare function. */
type CompareFunc uint8

const (
	CompareFuncNever    CompareFunc = 0
	CompareFuncLess     CompareFunc = 1
	CompareFuncLEqual   CompareFunc = 2
	CompareFuncGreater  CompareFunc = 3
	CompareFuncGEqual   CompareFunc = 4
	CompareFuncEqual    CompareFunc = 5
	CompareFuncNotEqual CompareFunc = 6
	CompareFuncAlways   CompareFunc = 7
)

/** @brief Operation applied to the stencil buffer. */
type StencilOp uint8

const (
	StencilOpKeep     StencilOp = 0
	StencilOpZero     StencilOp = 1
	StencilOpReplace  StencilOp = 2
	StencilOpIncr     StencilOp = 3
	StencilOpIncrWrap StencilOp = 4
	StencilOpDecr     StencilOp = 5
	StencilOpDecrWrap StencilOp = 6
	StencilOpInvert   StencilOp = 7
)
