package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the bridge knows about. */
	ResourceTypeNone ResourceType = iota
	/** @brief A compiled scene container. */
	ResourceTypeScene
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeScene:
		return "scene"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data []byte
}
