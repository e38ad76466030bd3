// Package tree defines the component library forest and the pure operations
// over it. A forest is an ordered list of nodes; every operation returns a
// new forest and never mutates its input, so callers may keep references to
// older snapshots.
package tree

// Kind discriminates the two node variants.
type Kind string

const (
	KindFolder    Kind = "folder"
	KindComponent Kind = "component"
)

// ComponentType classifies what role a component plays in a compiled prompt.
type ComponentType string

const (
	TypeInstruction ComponentType = "instruction"
	TypeRole        ComponentType = "role"
	TypeContext     ComponentType = "context"
	TypeFormat      ComponentType = "format"
	TypeStyle       ComponentType = "style"
)

// DefaultComponentType is substituted for unknown or missing component types.
const DefaultComponentType = TypeContext

// ParseComponentType maps a raw string to a ComponentType, substituting the
// default for anything unrecognized rather than failing the whole operation.
func ParseComponentType(s string) ComponentType {
	switch ComponentType(s) {
	case TypeInstruction, TypeRole, TypeContext, TypeFormat, TypeStyle:
		return ComponentType(s)
	default:
		return DefaultComponentType
	}
}

// RootFolderName is the conventional name of the top-level library folder.
const RootFolderName = "Components"

// Node is a tagged union: a Folder carries Children and Expanded, a
// Component carries Content and ComponentType. Ids are unique across the
// whole forest.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"type"`

	// Folder fields. Expanded is a pointer so data predating the field can
	// be told apart from an explicit false (see NormalizeExpansion).
	Children []*Node `json:"children,omitempty"`
	Expanded *bool   `json:"expanded,omitempty"`

	// Component fields.
	Content       string        `json:"content,omitempty"`
	ComponentType ComponentType `json:"componentType,omitempty"`
}

// NewFolder returns an expanded empty folder.
func NewFolder(nodeID, name string) *Node {
	expanded := true
	return &Node{ID: nodeID, Name: name, Kind: KindFolder, Children: []*Node{}, Expanded: &expanded}
}

// NewComponent returns a component leaf.
func NewComponent(nodeID, name, content string, ct ComponentType) *Node {
	return &Node{ID: nodeID, Name: name, Kind: KindComponent, Content: content, ComponentType: ct}
}

// IsFolder reports whether n is the folder variant.
func (n *Node) IsFolder() bool {
	return n != nil && n.Kind == KindFolder
}

// clone returns a shallow copy of n. Children still alias the original
// slice; path-copying operations replace it as they descend.
func (n *Node) clone() *Node {
	cp := *n
	return &cp
}
