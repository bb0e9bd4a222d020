// Package sgr implements the scene-graph interchange document format (.sgr).
//
// A document is a UTF-8 JSON file holding a single rooted tree of nodes.
// Each node carries a name, an optional parent-relative transform, an
// optional mesh reference and an ordered material-slot list. The coordinate
// convention is fixed for the whole document: Z-up, Y-forward, X-right.
package sgr

import "github.com/nybane/sgrconv/geom"

// Transform is a parent-relative pose. Rotate holds XYZ-order Euler angles
// in degrees.
type Transform struct {
	Translate geom.Vector3
	Rotate    geom.Vector3
	Scale     geom.Vector3
}

func IdentityTransform() *Transform {
	return &Transform{Scale: geom.Vector3{X: 1, Y: 1, Z: 1}}
}

func (t *Transform) IsIdentity() bool {
	return *t == *IdentityTransform()
}

// Rotation returns the rotation as Euler angles in radians.
func (t *Transform) Rotation() *geom.EulerAngles {
	return geom.NewEulerFromDegrees(t.Rotate.X, t.Rotate.Y, t.Rotate.Z, geom.RotationOrderXYZ)
}

// Matrix composes the pose as translate * rotate * scale.
func (t *Transform) Matrix() *geom.Matrix4 {
	return geom.NewTRSMatrix4(&t.Translate, t.Rotation().ToQuaternion(), &t.Scale)
}

// Node is one entry in the hierarchy. A nil Transform means identity,
// an empty Mesh means no mesh reference, and an empty string in Materials
// means the slot at that index is unbound.
type Node struct {
	Name      string
	Transform *Transform
	Mesh      string
	Materials []string
	Children  []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// EffectiveTransform returns the node's transform, or identity if absent.
func (n *Node) EffectiveTransform() *Transform {
	if n.Transform == nil {
		return IdentityTransform()
	}
	return n.Transform
}

// Walk visits the tree depth-first in child order, the root at depth 0.
func (n *Node) Walk(visit func(n *Node, depth int)) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(n *Node, depth int), depth int) {
	visit(n, depth)
	for _, c := range n.Children {
		c.walk(visit, depth+1)
	}
}

// Count returns the number of nodes in the tree, including n itself.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) { count++ })
	return count
}

// Equal reports structural equality: names, transform values (absence equals
// identity), mesh references, material order and children order.
func (n *Node) Equal(o *Node) bool {
	if n.Name != o.Name || n.Mesh != o.Mesh {
		return false
	}
	if *n.EffectiveTransform() != *o.EffectiveTransform() {
		return false
	}
	if len(n.Materials) != len(o.Materials) || len(n.Children) != len(o.Children) {
		return false
	}
	for i, m := range n.Materials {
		if m != o.Materials[i] {
			return false
		}
	}
	for i, c := range n.Children {
		if !c.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
