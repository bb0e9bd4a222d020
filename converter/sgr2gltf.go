package converter

import (
	"math"

	"github.com/qmuntal/gltf"

	"github.com/nybane/sgrconv/geom"
	"github.com/nybane/sgrconv/sgr"
)

type SGRToGLTFOption struct {
}

type sgrToGltf struct {
	options *SGRToGLTFOption
}

// NewSGRToGLTFConverter previews a scene-graph tree as a glTF node
// hierarchy: names, parent-relative transforms and parenting only. Mesh and
// material references are external assets and are carried in node extras.
func NewSGRToGLTFConverter(options *SGRToGLTFOption) *sgrToGltf {
	if options == nil {
		options = &SGRToGLTFOption{}
	}
	return &sgrToGltf{options: options}
}

// zToYUp rotates -90 degrees around X: (x, y, z) -> (x, z, -y).
var zToYUp = geom.NewQuaternionFromAxisAngle(&geom.Vector3{X: 1}, -math.Pi/2)

func (c *sgrToGltf) Convert(root *sgr.Node) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Scenes[0].Name = root.Name

	rootIdx := c.addNode(doc, root)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, rootIdx)
	return doc, nil
}

func (c *sgrToGltf) addNode(doc *gltf.Document, n *sgr.Node) uint32 {
	tr := n.EffectiveTransform()
	t := tr.Translate
	q := tr.Rotation().ToQuaternion()
	s := tr.Scale

	// document Z-up to glTF Y-up
	t = geom.Vector3{X: t.X, Y: t.Z, Z: -t.Y}
	q = zToYUp.Mul(q).Mul(zToYUp.Inverse())
	s = geom.Vector3{X: s.X, Y: s.Z, Z: s.Y}

	node := &gltf.Node{
		Name:        n.Name,
		Translation: [3]float32{float32(t.X), float32(t.Y), float32(t.Z)},
		Rotation:    [4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)},
		Scale:       [3]float32{float32(s.X), float32(s.Y), float32(s.Z)},
	}
	if n.Mesh != "" || len(n.Materials) > 0 {
		extras := map[string]interface{}{}
		if n.Mesh != "" {
			extras["mesh"] = n.Mesh
		}
		if len(n.Materials) > 0 {
			extras["materials"] = n.Materials
		}
		node.Extras = extras
	}

	idx := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	for _, child := range n.Children {
		node.Children = append(node.Children, c.addNode(doc, child))
	}
	return idx
}
