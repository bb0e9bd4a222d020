package converter

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/nybane/sgrconv/geom"
	"github.com/nybane/sgrconv/scene"
	"github.com/nybane/sgrconv/sgr"
)

// GLTFToSGROption configures a glTF to scene-graph conversion.
type GLTFToSGROption struct {
	// SceneName overrides the glTF scene name as the document root name.
	SceneName string
}

type gltfToSgr struct {
	options *GLTFToSGROption
}

// NewGLTFToSGRConverter builds a scene-graph document from a glTF node
// hierarchy. Only the hierarchy, transforms and mesh/material names are
// taken; geometry stays in externally-encoded assets, so mesh references
// become "<mesh>.fbx" and material references "<material>.material".
func NewGLTFToSGRConverter(options *GLTFToSGROption) *gltfToSgr {
	if options == nil {
		options = &GLTFToSGROption{}
	}
	return &gltfToSgr{options: options}
}

func (c *gltfToSgr) Convert(doc *gltf.Document) (*sgr.Node, error) {
	sceneIdx := uint32(0)
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, fmt.Errorf("converter: glTF document has no scene")
	}
	src := doc.Scenes[sceneIdx]

	name := c.options.SceneName
	if name == "" {
		name = src.Name
	}
	if name == "" {
		name = "Scene"
	}

	roots, err := c.objects(doc, src.Nodes)
	if err != nil {
		return nil, err
	}

	// glTF is Y-up; the document convention is Z-up.
	builder := &scene.TreeBuilder{
		Meshes:    meshNameExporter{},
		Materials: materialNameExporter{},
		UpAxis:    scene.UpAxisY,
	}
	return builder.Build(name, roots)
}

func (c *gltfToSgr) objects(doc *gltf.Document, indices []uint32) ([]*scene.Object, error) {
	var objects []*scene.Object
	seen := map[string]int{}
	for _, idx := range indices {
		if int(idx) >= len(doc.Nodes) {
			return nil, fmt.Errorf("converter: node index %d out of range", idx)
		}
		src := doc.Nodes[idx]

		name := src.Name
		if name == "" {
			name = fmt.Sprintf("node%d", idx)
		}
		seen[name]++
		if seen[name] > 1 {
			// sibling names must be unique in the document
			name = fmt.Sprintf("%s_%d", name, seen[name])
		}

		o := scene.NewObject(name)
		o.RotationMode = scene.RotationModeQuaternion
		o.Translation, o.Quaternion, o.Scale = nodeTRS(src)

		if src.Mesh != nil && int(*src.Mesh) < len(doc.Meshes) {
			mesh := doc.Meshes[*src.Mesh]
			meshName := mesh.Name
			if meshName == "" {
				meshName = fmt.Sprintf("mesh%d", *src.Mesh)
			}
			o.Mesh = gltfMesh(meshName)
			for _, prim := range mesh.Primitives {
				if prim.Material == nil || int(*prim.Material) >= len(doc.Materials) {
					o.MaterialSlots = append(o.MaterialSlots, nil)
					continue
				}
				matName := doc.Materials[*prim.Material].Name
				if matName == "" {
					matName = fmt.Sprintf("material%d", *prim.Material)
				}
				o.MaterialSlots = append(o.MaterialSlots, gltfMaterial(matName))
			}
		}

		children, err := c.objects(doc, src.Children)
		if err != nil {
			return nil, err
		}
		o.Children = children
		objects = append(objects, o)
	}
	return objects, nil
}

// nodeTRS reads a node's local pose, treating zero values as the glTF
// defaults and decomposing a matrix pose when one is set.
func nodeTRS(n *gltf.Node) (geom.Vector3, geom.Vector4, geom.Vector3) {
	var (
		zeroM    [16]float32
		identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	)
	if n.Matrix != zeroM && n.Matrix != identity {
		m := &geom.Matrix4{}
		for i, v := range n.Matrix {
			m[i] = geom.Element(v)
		}
		t, q, s := m.Decompose()
		return *t, *q, *s
	}

	t := geom.Vector3{X: float64(n.Translation[0]), Y: float64(n.Translation[1]), Z: float64(n.Translation[2])}
	q := geom.Vector4{X: float64(n.Rotation[0]), Y: float64(n.Rotation[1]), Z: float64(n.Rotation[2]), W: float64(n.Rotation[3])}
	if q == (geom.Vector4{}) {
		q = geom.Vector4{W: 1}
	}
	s := geom.Vector3{X: float64(n.Scale[0]), Y: float64(n.Scale[1]), Z: float64(n.Scale[2])}
	if s == (geom.Vector3{}) {
		s = geom.Vector3{X: 1, Y: 1, Z: 1}
	}
	return t, q, s
}

type gltfMesh string

func (m gltfMesh) MeshName() string { return string(m) }

type gltfMaterial string

func (m gltfMaterial) MaterialName() string { return string(m) }

// meshNameExporter records mesh references by name; the mesh asset itself is
// produced by the source pipeline, not by this conversion.
type meshNameExporter struct{}

func (meshNameExporter) ExportMesh(o *scene.Object) (string, error) {
	return sgr.SanitizeRefName(o.Mesh.MeshName()) + ".fbx", nil
}

type materialNameExporter struct{}

func (materialNameExporter) ExportMaterial(m scene.MaterialHandle) (string, error) {
	return sgr.SanitizeRefName(m.MaterialName()) + ".material", nil
}
