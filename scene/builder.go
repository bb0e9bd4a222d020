package scene

import (
	"fmt"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/nybane/sgrconv/geom"
	"github.com/nybane/sgrconv/sgr"
)

// MeshExporter turns an object's mesh data block into an asset on disk and
// returns its path relative to Meshes/.
type MeshExporter interface {
	ExportMesh(o *Object) (string, error)
}

// MaterialExporter turns a source material into an asset on disk and returns
// its path relative to Materials/.
type MaterialExporter interface {
	ExportMaterial(m MaterialHandle) (string, error)
}

type UpAxis int

const (
	UpAxisZ UpAxis = iota // document convention, no conversion
	UpAxisY               // e.g. glTF sources
)

// TreeBuilder walks a source hierarchy depth-first and produces a scene-graph
// tree. The walk is read-only; each call builds a fresh tree.
type TreeBuilder struct {
	Meshes    MeshExporter
	Materials MaterialExporter

	// UpAxis names the source tool's up axis. Y-up sources are converted
	// into the document's Z-up, Y-forward, X-right basis at build time.
	UpAxis UpAxis
}

// yToZUp rotates +90 degrees around X: (x, y, z) -> (x, -z, y).
var yToZUp = geom.NewQuaternionFromAxisAngle(&geom.Vector3{X: 1}, math.Pi/2)

// Build produces the document tree for the given root objects. The returned
// root node is named after the scene and carries the objects as children,
// preserving their order.
func (b *TreeBuilder) Build(sceneName string, roots []*Object) (*sgr.Node, error) {
	if sceneName == "" {
		return nil, fmt.Errorf("scene: scene name must not be empty")
	}
	root := sgr.NewNode(sceneName)
	if err := b.buildChildren(root, roots); err != nil {
		return nil, err
	}
	return root, nil
}

func (b *TreeBuilder) buildChildren(parent *sgr.Node, objects []*Object) error {
	seen := map[string]bool{}
	for _, o := range objects {
		if o.Name == "" {
			return fmt.Errorf("scene: object under %q has no name", parent.Name)
		}
		if seen[o.Name] {
			return fmt.Errorf("scene: duplicate sibling name %q under %q", o.Name, parent.Name)
		}
		seen[o.Name] = true

		node, err := b.buildNode(o)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, node)
		if err := b.buildChildren(node, o.Children); err != nil {
			return err
		}
	}
	return nil
}

func (b *TreeBuilder) buildNode(o *Object) (*sgr.Node, error) {
	node := sgr.NewNode(o.Name)

	tr, err := b.localTransform(o)
	if err != nil {
		return nil, err
	}
	if !tr.IsIdentity() {
		node.Transform = tr
	}

	if o.Mesh != nil {
		if b.Meshes == nil {
			return nil, fmt.Errorf("scene: object %q has a mesh but no mesh exporter is set", o.Name)
		}
		ref, err := b.Meshes.ExportMesh(o)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "scene: export mesh of %q", o.Name)
		}
		node.Mesh = ref
	}

	mats, err := b.materialRefs(o)
	if err != nil {
		return nil, err
	}
	node.Materials = mats
	return node, nil
}

// materialRefs resolves the object's material slots in order. The list is
// truncated at the highest bound slot; unassigned slots before it are kept
// as empty strings so slot indices stay aligned on import.
func (b *TreeBuilder) materialRefs(o *Object) ([]string, error) {
	last := -1
	for i, m := range o.MaterialSlots {
		if m != nil {
			last = i
		}
	}
	if last < 0 {
		return nil, nil
	}
	if b.Materials == nil {
		return nil, fmt.Errorf("scene: object %q has materials but no material exporter is set", o.Name)
	}
	refs := make([]string, last+1)
	for i := 0; i <= last; i++ {
		m := o.MaterialSlots[i]
		if m == nil {
			continue
		}
		ref, err := b.Materials.ExportMaterial(m)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "scene: export material slot %d of %q", i, o.Name)
		}
		refs[i] = ref
	}
	return refs, nil
}

func (b *TreeBuilder) localTransform(o *Object) (*sgr.Transform, error) {
	if o.RotationMode < RotationModeEulerXYZ || o.RotationMode > RotationModeAxisAngle {
		return nil, fmt.Errorf("scene: object %q has unsupported rotation mode %d", o.Name, o.RotationMode)
	}
	t := o.Translation
	q := o.rotation()
	s := o.Scale

	if b.UpAxis == UpAxisY {
		t = geom.Vector3{X: t.X, Y: -t.Z, Z: t.Y}
		q = yToZUp.Mul(q).Mul(yToZUp.Inverse())
		s = geom.Vector3{X: s.X, Y: s.Z, Z: s.Y}
	}

	return &sgr.Transform{
		Translate: t,
		Rotate:    *geom.NewEulerFromQuaternion(q, geom.RotationOrderXYZ).Degrees(),
		Scale:     s,
	}, nil
}
