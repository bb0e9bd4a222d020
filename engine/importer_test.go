package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nybane/sgrconv/geom"
	"github.com/nybane/sgrconv/sgr"
)

func buildTestScene() *sgr.Node {
	root := sgr.NewNode("Demo")
	box := root.AddChild(sgr.NewNode("Box"))
	box.Mesh = "box.fbx"
	box.Materials = []string{"metallic.material"}
	left := box.AddChild(sgr.NewNode("LeftBox"))
	left.Transform = &sgr.Transform{
		Translate: geom.Vector3{X: -0.5},
		Scale:     geom.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
	}
	return root
}

func TestImport(t *testing.T) {
	scene := NewEditorScene()
	catalog := MemCatalog{
		"Meshes/box.fbx":              true,
		"Materials/metallic.material": true,
	}

	res, err := NewSceneImporter(scene, catalog).Import(buildTestScene())
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 3 || scene.Len() != 3 {
		t.Fatal("created: ", res.Created, scene.Len())
	}
	if len(res.Warnings) != 0 {
		t.Error("warnings: ", res.Warnings)
	}

	roots := scene.Roots()
	if len(roots) != 1 || roots[0].Name != "Demo" {
		t.Fatal("roots: ", roots)
	}
	boxes := scene.Children(roots[0].ID)
	if len(boxes) != 1 || boxes[0].Name != "Box" {
		t.Fatal("children of root: ", boxes)
	}
	box := boxes[0]
	if box.Mesh != "Meshes/box.fbx" {
		t.Error("mesh component: ", box.Mesh)
	}
	if len(box.Materials) != 1 || box.Materials[0] != "Materials/metallic.material" {
		t.Error("material component: ", box.Materials)
	}

	left := scene.Children(box.ID)[0]
	if left.Name != "LeftBox" || left.Parent != box.ID {
		t.Error("parenting: ", left)
	}
	if left.Transform.Translate != (geom.Vector3{X: -0.5}) {
		t.Error("transform: ", left.Transform)
	}
	if roots[0].Transform == nil || !roots[0].Transform.IsIdentity() {
		t.Error("absent transform must import as identity")
	}
}

func TestImportSkipsUnresolvedMesh(t *testing.T) {
	scene := NewEditorScene()
	// catalog has the material but not the mesh
	catalog := MemCatalog{"Materials/metallic.material": true}

	res, err := NewSceneImporter(scene, catalog).Import(buildTestScene())
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 3 {
		t.Error("entity must still be created, children still visited: ", res.Created)
	}
	if len(res.Warnings) != 1 {
		t.Fatal("warnings: ", res.Warnings)
	}
	w := res.Warnings[0]
	if w.Node != "Box" || w.Kind != "mesh" || w.Path != "Meshes/box.fbx" {
		t.Error("warning: ", w)
	}

	box := scene.Children(scene.Roots()[0].ID)[0]
	if box.Mesh != "" {
		t.Error("mesh must not be attached: ", box.Mesh)
	}
	if len(box.Materials) != 1 {
		t.Error("resolved materials must still be attached: ", box.Materials)
	}
}

func TestImportStrict(t *testing.T) {
	imp := NewSceneImporter(NewEditorScene(), MemCatalog{})
	imp.Strict = true
	_, err := imp.Import(buildTestScene())
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if _, ok := err.(*UnresolvedAssetError); !ok {
		t.Errorf("expected *UnresolvedAssetError, got %T: %v", err, err)
	}
}

func TestImportUnboundSlots(t *testing.T) {
	root := sgr.NewNode("S")
	n := root.AddChild(sgr.NewNode("Slots"))
	n.Materials = []string{"", "wood.material"}

	scene := NewEditorScene()
	res, err := NewSceneImporter(scene, MemCatalog{"Materials/wood.material": true}).Import(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 0 {
		t.Error("empty slots are not unresolved assets: ", res.Warnings)
	}
	e := scene.Children(scene.Roots()[0].ID)[0]
	if len(e.Materials) != 2 || e.Materials[0] != "" || e.Materials[1] != "Materials/wood.material" {
		t.Error("slot alignment: ", e.Materials)
	}
}

func TestEditorSceneParenting(t *testing.T) {
	s := NewEditorScene()
	if _, err := s.CreateEntity("orphan", EntityID("missing")); err == nil {
		t.Error("expected error for unknown parent")
	}
	if _, err := s.CreateEntity("", InvalidEntityID); err == nil {
		t.Error("expected error for empty name")
	}

	a, _ := s.CreateEntity("A", InvalidEntityID)
	b, _ := s.CreateEntity("B", a)
	s.CreateEntity("C", a)
	kids := s.Children(a)
	if len(kids) != 2 || kids[0].ID != b {
		t.Error("child order: ", kids)
	}

	var buf bytes.Buffer
	s.Dump(&buf)
	if !strings.Contains(buf.String(), "  B") {
		t.Error("dump: ", buf.String())
	}
}
