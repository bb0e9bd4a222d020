package sgr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nybane/sgrconv/geom"
)

func buildTestTree() *Node {
	root := NewNode("Scene")
	box := root.AddChild(NewNode("Box"))
	box.Mesh = "box.fbx"
	box.Materials = []string{"metallic.material", "", "wood.material"}
	left := box.AddChild(NewNode("LeftBox"))
	left.Transform = &Transform{
		Translate: geom.Vector3{X: -0.5},
		Scale:     geom.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
	}
	right := box.AddChild(NewNode("RightBox"))
	right.Transform = &Transform{
		Translate: geom.Vector3{X: 1},
		Rotate:    geom.Vector3{Z: 45},
		Scale:     geom.Vector3{X: 1, Y: 1, Z: 1},
	}
	return root
}

func TestRoundTrip(t *testing.T) {
	src := buildTestTree()

	var buf bytes.Buffer
	if err := Write(src, &buf); err != nil {
		t.Fatal(err)
	}
	dst, err := Parse(&buf, "test.sgr")
	if err != nil {
		t.Fatal(err)
	}
	if !src.Equal(dst) {
		t.Error("decode(encode(tree)) != tree")
	}
	if dst.Count() != 4 {
		t.Error("node count: ", dst.Count())
	}
}

func TestParseDefaults(t *testing.T) {
	n, err := Parse(strings.NewReader(`{"name":"Empty"}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Transform != nil {
		t.Error("transform should be absent")
	}
	tr := n.EffectiveTransform()
	if tr.Translate != (geom.Vector3{}) || tr.Rotate != (geom.Vector3{}) {
		t.Error("translate/rotate default: ", tr)
	}
	if tr.Scale != (geom.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Error("scale default: ", tr.Scale)
	}
	if n.Mesh != "" || len(n.Materials) != 0 || len(n.Children) != 0 {
		t.Error("mesh/materials/children defaults: ", n)
	}
}

func TestParsePartialTransform(t *testing.T) {
	n, err := Parse(strings.NewReader(`{"name":"A","transform":{"translate":[1,2,3]}}`), "")
	if err != nil {
		t.Fatal(err)
	}
	tr := n.Transform
	if tr == nil {
		t.Fatal("transform missing")
	}
	if tr.Translate != (geom.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Error("translate: ", tr.Translate)
	}
	if tr.Rotate != (geom.Vector3{}) || tr.Scale != (geom.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Error("omitted transform fields must keep defaults: ", tr)
	}
}

func TestParseSingleMeshNode(t *testing.T) {
	n, err := Parse(strings.NewReader(`{"name":"Box","mesh":"box.fbx","materials":["metallic.material"]}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "Box" || n.Mesh != "box.fbx" {
		t.Error("node: ", n)
	}
	if len(n.Materials) != 1 || n.Materials[0] != "metallic.material" {
		t.Error("materials: ", n.Materials)
	}
	if len(n.Children) != 0 {
		t.Error("children: ", n.Children)
	}
	if !n.EffectiveTransform().IsIdentity() {
		t.Error("transform should be identity")
	}
}

func TestParseTwoChildren(t *testing.T) {
	doc := `{
		"name": "Box",
		"children": [
			{"name": "LeftBox", "transform": {"translate": [-0.5, 0, 0], "scale": [0.5, 0.5, 0.5]}},
			{"name": "RightBox", "transform": {"translate": [1, 0, 0]}}
		]
	}`
	n, err := Parse(strings.NewReader(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Count() != 3 {
		t.Fatal("node count: ", n.Count())
	}
	if n.Children[0].Name != "LeftBox" || n.Children[1].Name != "RightBox" {
		t.Error("child order: ", n.Children[0].Name, n.Children[1].Name)
	}
	left := n.Children[0].Transform
	if left.Translate != (geom.Vector3{X: -0.5}) || left.Scale != (geom.Vector3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Error("LeftBox transform must stay parent-relative: ", left)
	}
	right := n.Children[1].Transform
	if right.Translate != (geom.Vector3{X: 1}) || right.Scale != (geom.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Error("RightBox transform: ", right)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	for _, doc := range []string{
		`{}`,
		`{"name": 42}`,
		`{"name": ""}`,
		`{"name": "A", "transform": "identity"}`,
		`{"name": "A", "transform": {"translate": [1, 2]}}`,
		`{"name": "A", "mesh": 1}`,
		`{"name": "A", "materials": "m.material"}`,
		`{"name": "A", "materials": [1, 2]}`,
		`{"name": "A", "children": {}}`,
		`{"name": "A", "children": [{"mesh": "b.fbx"}]}`,
		`[{"name": "A"}]`,
		`not json`,
	} {
		_, err := Parse(strings.NewReader(doc), "bad.sgr")
		if err == nil {
			t.Errorf("expected error for %s", doc)
			continue
		}
		if _, ok := err.(*SchemaError); !ok {
			t.Errorf("expected *SchemaError for %s, got %T: %v", doc, err, err)
		}
	}
}

func TestParseBOM(t *testing.T) {
	n, err := Parse(strings.NewReader("\ufeff"+`{"name":"Box"}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "Box" {
		t.Error("name: ", n.Name)
	}
}

func TestWriteOmitsDefaults(t *testing.T) {
	root := NewNode("Root")
	root.Transform = IdentityTransform()

	var buf bytes.Buffer
	if err := Write(root, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, key := range []string{"transform", "mesh", "materials", "children", "null"} {
		if strings.Contains(out, key) {
			t.Errorf("output should not contain %q:\n%s", key, out)
		}
	}

	dst, err := Parse(&buf, "")
	if err != nil {
		t.Fatal(err)
	}
	if !dst.EffectiveTransform().IsIdentity() {
		t.Error("decoded transform must be identity")
	}
}

func TestWriteEmptyNameFails(t *testing.T) {
	root := NewNode("Root")
	root.AddChild(NewNode(""))
	if err := Write(root, &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty child name")
	}
}

func TestParseDepthGuard(t *testing.T) {
	depth := maxDocumentDepth + 2
	doc := strings.Repeat(`{"name":"n","children":[`, depth) + `{"name":"leaf"}` + strings.Repeat(`]}`, depth)
	_, err := Parse(strings.NewReader(doc), "")
	if err == nil {
		t.Fatal("expected error for pathological nesting")
	}
	if _, ok := err.(*SchemaError); !ok {
		t.Errorf("expected *SchemaError, got %T: %v", err, err)
	}
	// the depth guard must fire before encoding/json's own nesting limit
	if !strings.Contains(err.Error(), "nesting deeper") {
		t.Errorf("expected the nesting guard to report the error, got: %v", err)
	}
}

func TestParseTrailingContent(t *testing.T) {
	for _, doc := range []string{
		`{"name":"A"} junk`,
		`{"name":"A"}{"name":"B"}`,
	} {
		_, err := Parse(strings.NewReader(doc), "")
		if _, ok := err.(*SchemaError); !ok {
			t.Errorf("%s: expected *SchemaError, got %T: %v", doc, err, err)
		}
	}
	// trailing whitespace is not content
	if _, err := Parse(strings.NewReader("{\"name\":\"A\"}\n"), ""); err != nil {
		t.Error("trailing newline: ", err)
	}
}

func TestScenePaths(t *testing.T) {
	p := NewScenePaths("/scenes/Demo", "Demo")
	if p.DocumentPath() != "/scenes/Demo/Demo.sgr" {
		t.Error("document path: ", p.DocumentPath())
	}
	if p.MeshRel("box.fbx") != "Meshes/box.fbx" {
		t.Error("mesh rel: ", p.MeshRel("box.fbx"))
	}
	if p.MaterialRel("m.material") != "Materials/m.material" {
		t.Error("material rel: ", p.MaterialRel("m.material"))
	}
}
