package sgr

import (
	"encoding/json"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
)

type nodeOut struct {
	Name      string        `json:"name"`
	Transform *transformOut `json:"transform,omitempty"`
	Mesh      string        `json:"mesh,omitempty"`
	Materials []string      `json:"materials,omitempty"`
	Children  []*nodeOut    `json:"children,omitempty"`
}

type transformOut struct {
	Translate [3]float64 `json:"translate"`
	Rotate    [3]float64 `json:"rotate"`
	Scale     [3]float64 `json:"scale"`
}

// Write encodes the tree rooted at root. Identity transforms, empty mesh
// references and empty materials/children lists are omitted from the output.
func Write(root *Node, w io.Writer) error {
	out, err := encodeNode(root, "")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return pkgerrors.Wrap(err, "sgr: write document")
	}
	return nil
}

// Save writes the tree to a .sgr file at path.
func Save(root *Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "sgr: create %s", path)
	}
	defer f.Close()
	if err := Write(root, f); err != nil {
		return pkgerrors.Wrapf(err, "sgr: save %s", path)
	}
	return nil
}

func encodeNode(n *Node, field string) (*nodeOut, error) {
	if n.Name == "" {
		return nil, schemaErrorf("", joinField(field, "name"), "node name must not be empty")
	}
	out := &nodeOut{Name: n.Name, Mesh: n.Mesh}
	if n.Transform != nil && !n.Transform.IsIdentity() {
		t := n.Transform
		out.Transform = &transformOut{
			Translate: [3]float64{t.Translate.X, t.Translate.Y, t.Translate.Z},
			Rotate:    [3]float64{t.Rotate.X, t.Rotate.Y, t.Rotate.Z},
			Scale:     [3]float64{t.Scale.X, t.Scale.Y, t.Scale.Z},
		}
	}
	if len(n.Materials) > 0 {
		out.Materials = n.Materials
	}
	for i, c := range n.Children {
		enc, err := encodeNode(c, childField(field, i))
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, enc)
	}
	return out, nil
}
