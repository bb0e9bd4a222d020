package sgr

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nybane/sgrconv/geom"
)

// Documents are trees, so nesting is unbounded in principle. Reject
// anything deep enough to threaten the stack. Each node costs two JSON
// nesting levels (object + children array), so this must stay below half
// of encoding/json's 10000-level limit for the guard to be the one that
// reports the error.
const maxDocumentDepth = 4096

type nodeJSON struct {
	Name      *string        `json:"name"`
	Transform *transformJSON `json:"transform"`
	Mesh      *string        `json:"mesh"`
	Materials []string       `json:"materials"`
	Children  []*nodeJSON    `json:"children"`
}

type transformJSON struct {
	Translate []float64 `json:"translate"`
	Rotate    []float64 `json:"rotate"`
	Scale     []float64 `json:"scale"`
}

// Parser reads a scene-graph document. path is used in error messages only.
type Parser struct {
	name string
	r    io.Reader
}

func NewParser(r io.Reader, path string) *Parser {
	return &Parser{name: path, r: r}
}

func (p *Parser) Parse() (*Node, error) {
	// Some Windows authoring tools prefix JSON with a UTF-8 BOM.
	r := transform.NewReader(p.r, unicode.UTF8BOM.NewDecoder())

	var root nodeJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, p.wrapDecodeError(err)
	}
	// a document is exactly one JSON value
	if _, err := dec.Token(); err != io.EOF {
		return nil, schemaErrorf(p.name, "", "trailing content after the document root")
	}
	return p.node(&root, "", 0)
}

func (p *Parser) wrapDecodeError(err error) error {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		field := typeErr.Field
		if field == "" {
			field = "(document)"
		}
		return schemaErrorf(p.name, field, "cannot decode %v as %v", typeErr.Value, typeErr.Type)
	}
	if _, ok := err.(*json.SyntaxError); ok {
		return schemaErrorf(p.name, "", "not a valid JSON document: %v", err)
	}
	return pkgerrors.Wrapf(err, "sgr: read %s", p.name)
}

func (p *Parser) node(src *nodeJSON, field string, depth int) (*Node, error) {
	if depth > maxDocumentDepth {
		return nil, schemaErrorf(p.name, field, "nesting deeper than %d levels", maxDocumentDepth)
	}
	if src == nil {
		return nil, schemaErrorf(p.name, field, "node must be an object, not null")
	}
	if src.Name == nil || *src.Name == "" {
		return nil, schemaErrorf(p.name, joinField(field, "name"), "missing or empty node name")
	}

	n := NewNode(*src.Name)
	if src.Mesh != nil {
		n.Mesh = *src.Mesh
	}
	if len(src.Materials) > 0 {
		n.Materials = append(n.Materials, src.Materials...)
	}
	if src.Transform != nil {
		tr, err := p.transform(src.Transform, joinField(field, "transform"))
		if err != nil {
			return nil, err
		}
		n.Transform = tr
	}
	for i, c := range src.Children {
		child, err := p.node(c, childField(field, i), depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func (p *Parser) transform(src *transformJSON, field string) (*Transform, error) {
	tr := IdentityTransform()
	if err := p.vec3(src.Translate, joinField(field, "translate"), &tr.Translate); err != nil {
		return nil, err
	}
	if err := p.vec3(src.Rotate, joinField(field, "rotate"), &tr.Rotate); err != nil {
		return nil, err
	}
	if err := p.vec3(src.Scale, joinField(field, "scale"), &tr.Scale); err != nil {
		return nil, err
	}
	return tr, nil
}

func (p *Parser) vec3(src []float64, field string, dst *geom.Vector3) error {
	if src == nil {
		return nil // keep the default
	}
	if len(src) != 3 {
		return schemaErrorf(p.name, field, "expected 3 components, got %d", len(src))
	}
	*dst = geom.Vector3{X: src[0], Y: src[1], Z: src[2]}
	return nil
}

func joinField(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func childField(base string, i int) string {
	return joinField(base, fmt.Sprintf("children[%d]", i))
}

// Parse decodes a scene-graph document from r.
func Parse(r io.Reader, path string) (*Node, error) {
	return NewParser(r, path).Parse()
}

// Load reads the document at path.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "sgr: open %s", path)
	}
	defer f.Close()
	return Parse(f, path)
}
