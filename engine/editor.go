package engine

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nybane/sgrconv/sgr"
)

// Entity is one editor entity with its attached components.
type Entity struct {
	ID        EntityID
	Name      string
	Parent    EntityID
	Transform *sgr.Transform
	Mesh      string   // mesh asset path, "" if none
	Materials []string // material asset path per slot, "" = engine default

	children []EntityID
}

// EditorScene is an in-memory EntityAPI implementation. It stands in for a
// host editor: entities get fresh IDs, parent links are validated, and child
// order follows creation order.
type EditorScene struct {
	entities map[EntityID]*Entity
	roots    []EntityID
}

func NewEditorScene() *EditorScene {
	return &EditorScene{entities: map[EntityID]*Entity{}}
}

func (s *EditorScene) CreateEntity(name string, parent EntityID) (EntityID, error) {
	if name == "" {
		return InvalidEntityID, fmt.Errorf("engine: entity name must not be empty")
	}
	if parent != InvalidEntityID {
		if _, ok := s.entities[parent]; !ok {
			return InvalidEntityID, fmt.Errorf("engine: parent entity %q does not exist", parent)
		}
	}
	id := EntityID(uuid.NewString())
	e := &Entity{ID: id, Name: name, Parent: parent, Transform: sgr.IdentityTransform()}
	s.entities[id] = e
	if parent == InvalidEntityID {
		s.roots = append(s.roots, id)
	} else {
		p := s.entities[parent]
		p.children = append(p.children, id)
	}
	return id, nil
}

func (s *EditorScene) SetTransform(id EntityID, t *sgr.Transform) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	copied := *t
	e.Transform = &copied
	return nil
}

func (s *EditorScene) AttachMesh(id EntityID, assetPath string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	e.Mesh = assetPath
	return nil
}

func (s *EditorScene) AttachMaterials(id EntityID, assetPaths []string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	e.Materials = append([]string(nil), assetPaths...)
	return nil
}

func (s *EditorScene) get(id EntityID) (*Entity, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, fmt.Errorf("engine: entity %q does not exist", id)
	}
	return e, nil
}

// Entity returns the entity with the given ID, or nil.
func (s *EditorScene) Entity(id EntityID) *Entity {
	return s.entities[id]
}

// Roots returns the top-level entities in creation order.
func (s *EditorScene) Roots() []*Entity {
	return s.resolve(s.roots)
}

// Children returns the entity's children in creation order.
func (s *EditorScene) Children(id EntityID) []*Entity {
	e := s.entities[id]
	if e == nil {
		return nil
	}
	return s.resolve(e.children)
}

func (s *EditorScene) resolve(ids []EntityID) []*Entity {
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entities[id])
	}
	return out
}

// Len returns the number of entities in the scene.
func (s *EditorScene) Len() int { return len(s.entities) }

// Dump prints the entity hierarchy.
func (s *EditorScene) Dump(w io.Writer) {
	for _, e := range s.Roots() {
		s.dump(w, e, 0)
	}
}

func (s *EditorScene) dump(w io.Writer, e *Entity, indent int) {
	for i := 0; i < indent; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprint(w, e.Name)
	if e.Mesh != "" {
		fmt.Fprintf(w, " mesh=%s", e.Mesh)
	}
	if len(e.Materials) > 0 {
		fmt.Fprintf(w, " materials=%v", e.Materials)
	}
	fmt.Fprintln(w)
	for _, c := range s.Children(e.ID) {
		s.dump(w, c, indent+1)
	}
}
