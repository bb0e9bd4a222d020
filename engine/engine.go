// Package engine hosts the import side of the scene-graph pipeline: the
// entity API a target engine must expose, an in-memory editor scene that
// implements it, and the importer that instantiates decoded trees.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nybane/sgrconv/sgr"
)

// EntityID identifies an entity created by an EntityAPI. The zero value is
// the invalid ID and doubles as "no parent".
type EntityID string

const InvalidEntityID EntityID = ""

// EntityAPI is the target engine surface the importer drives. Parents must
// exist before their children are created.
type EntityAPI interface {
	CreateEntity(name string, parent EntityID) (EntityID, error)
	SetTransform(id EntityID, t *sgr.Transform) error
	AttachMesh(id EntityID, assetPath string) error
	AttachMaterials(id EntityID, assetPaths []string) error
}

// AssetCatalog answers whether a scene-root-relative asset path resolves to
// an existing asset.
type AssetCatalog interface {
	Exists(relPath string) bool
}

// DirCatalog resolves asset paths against a scene root directory on disk.
type DirCatalog struct {
	Root string
}

func (c *DirCatalog) Exists(relPath string) bool {
	info, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(relPath)))
	return err == nil && !info.IsDir()
}

// MemCatalog is a fixed set of asset paths, mainly for tests.
type MemCatalog map[string]bool

func (c MemCatalog) Exists(relPath string) bool { return c[relPath] }

// UnresolvedAssetError reports a mesh or material reference that does not
// resolve to an existing asset. It is recoverable per node: under the default
// skip policy the entity is still created and its children are still visited.
type UnresolvedAssetError struct {
	Node string // node name
	Kind string // "mesh" or "material"
	Path string // scene-root-relative asset path
}

func (e *UnresolvedAssetError) Error() string {
	return fmt.Sprintf("engine: node %q references missing %s asset %q", e.Node, e.Kind, e.Path)
}
