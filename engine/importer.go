package engine

import (
	"fmt"
	"path"

	pkgerrors "github.com/pkg/errors"

	"github.com/nybane/sgrconv/sgr"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Created  int // entities created
	Warnings []*UnresolvedAssetError
}

// SceneImporter instantiates a decoded scene-graph tree into a target engine.
// Entities are created parent-before-child, depth-first in child order.
//
// Mesh and material references that do not resolve in the catalog are skipped
// and reported as warnings; the entity is still created and its children are
// still visited. With Strict set, the first unresolved reference aborts the
// import instead.
type SceneImporter struct {
	API     EntityAPI
	Catalog AssetCatalog
	Strict  bool
}

func NewSceneImporter(api EntityAPI, catalog AssetCatalog) *SceneImporter {
	return &SceneImporter{API: api, Catalog: catalog}
}

func (imp *SceneImporter) Import(root *sgr.Node) (*ImportResult, error) {
	if imp.API == nil || imp.Catalog == nil {
		return nil, fmt.Errorf("engine: importer needs an entity API and an asset catalog")
	}
	res := &ImportResult{}
	if err := imp.importNode(root, InvalidEntityID, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (imp *SceneImporter) importNode(n *sgr.Node, parent EntityID, res *ImportResult) error {
	id, err := imp.API.CreateEntity(n.Name, parent)
	if err != nil {
		return pkgerrors.Wrapf(err, "engine: create entity %q", n.Name)
	}
	res.Created++

	if err := imp.API.SetTransform(id, n.EffectiveTransform()); err != nil {
		return pkgerrors.Wrapf(err, "engine: set transform of %q", n.Name)
	}

	if n.Mesh != "" {
		rel := path.Join(sgr.MeshesDir, n.Mesh)
		if imp.Catalog.Exists(rel) {
			if err := imp.API.AttachMesh(id, rel); err != nil {
				return pkgerrors.Wrapf(err, "engine: attach mesh to %q", n.Name)
			}
		} else if err := imp.unresolved(n.Name, "mesh", rel, res); err != nil {
			return err
		}
	}

	if len(n.Materials) > 0 {
		resolved := make([]string, len(n.Materials))
		bound := false
		for i, ref := range n.Materials {
			if ref == "" {
				continue // unbound slot, engine default
			}
			rel := path.Join(sgr.MaterialsDir, ref)
			if !imp.Catalog.Exists(rel) {
				if err := imp.unresolved(n.Name, "material", rel, res); err != nil {
					return err
				}
				continue
			}
			resolved[i] = rel
			bound = true
		}
		if bound {
			if err := imp.API.AttachMaterials(id, resolved); err != nil {
				return pkgerrors.Wrapf(err, "engine: attach materials to %q", n.Name)
			}
		}
	}

	for _, c := range n.Children {
		if err := imp.importNode(c, id, res); err != nil {
			return err
		}
	}
	return nil
}

func (imp *SceneImporter) unresolved(node, kind, rel string, res *ImportResult) error {
	uerr := &UnresolvedAssetError{Node: node, Kind: kind, Path: rel}
	if imp.Strict {
		return uerr
	}
	res.Warnings = append(res.Warnings, uerr)
	return nil
}
